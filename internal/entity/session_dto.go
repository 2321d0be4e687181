package entity

import (
	"mime/multipart"
	"time"
)

type ResultFormat string

const (
	FormatMarkdown ResultFormat = "markdown"
	FormatJSON     ResultFormat = "json"
	FormatDOCX     ResultFormat = "docx"
	FormatPDF      ResultFormat = "pdf"
)

func (f ResultFormat) IsValid() bool {
	switch f {
	case FormatMarkdown, FormatJSON, FormatDOCX, FormatPDF:
		return true
	default:
		return false
	}
}

type CapabilitiesDTO struct {
	SpeechRecognition bool `json:"speech_recognition"`
	SpeechSynthesis   bool `json:"speech_synthesis"`
}

type CreateSessionRequest struct {
	Profile        string          `json:"profile,omitempty"`
	InterviewType  InterviewType   `json:"interview_type,omitempty"`
	TotalQuestions int             `json:"total_questions,omitempty"`
	Capabilities   CapabilitiesDTO `json:"capabilities"`
	RequireCamera  *bool           `json:"require_camera,omitempty"`
}

type PersonalizeRequest struct {
	ResumeText      *string  `json:"resume_text,omitempty"`
	JobDescription  *string  `json:"job_description,omitempty"`
	CustomQuestions []string `json:"custom_questions,omitempty"`
}

type SubmitAnswerRequest struct {
	// Answer may be empty to submit the live transcript
	Answer string `json:"answer"`
}

type TranscriptRequest struct {
	Text string `json:"text"`
}

type CameraRequest struct {
	Ready bool `json:"ready"`
}

type SubmitAudioAnswerRequest struct {
	AudioFile *multipart.FileHeader
}

type TipDTO struct {
	Kind          string `json:"kind"`
	Text          string `json:"text"`
	QuestionIndex int    `json:"question_index"`
}

type NoticeDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SessionDTO is the public view of a live interview session
type SessionDTO struct {
	ID              string           `json:"session_id"`
	Phase           string           `json:"phase"`
	State           string           `json:"interview_state"`
	InterviewType   InterviewType    `json:"interview_type"`
	TotalQuestions  int              `json:"total_questions"`
	QuestionIndex   int              `json:"question_index"`
	FollowUpCount   int              `json:"follow_up_count"`
	CurrentQuestion string           `json:"current_question,omitempty"`
	CurrentEmotion  Emotion          `json:"current_emotion"`
	Transcript      string           `json:"transcript,omitempty"`
	Responses       []Response       `json:"responses"`
	Tips            []TipDTO         `json:"tips"`
	Capabilities    CapabilitiesDTO  `json:"capabilities"`
	Personalization *Personalization `json:"personalization,omitempty"`
	FinalReport     *FinalReport     `json:"final_report,omitempty"`
	Busy            bool             `json:"busy"`
}

type ProgressListDTO struct {
	Items []Progress `json:"items"`
	Total int        `json:"total"`
}

// StreamMessage is the envelope of every websocket frame
type StreamMessage struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
