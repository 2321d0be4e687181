package entity

import "time"

// Emotion is the display emotion derived from stage directions in generated text
type Emotion string

const (
	EmotionNeutral     Emotion = "neutral"
	EmotionWarmSmile   Emotion = "warm_smile"
	EmotionSmile       Emotion = "smile"
	EmotionThinking    Emotion = "thinking"
	EmotionLeanForward Emotion = "lean_forward"
	EmotionNod         Emotion = "nod"
	EmotionCurious     Emotion = "curious"
	EmotionEncouraging Emotion = "encouraging"
	EmotionImpressed   Emotion = "impressed"
	EmotionSerious     Emotion = "serious"
	EmotionRaisedBrow  Emotion = "raised_eyebrow"
	EmotionTiltedHead  Emotion = "head_tilt"
)

type InterviewType string

const (
	InterviewTypeBehavioral InterviewType = "behavioral"
	InterviewTypeTechnical  InterviewType = "technical"
	InterviewTypeMixed      InterviewType = "mixed"
)

func (t InterviewType) Valid() bool {
	switch t {
	case InterviewTypeBehavioral, InterviewTypeTechnical, InterviewTypeMixed:
		return true
	}
	return false
}

// Personalization is supplied once before the interview begins
type Personalization struct {
	ResumeText      *string  `json:"resume_text,omitempty" yaml:"resume_text,omitempty"`
	JobDescription  *string  `json:"job_description,omitempty" yaml:"job_description,omitempty"`
	CustomQuestions []string `json:"custom_questions,omitempty" yaml:"custom_questions,omitempty"`
}

// Feedback is the per-answer analysis result
type Feedback struct {
	Score        float64  `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// Response is one resolved top-level question. Feedback is nil when the
// answer was skipped or analysis failed.
type Response struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Feedback *Feedback `json:"feedback,omitempty"`
}

// SkippedAnswer is recorded in place of an answer for skipped questions
const SkippedAnswer = "[Skipped]"

// IsSkipped reports whether the response was produced by a skip
func (r Response) IsSkipped() bool {
	return r.Answer == SkippedAnswer
}

type QuestionFeedback struct {
	Question string  `json:"question"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// FinalReport is produced once per completed interview
type FinalReport struct {
	OverallScore       float64  `json:"overallScore"`
	CommunicationScore float64  `json:"communicationScore"`
	ConfidenceScore    float64  `json:"confidenceScore"`
	TechnicalScore     float64  `json:"technicalScore"`
	Summary            string   `json:"summary"`
	Strengths          []string `json:"strengths"`
	Improvements       []string `json:"improvements"`
	Recommendations    []string `json:"recommendations"`

	QuestionFeedback []QuestionFeedback `json:"questionFeedback,omitempty"`
	NextSteps        []string           `json:"nextSteps,omitempty"`
	HiringVerdict    string             `json:"hiringVerdict,omitempty"`
}

// QuestionRequest is the context sent to the question generation service
type QuestionRequest struct {
	QuestionNumber    int           `json:"questionNumber"`
	TotalQuestions    int           `json:"totalQuestions"`
	PreviousQuestions []string      `json:"previousQuestions"`
	InterviewType     InterviewType `json:"interviewType"`
	ResumeText        *string       `json:"resumeText,omitempty"`
	JobDescription    *string       `json:"jobDescription,omitempty"`
	IsFollowUp        bool          `json:"isFollowUp,omitempty"`
	PreviousQuestion  string        `json:"previousQuestion,omitempty"`
	PreviousAnswer    string        `json:"previousAnswer,omitempty"`
}

type QuestionResponse struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

type AnalysisRequest struct {
	Question     string `json:"question"`
	UserResponse string `json:"userResponse"`
}

type ReportRequest struct {
	AllResponses []Response `json:"allResponses"`
}

type ReportResponse struct {
	FinalReport
	Error string `json:"error,omitempty"`
}

// Progress is reported once per completed interview
type Progress struct {
	SessionID          string        `json:"session_id"`
	CommunicationScore float64       `json:"communicationScore"`
	ConfidenceScore    float64       `json:"confidenceScore"`
	TechnicalScore     float64       `json:"technicalScore"`
	InterviewType      InterviewType `json:"interviewType"`
	CompletedAt        time.Time     `json:"completed_at"`
}

// InterviewRecord is a persisted completed interview
type InterviewRecord struct {
	ID            string        `json:"id"`
	InterviewType InterviewType `json:"interview_type"`
	Responses     []Response    `json:"responses"`
	Report        FinalReport   `json:"report"`
	CreatedAt     time.Time     `json:"created_at"`
}

// TranscribeResponse is returned by the speech-to-text service
type TranscribeResponse struct {
	Transcription string `json:"transcription"`
}
