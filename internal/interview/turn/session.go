// Package turn holds the interview session record and the pure reducer that
// sequences conversational turns.
//
// Reduce never performs I/O. Every side effect it needs (remote calls, speech,
// camera, progress reporting, user notices) is returned as an Effect, and
// every asynchronous completion comes back in as an Event carrying the
// sequence number of the call it answers.
package turn

import (
	"slices"

	"github.com/futig/interview-backend/internal/entity"
)

type Phase string

const (
	PhasePersonalizing Phase = "personalizing"
	PhaseSettingUp     Phase = "setting_up"
	PhaseInterviewing  Phase = "interviewing"
	PhaseProcessing    Phase = "processing"
	PhaseComplete      Phase = "complete"
)

// State is what the current turn is doing while the phase is Interviewing
type State string

const (
	StateIdle       State = "idle"
	StateThinking   State = "thinking"
	StateListening  State = "listening"
	StateResponding State = "responding"
)

// Call identifies the kind of remote call a turn is waiting on
type Call string

const (
	CallQuestion Call = "question"
	CallFollowUp Call = "follow_up"
	CallAnalysis Call = "analysis"
	CallReport   Call = "report"
)

// Pending marks the single outstanding remote call of a session
type Pending struct {
	Seq  uint64 `json:"seq"`
	Call Call   `json:"call"`
}

type Capabilities struct {
	SpeechRecognition bool `json:"speech_recognition"`
	SpeechSynthesis   bool `json:"speech_synthesis"`
}

// Config is fixed for the lifetime of a session and survives restarts
type Config struct {
	TotalQuestions int                  `json:"total_questions"`
	InterviewType  entity.InterviewType `json:"interview_type"`
	Capabilities   Capabilities         `json:"capabilities"`
}

type TipKind string

const (
	TipQuestion  TipKind = "question"
	TipElaborate TipKind = "elaborate"
)

type Tip struct {
	Kind          TipKind `json:"kind"`
	Text          string  `json:"text"`
	QuestionIndex int     `json:"question_index"`
}

// Session is the whole state of one interview. It is treated as an
// immutable value: Reduce copies any slice it extends.
type Session struct {
	Config Config `json:"config"`

	Phase Phase `json:"phase"`
	State State `json:"interview_state"`

	QuestionIndex int `json:"question_index"`
	FollowUpCount int `json:"follow_up_count"`

	CurrentQuestionRaw     string         `json:"current_question_raw,omitempty"`
	CurrentQuestionDisplay string         `json:"current_question,omitempty"`
	CurrentEmotion         entity.Emotion `json:"current_emotion"`

	// Transcript is the live recognition text of the open answer
	Transcript string `json:"transcript,omitempty"`
	// PendingAnswer is the submitted answer awaiting analysis or a follow-up
	PendingAnswer string `json:"pending_answer,omitempty"`

	Responses      []entity.Response `json:"responses"`
	AskedQuestions []string          `json:"asked_questions"`
	Tips           []Tip             `json:"tips"`

	Personalization *entity.Personalization `json:"personalization,omitempty"`
	FinalReport     *entity.FinalReport     `json:"final_report,omitempty"`

	Pending     *Pending `json:"pending,omitempty"`
	ResumeState State    `json:"-"`
	Generation  uint64   `json:"-"`
}

// Initial returns a fresh session in the Personalizing phase
func Initial(cfg Config) Session {
	return Session{
		Config:         cfg,
		Phase:          PhasePersonalizing,
		State:          StateIdle,
		QuestionIndex:  1,
		CurrentEmotion: entity.EmotionNeutral,
		Responses:      []entity.Response{},
		AskedQuestions: []string{},
		Tips:           []Tip{},
	}
}

// InFlight reports whether a remote call is outstanding
func (s Session) InFlight() bool {
	return s.Pending != nil
}

// Clone returns a deep copy safe to hand to other goroutines
func (s Session) Clone() Session {
	out := s
	out.Responses = slices.Clone(s.Responses)
	out.AskedQuestions = slices.Clone(s.AskedQuestions)
	out.Tips = slices.Clone(s.Tips)
	out.Personalization = clonePersonalization(s.Personalization)
	if s.FinalReport != nil {
		report := *s.FinalReport
		out.FinalReport = &report
	}
	if s.Pending != nil {
		pending := *s.Pending
		out.Pending = &pending
	}
	return out
}

func clonePersonalization(p *entity.Personalization) *entity.Personalization {
	if p == nil {
		return nil
	}
	out := *p
	out.CustomQuestions = slices.Clone(p.CustomQuestions)
	return &out
}

func appendResponse(rs []entity.Response, r entity.Response) []entity.Response {
	out := make([]entity.Response, len(rs), len(rs)+1)
	copy(out, rs)
	return append(out, r)
}

func appendString(ss []string, v string) []string {
	out := make([]string, len(ss), len(ss)+1)
	copy(out, ss)
	return append(out, v)
}

func appendTip(ts []Tip, t Tip) []Tip {
	out := make([]Tip, len(ts), len(ts)+1)
	copy(out, ts)
	return append(out, t)
}
