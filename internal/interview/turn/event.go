package turn

import "github.com/futig/interview-backend/internal/entity"

// Event is the closed set of inputs accepted by Reduce
type Event interface {
	Name() string
	event()
}

// Personalize stores the optional personalization and leaves Personalizing
type Personalize struct {
	Personalization *entity.Personalization
}

// StartInterview enters the Interviewing phase and asks the next question
type StartInterview struct{}

// QuestionReady delivers generated question text for a question or follow-up call
type QuestionReady struct {
	Seq     uint64
	Content string
}

// RemoteFailure reports that the pending remote call failed
type RemoteFailure struct {
	Seq uint64
	Err error
}

// SpeechEnded is emitted when playback of the current question finishes
type SpeechEnded struct{}

// TranscriptUpdated carries incremental recognition text
type TranscriptUpdated struct {
	Text string
}

// TranscriptSubmitted is the user's explicit submit action. An empty Text
// falls back to the live transcript.
type TranscriptSubmitted struct {
	Text string
}

// AnalysisReady delivers per-answer feedback; nil means unscored
type AnalysisReady struct {
	Seq      uint64
	Feedback *entity.Feedback
}

// ReportReady delivers the final report
type ReportReady struct {
	Seq    uint64
	Report entity.FinalReport
}

type Skip struct{}

type EndEarly struct{}

type Restart struct{}

func (Personalize) Name() string         { return "personalize" }
func (StartInterview) Name() string      { return "start_interview" }
func (QuestionReady) Name() string       { return "question_ready" }
func (RemoteFailure) Name() string       { return "remote_failure" }
func (SpeechEnded) Name() string         { return "speech_ended" }
func (TranscriptUpdated) Name() string   { return "transcript_updated" }
func (TranscriptSubmitted) Name() string { return "transcript_submitted" }
func (AnalysisReady) Name() string       { return "analysis_ready" }
func (ReportReady) Name() string         { return "report_ready" }
func (Skip) Name() string                { return "skip" }
func (EndEarly) Name() string            { return "end_early" }
func (Restart) Name() string             { return "restart" }

func (Personalize) event()         {}
func (StartInterview) event()      {}
func (QuestionReady) event()       {}
func (RemoteFailure) event()       {}
func (SpeechEnded) event()         {}
func (TranscriptUpdated) event()   {}
func (TranscriptSubmitted) event() {}
func (AnalysisReady) event()       {}
func (ReportReady) event()         {}
func (Skip) event()                {}
func (EndEarly) event()            {}
func (Restart) event()             {}
