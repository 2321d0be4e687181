package orchestrator

import (
	"context"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/turn"
)

type QuestionService interface {
	GenerateQuestion(ctx context.Context, req *entity.QuestionRequest) (string, error)
}

// AnalysisService returns nil feedback when the answer could not be scored.
// An error is reserved for calls that were aborted.
type AnalysisService interface {
	AnalyzeAnswer(ctx context.Context, req *entity.AnalysisRequest) (*entity.Feedback, error)
}

type ReportService interface {
	GenerateReport(ctx context.Context, req *entity.ReportRequest) (*entity.FinalReport, error)
}

// SpeechIO plays questions and captures answers. Completion of playback and
// recognition output are delivered on Events as SpeechEnded,
// TranscriptUpdated and TranscriptSubmitted.
type SpeechIO interface {
	Speak(ctx context.Context, text string) error
	StartListening(ctx context.Context) error
	StopListening(ctx context.Context) error
	CancelSpeech(ctx context.Context) error
	Events() <-chan turn.Event
}

type Camera interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}

type ProgressTracker interface {
	Record(ctx context.Context, record entity.InterviewRecord, progress entity.Progress) error
}

// Dependencies are the collaborators one session runtime drives
type Dependencies struct {
	Questions QuestionService
	Analysis  AnalysisService
	Reports   ReportService
	Speech    SpeechIO
	Camera    Camera
	Progress  ProgressTracker
}
