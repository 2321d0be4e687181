package interview

import (
	"context"

	"github.com/futig/interview-backend/internal/entity"
	interviewuc "github.com/futig/interview-backend/internal/usecase/interview"
)

type InterviewUsecase interface {
	CreateSession(ctx context.Context, req interviewuc.CreateSessionRequest) (*interviewuc.Snapshot, error)
	GetSession(ctx context.Context, sessionID string) (*interviewuc.Snapshot, error)
	Personalize(ctx context.Context, sessionID string, p *entity.Personalization) (*interviewuc.Snapshot, error)
	StartInterview(ctx context.Context, sessionID string) (*interviewuc.Snapshot, error)
	CameraReady(ctx context.Context, sessionID string, ready bool) error
	SpeechEnded(ctx context.Context, sessionID string) error
	UpdateTranscript(ctx context.Context, sessionID, text string) (*interviewuc.Snapshot, error)
	SubmitTextAnswer(ctx context.Context, sessionID, text string) (*interviewuc.Snapshot, error)
	SubmitAudioAnswer(ctx context.Context, sessionID string, audio []byte, filename string) (*interviewuc.Snapshot, error)
	Skip(ctx context.Context, sessionID string) (*interviewuc.Snapshot, error)
	EndEarly(ctx context.Context, sessionID string) (*interviewuc.Snapshot, error)
	Restart(ctx context.Context, sessionID string) (*interviewuc.Snapshot, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Subscribe(ctx context.Context, sessionID string) (*interviewuc.Stream, error)
	Touch(sessionID string)
	GetReport(ctx context.Context, sessionID string) (*entity.InterviewRecord, error)
	ListProgress(ctx context.Context, interviewType *entity.InterviewType, limit int) ([]entity.Progress, error)
}
