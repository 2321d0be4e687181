package handlers

import (
	"context"

	"github.com/futig/interview-backend/internal/entity"
	interviewuc "github.com/futig/interview-backend/internal/usecase/interview"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// InterviewUsecase is the part of the interview use case the chat front-end
// drives
type InterviewUsecase interface {
	CreateSession(ctx context.Context, req interviewuc.CreateSessionRequest) (*interviewuc.Snapshot, error)
	Personalize(ctx context.Context, sessionID string, p *entity.Personalization) (*interviewuc.Snapshot, error)
	StartInterview(ctx context.Context, sessionID string) (*interviewuc.Snapshot, error)
	SubmitTextAnswer(ctx context.Context, sessionID, text string) (*interviewuc.Snapshot, error)
	SubmitAudioAnswer(ctx context.Context, sessionID string, audio []byte, filename string) (*interviewuc.Snapshot, error)
	Skip(ctx context.Context, sessionID string) (*interviewuc.Snapshot, error)
	EndEarly(ctx context.Context, sessionID string) (*interviewuc.Snapshot, error)
	Restart(ctx context.Context, sessionID string) (*interviewuc.Snapshot, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Subscribe(ctx context.Context, sessionID string) (*interviewuc.Stream, error)
	GetReport(ctx context.Context, sessionID string) (*entity.InterviewRecord, error)
}

// BotAPI is the subset of the Telegram client used by handlers
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}
