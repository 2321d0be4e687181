package interview

import (
	"context"

	"github.com/futig/interview-backend/internal/entity"
)

// LLMConnector covers the three remote interview services
type LLMConnector interface {
	GenerateQuestion(ctx context.Context, req *entity.QuestionRequest) (string, error)
	AnalyzeAnswer(ctx context.Context, req *entity.AnalysisRequest) (*entity.Feedback, error)
	GenerateReport(ctx context.Context, req *entity.ReportRequest) (*entity.FinalReport, error)
}

type ASRConnector interface {
	TranscribeBytes(ctx context.Context, audioData []byte, filename string) (string, error)
}

type CallbackConnector interface {
	SendInterviewCompleted(ctx context.Context, data *entity.CallbackInterviewCompletedData) error
}
