package interview

import (
	"context"
	"fmt"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ProgressTracker stores completed interviews with their progress scores and
// notifies the progress webhook
type ProgressTracker struct {
	interviewRepo repository.InterviewRepository
	progressRepo  repository.ProgressRepository
	callback      CallbackConnector
}

func NewProgressTracker(
	interviewRepo repository.InterviewRepository,
	progressRepo repository.ProgressRepository,
	callback CallbackConnector,
) *ProgressTracker {
	return &ProgressTracker{
		interviewRepo: interviewRepo,
		progressRepo:  progressRepo,
		callback:      callback,
	}
}

func (t *ProgressTracker) Record(ctx context.Context, record entity.InterviewRecord, progress entity.Progress) error {
	if err := t.interviewRepo.SaveInterview(ctx, record); err != nil {
		return fmt.Errorf("save interview: %w", err)
	}

	if err := t.progressRepo.AddProgress(ctx, progress); err != nil {
		return fmt.Errorf("add progress: %w", err)
	}

	if t.callback == nil {
		return nil
	}

	skipped := 0
	for _, r := range record.Responses {
		if r.IsSkipped() {
			skipped++
		}
	}

	err := t.callback.SendInterviewCompleted(ctx, &entity.CallbackInterviewCompletedData{
		Progress:     progress,
		OverallScore: record.Report.OverallScore,
		Questions:    len(record.Responses),
		Skipped:      skipped,
	})
	if err != nil {
		// persisted already, the webhook is best effort
		ctxzap.Warn(ctx, "progress webhook failed", zap.Error(err))
	}

	return nil
}
