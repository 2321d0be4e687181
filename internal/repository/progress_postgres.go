package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// ProgressRepository persists per-interview progress scores
type ProgressRepository interface {
	AddProgress(ctx context.Context, progress entity.Progress) error
	ListProgress(ctx context.Context, interviewType *entity.InterviewType, limit int) ([]entity.Progress, error)
}

var _ ProgressRepository = &ProgressPostgres{}

type ProgressPostgres struct {
	db DBTX
}

func NewProgressPostgres(db DBTX) *ProgressPostgres {
	return &ProgressPostgres{db: db}
}

const addProgress = `
INSERT INTO interview_progress (session_id, interview_type, communication_score, confidence_score, technical_score, completed_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (session_id) DO NOTHING`

func (r *ProgressPostgres) AddProgress(ctx context.Context, progress entity.Progress) error {
	id, err := toPgUUID(progress.SessionID)
	if err != nil {
		return err
	}

	completedAt := progress.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	_, err = r.db.Exec(ctx, addProgress,
		id,
		string(progress.InterviewType),
		progress.CommunicationScore,
		progress.ConfidenceScore,
		progress.TechnicalScore,
		completedAt,
	)
	if err != nil {
		return fmt.Errorf("insert progress: %w", err)
	}

	return nil
}

const listProgress = `
SELECT session_id, interview_type, communication_score, confidence_score, technical_score, completed_at
FROM interview_progress
WHERE $1::text IS NULL OR interview_type = $1
ORDER BY completed_at DESC
LIMIT $2`

// ListProgress returns the most recent progress records, newest first,
// optionally filtered by interview type
func (r *ProgressPostgres) ListProgress(ctx context.Context, interviewType *entity.InterviewType, limit int) ([]entity.Progress, error) {
	var typeFilter pgtype.Text
	if interviewType != nil {
		typeFilter = pgtype.Text{String: string(*interviewType), Valid: true}
	}

	rows, err := r.db.Query(ctx, listProgress, typeFilter, limit)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}

	progress, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Progress, error) {
		var (
			id pgtype.UUID
			p  entity.Progress
			t  string
		)
		if err := row.Scan(&id, &t, &p.CommunicationScore, &p.ConfidenceScore, &p.TechnicalScore, &p.CompletedAt); err != nil {
			return entity.Progress{}, err
		}
		p.SessionID = fromPgUUID(id)
		p.InterviewType = entity.InterviewType(t)
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect progress: %w", err)
	}

	return progress, nil
}
