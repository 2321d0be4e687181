package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// InterviewRepository persists completed interviews
type InterviewRepository interface {
	SaveInterview(ctx context.Context, record entity.InterviewRecord) error
	GetInterview(ctx context.Context, id string) (*entity.InterviewRecord, error)
	ListInterviews(ctx context.Context, limit int) ([]entity.InterviewRecord, error)
}

var _ InterviewRepository = &InterviewPostgres{}

type InterviewPostgres struct {
	db DBTX
}

func NewInterviewPostgres(db DBTX) *InterviewPostgres {
	return &InterviewPostgres{db: db}
}

const saveInterview = `
INSERT INTO interviews (id, interview_type, responses, report, overall_score, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING`

// SaveInterview stores a completed interview. Saving the same id twice is a no-op.
func (r *InterviewPostgres) SaveInterview(ctx context.Context, record entity.InterviewRecord) error {
	id, err := toPgUUID(record.ID)
	if err != nil {
		return err
	}

	responses, err := json.Marshal(record.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}

	report, err := json.Marshal(record.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = r.db.Exec(ctx, saveInterview,
		id,
		string(record.InterviewType),
		responses,
		report,
		record.Report.OverallScore,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert interview: %w", err)
	}

	return nil
}

const getInterview = `
SELECT id, interview_type, responses, report, created_at
FROM interviews
WHERE id = $1`

func (r *InterviewPostgres) GetInterview(ctx context.Context, id string) (*entity.InterviewRecord, error) {
	pgID, err := toPgUUID(id)
	if err != nil {
		return nil, err
	}

	record, err := scanInterview(r.db.QueryRow(ctx, getInterview, pgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrInterviewNotFound
		}
		return nil, fmt.Errorf("query interview: %w", err)
	}

	return record, nil
}

const listInterviews = `
SELECT id, interview_type, responses, report, created_at
FROM interviews
ORDER BY created_at DESC
LIMIT $1`

func (r *InterviewPostgres) ListInterviews(ctx context.Context, limit int) ([]entity.InterviewRecord, error) {
	rows, err := r.db.Query(ctx, listInterviews, limit)
	if err != nil {
		return nil, fmt.Errorf("query interviews: %w", err)
	}
	defer rows.Close()

	records := make([]entity.InterviewRecord, 0, limit)
	for rows.Next() {
		record, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interviews: %w", err)
	}

	return records, nil
}

func scanInterview(row pgx.Row) (*entity.InterviewRecord, error) {
	var (
		id            pgtype.UUID
		interviewType string
		responses     []byte
		report        []byte
		createdAt     time.Time
	)

	if err := row.Scan(&id, &interviewType, &responses, &report, &createdAt); err != nil {
		return nil, err
	}

	record := &entity.InterviewRecord{
		ID:            fromPgUUID(id),
		InterviewType: entity.InterviewType(interviewType),
		CreatedAt:     createdAt,
	}

	if err := json.Unmarshal(responses, &record.Responses); err != nil {
		return nil, fmt.Errorf("decode responses: %w", err)
	}
	if err := json.Unmarshal(report, &record.Report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	return record, nil
}
