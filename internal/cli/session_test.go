package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/integration/asr"
	"github.com/futig/interview-backend/internal/integration/llm"
	interviewuc "github.com/futig/interview-backend/internal/usecase/interview"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const longAnswer = "In my last role I owned the payments service and led the migration to a new queue, " +
	"planning the rollout in stages and measuring error rates at every step before moving on."

type memoryStore struct {
	mu       sync.Mutex
	records  map[string]entity.InterviewRecord
	progress []entity.Progress
}

func (m *memoryStore) SaveInterview(_ context.Context, r entity.InterviewRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = r
	return nil
}

func (m *memoryStore) GetInterview(_ context.Context, id string) (*entity.InterviewRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, entity.ErrInterviewNotFound
	}
	return &r, nil
}

func (m *memoryStore) ListInterviews(context.Context, int) ([]entity.InterviewRecord, error) {
	return nil, nil
}

func (m *memoryStore) AddProgress(_ context.Context, p entity.Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = append(m.progress, p)
	return nil
}

func (m *memoryStore) ListProgress(context.Context, *entity.InterviewType, int) ([]entity.Progress, error) {
	return nil, nil
}

type noCallback struct{}

func (noCallback) SendInterviewCompleted(context.Context, *entity.CallbackInterviewCompletedData) error {
	return nil
}

func newUsecase(t *testing.T) (*interviewuc.InterviewUsecase, *memoryStore) {
	t.Helper()
	return newUsecaseWith(t, llm.NewMockConnector(zap.NewNop()))
}

func newUsecaseWith(t *testing.T, llmConnector interviewuc.LLMConnector) (*interviewuc.InterviewUsecase, *memoryStore) {
	t.Helper()

	logger := zap.NewNop()
	store := &memoryStore{records: map[string]entity.InterviewRecord{}}
	uc := interviewuc.NewUsecase(
		config.InterviewConfig{
			TotalQuestions:  2,
			DefaultType:     entity.InterviewTypeBehavioral,
			SessionTTL:      time.Hour,
			CleanupInterval: time.Minute,
		},
		nil,
		store,
		store,
		interviewuc.NewProgressTracker(store, store, noCallback{}),
		llmConnector,
		asr.NewMockConnector(logger),
		logger,
	)
	t.Cleanup(uc.Close)
	return uc, store
}

func play(t *testing.T, input string) (*entity.InterviewRecord, string, error) {
	t.Helper()
	uc, _ := newUsecase(t)
	return playWith(t, uc, input)
}

func playWith(t *testing.T, uc *interviewuc.InterviewUsecase, input string) (*entity.InterviewRecord, string, error) {
	t.Helper()

	var out bytes.Buffer
	session := &terminalSession{uc: uc, in: strings.NewReader(input), out: &out}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record, err := session.run(ctx, interviewuc.CreateSessionRequest{})
	return record, out.String(), err
}

func TestTerminalInterviewCompletes(t *testing.T) {
	record, out, err := play(t, longAnswer+"\n"+longAnswer+"\n")
	require.NoError(t, err)

	require.Len(t, record.Responses, 2)
	require.Equal(t, longAnswer, record.Responses[0].Answer)
	require.Contains(t, out, "[1/2] ")
	require.Contains(t, out, "[2/2] ")
	require.Contains(t, out, "Preparing your report...")
	require.NotContains(t, out, "[follow-up")
}

func TestTerminalShortAnswerGetsFollowUp(t *testing.T) {
	record, out, err := play(t, "Yes.\n"+longAnswer+"\n"+longAnswer+"\n")
	require.NoError(t, err)

	require.Contains(t, out, "[follow-up 1]")
	require.Len(t, record.Responses, 2)
}

func TestTerminalEndOfInputEndsEarly(t *testing.T) {
	record, _, err := play(t, ":skip\n")
	require.NoError(t, err)

	require.Len(t, record.Responses, 1)
	require.Equal(t, entity.SkippedAnswer, record.Responses[0].Answer)
}

func TestTerminalNoAnswers(t *testing.T) {
	_, _, err := play(t, "")
	require.ErrorIs(t, err, errNoAnswers)
}

func TestTerminalQuit(t *testing.T) {
	_, _, err := play(t, ":quit\n")
	require.ErrorIs(t, err, context.Canceled)
}

func TestTerminalRestart(t *testing.T) {
	record, out, err := play(t, ":restart\n"+longAnswer+"\n"+longAnswer+"\n")
	require.NoError(t, err)

	require.Contains(t, out, "Starting over.")
	require.Equal(t, 2, strings.Count(out, "[1/2] "))
	require.Len(t, record.Responses, 2)
}

// flakyReports fails the first report request
type flakyReports struct {
	*llm.MockConnector
	calls atomic.Int32
}

func (f *flakyReports) GenerateReport(ctx context.Context, req *entity.ReportRequest) (*entity.FinalReport, error) {
	if f.calls.Add(1) == 1 {
		return nil, errors.New("report service unavailable")
	}
	return f.MockConnector.GenerateReport(ctx, req)
}

func TestTerminalRetriesFailedReport(t *testing.T) {
	reports := &flakyReports{MockConnector: llm.NewMockConnector(zap.NewNop())}
	uc, _ := newUsecaseWith(t, reports)

	record, out, err := playWith(t, uc, longAnswer+"\n"+longAnswer+"\n:end\n")
	require.NoError(t, err)

	require.Equal(t, int32(2), reports.calls.Load())
	require.Contains(t, out, "Could not generate the interview report")
	require.Contains(t, out, "(type :end to try the report again)")
	require.Len(t, record.Responses, 2)
	require.NotEmpty(t, record.Report.Summary)
}

func TestTerminalIdleRejectsAnswers(t *testing.T) {
	reports := &flakyReports{MockConnector: llm.NewMockConnector(zap.NewNop())}
	uc, _ := newUsecaseWith(t, reports)

	record, out, err := playWith(t, uc, longAnswer+"\n"+longAnswer+"\n"+longAnswer+"\n:end\n")
	require.NoError(t, err)

	require.Contains(t, out, "(no open question, type :end or :restart)")
	require.Len(t, record.Responses, 2)
}
