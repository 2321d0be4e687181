package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/turn"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type fakeQuestions struct {
	mu       sync.Mutex
	requests []entity.QuestionRequest
	block    chan struct{}
	err      error
	aborted  chan struct{}
}

func (f *fakeQuestions) GenerateQuestion(ctx context.Context, req *entity.QuestionRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, *req)
	n := len(f.requests)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			if f.aborted != nil {
				close(f.aborted)
			}
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return "[smile] Question " + strings.Repeat("I", n), nil
}

func (f *fakeQuestions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeAnalysis struct {
	block chan struct{}
}

func (f *fakeAnalysis) AnalyzeAnswer(ctx context.Context, req *entity.AnalysisRequest) (*entity.Feedback, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &entity.Feedback{Score: 7, Feedback: "solid answer to " + req.Question}, nil
}

type fakeReports struct{}

func (fakeReports) GenerateReport(_ context.Context, req *entity.ReportRequest) (*entity.FinalReport, error) {
	return &entity.FinalReport{
		OverallScore:       8,
		CommunicationScore: 7,
		ConfidenceScore:    6,
		TechnicalScore:     9,
		Summary:            strings.Repeat("ok ", len(req.AllResponses)),
	}, nil
}

type fakeSpeech struct {
	mu       sync.Mutex
	calls    []string
	spoken   []string
	speakErr error
	events   chan turn.Event
}

func newFakeSpeech() *fakeSpeech {
	return &fakeSpeech{events: make(chan turn.Event, 8)}
}

func (f *fakeSpeech) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSpeech) Speak(_ context.Context, text string) error {
	f.record("speak")
	f.mu.Lock()
	f.spoken = append(f.spoken, text)
	f.mu.Unlock()
	return f.speakErr
}

func (f *fakeSpeech) StartListening(context.Context) error { f.record("start"); return nil }
func (f *fakeSpeech) StopListening(context.Context) error  { f.record("stop"); return nil }
func (f *fakeSpeech) CancelSpeech(context.Context) error   { f.record("cancel"); return nil }
func (f *fakeSpeech) Events() <-chan turn.Event           { return f.events }

func (f *fakeSpeech) has(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

type fakeCamera struct {
	mu       sync.Mutex
	err      error
	acquired int
	released int
}

func (f *fakeCamera) Acquire(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.acquired++
	return nil
}

func (f *fakeCamera) Release(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released++
	return nil
}

func (f *fakeCamera) releases() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

type fakeTracker struct {
	mu       sync.Mutex
	records  []entity.InterviewRecord
	progress []entity.Progress
}

func (f *fakeTracker) Record(_ context.Context, record entity.InterviewRecord, progress entity.Progress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	f.progress = append(f.progress, progress)
	return nil
}

func (f *fakeTracker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type harness struct {
	orch      *Orchestrator
	questions *fakeQuestions
	analysis  *fakeAnalysis
	speech    *fakeSpeech
	camera    *fakeCamera
	tracker   *fakeTracker
}

func newHarness() *harness {
	return &harness{
		questions: &fakeQuestions{},
		analysis:  &fakeAnalysis{},
		speech:    newFakeSpeech(),
		camera:    &fakeCamera{},
		tracker:   &fakeTracker{},
	}
}

func (h *harness) start(t *testing.T, total int) {
	t.Helper()
	cfg := turn.Config{
		TotalQuestions: total,
		InterviewType:  entity.InterviewTypeMixed,
		Capabilities:   turn.Capabilities{SpeechRecognition: true, SpeechSynthesis: true},
	}
	h.orch = New("session-1", cfg, Dependencies{
		Questions: h.questions,
		Analysis:  h.analysis,
		Reports:   fakeReports{},
		Speech:    h.speech,
		Camera:    h.camera,
		Progress:  h.tracker,
	}, zap.NewNop())
	t.Cleanup(h.orch.Close)
}

func (h *harness) waitState(t *testing.T, phase turn.Phase, state turn.State) {
	t.Helper()
	require.Eventually(t, func() bool {
		s := h.orch.Snapshot()
		return s.Phase == phase && s.State == state
	}, waitFor, tick, "waiting for %s/%s", phase, state)
}

func answer(n int) string {
	return strings.TrimSpace(strings.Repeat("detail ", n))
}

func TestOrchestratorCompletesInterview(t *testing.T) {
	h := newHarness()
	h.start(t, 2)
	ctx := context.Background()

	_, err := h.orch.Dispatch(ctx, turn.Personalize{})
	require.NoError(t, err)
	_, err = h.orch.Dispatch(ctx, turn.StartInterview{})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		h.waitState(t, turn.PhaseInterviewing, turn.StateResponding)
		h.speech.events <- turn.SpeechEnded{}
		h.waitState(t, turn.PhaseInterviewing, turn.StateListening)

		_, err = h.orch.Dispatch(ctx, turn.TranscriptSubmitted{Text: answer(25)})
		require.NoError(t, err)
	}

	h.waitState(t, turn.PhaseComplete, turn.StateIdle)
	s := h.orch.Snapshot()
	require.Len(t, s.Responses, 2)
	require.NotNil(t, s.FinalReport)
	require.Equal(t, "Question I", s.Responses[0].Question)
	require.Equal(t, 7.0, s.Responses[0].Feedback.Score)

	require.Eventually(t, func() bool { return h.tracker.count() == 1 }, waitFor, tick)
	require.Equal(t, "session-1", h.tracker.progress[0].SessionID)
	require.Equal(t, 7.0, h.tracker.progress[0].CommunicationScore)
	require.Equal(t, entity.InterviewTypeMixed, h.tracker.progress[0].InterviewType)
	require.Len(t, h.tracker.records[0].Responses, 2)

	require.Equal(t, 1, h.camera.acquired)
	require.GreaterOrEqual(t, h.camera.releases(), 1)
	require.True(t, h.speech.has("start"))
	require.True(t, h.speech.has("stop"))
}

func TestOrchestratorCameraFailureBlocksStart(t *testing.T) {
	h := newHarness()
	h.camera.err = errors.New("permission denied")
	h.start(t, 2)
	ctx := context.Background()

	_, err := h.orch.Dispatch(ctx, turn.Personalize{})
	require.NoError(t, err)

	s, err := h.orch.Dispatch(ctx, turn.StartInterview{})
	require.ErrorIs(t, err, entity.ErrCameraUnavailable)
	require.Equal(t, turn.PhaseSettingUp, s.Phase)
	require.Equal(t, 0, h.questions.count())
}

func TestOrchestratorIgnoresDuplicateSubmit(t *testing.T) {
	h := newHarness()
	h.analysis.block = make(chan struct{})
	h.start(t, 2)
	ctx := context.Background()

	_, _ = h.orch.Dispatch(ctx, turn.Personalize{})
	_, _ = h.orch.Dispatch(ctx, turn.StartInterview{})
	h.waitState(t, turn.PhaseInterviewing, turn.StateResponding)
	h.speech.events <- turn.SpeechEnded{}
	h.waitState(t, turn.PhaseInterviewing, turn.StateListening)

	s, err := h.orch.Dispatch(ctx, turn.TranscriptSubmitted{Text: answer(30)})
	require.NoError(t, err)
	require.Equal(t, turn.StateThinking, s.State)

	_, err = h.orch.Dispatch(ctx, turn.TranscriptSubmitted{Text: answer(30)})
	require.ErrorIs(t, err, entity.ErrEventIgnored)

	close(h.analysis.block)
	require.Eventually(t, func() bool { return len(h.orch.Snapshot().Responses) == 1 }, waitFor, tick)
	require.Eventually(t, func() bool { return h.questions.count() == 2 }, waitFor, tick)
}

func TestOrchestratorRestartAbandonsPendingCall(t *testing.T) {
	h := newHarness()
	h.questions.block = make(chan struct{})
	h.questions.aborted = make(chan struct{})
	h.start(t, 2)
	ctx := context.Background()

	_, _ = h.orch.Dispatch(ctx, turn.Personalize{})
	s, err := h.orch.Dispatch(ctx, turn.StartInterview{})
	require.NoError(t, err)
	require.True(t, s.InFlight())

	s, err = h.orch.Dispatch(ctx, turn.Restart{})
	require.NoError(t, err)
	require.Equal(t, turn.PhasePersonalizing, s.Phase)
	require.False(t, s.InFlight())

	select {
	case <-h.questions.aborted:
	case <-time.After(waitFor):
		t.Fatal("pending question call was not cancelled")
	}

	require.True(t, h.speech.has("cancel"))
	require.Equal(t, 1, h.camera.releases())
	require.Equal(t, turn.PhasePersonalizing, h.orch.Snapshot().Phase)
}

func TestOrchestratorPublishesNoticeOnQuestionFailure(t *testing.T) {
	h := newHarness()
	h.questions.err = errors.New("service unavailable")
	h.start(t, 2)
	ctx := context.Background()

	updates, unsubscribe := h.orch.Subscribe()
	defer unsubscribe()

	_, _ = h.orch.Dispatch(ctx, turn.Personalize{})
	_, err := h.orch.Dispatch(ctx, turn.StartInterview{})
	require.NoError(t, err)

	deadline := time.After(waitFor)
	for {
		select {
		case u := <-updates:
			if u.Notice == nil {
				continue
			}
			require.Equal(t, turn.NoticeQuestionFailed, u.Notice.Code)
			require.Equal(t, turn.PhaseSettingUp, u.Session.Phase)
			return
		case <-deadline:
			t.Fatal("no notice published")
		}
	}
}

func TestOrchestratorSpeakFailureFallsBackToListening(t *testing.T) {
	h := newHarness()
	h.speech.speakErr = errors.New("no audio device")
	h.start(t, 2)
	ctx := context.Background()

	_, _ = h.orch.Dispatch(ctx, turn.Personalize{})
	_, _ = h.orch.Dispatch(ctx, turn.StartInterview{})

	h.waitState(t, turn.PhaseInterviewing, turn.StateListening)
	require.Equal(t, "Question I", h.orch.Snapshot().CurrentQuestionDisplay)
}

func TestOrchestratorCloseIsIdempotent(t *testing.T) {
	h := newHarness()
	h.start(t, 2)
	ctx := context.Background()

	updates, _ := h.orch.Subscribe()

	h.orch.Close()
	h.orch.Close()

	_, open := <-updates
	require.False(t, open)
	require.Equal(t, 1, h.camera.releases())

	_, err := h.orch.Dispatch(ctx, turn.Personalize{})
	require.ErrorIs(t, err, entity.ErrSessionClosed)

	late, _ := h.orch.Subscribe()
	_, open = <-late
	require.False(t, open)
}
