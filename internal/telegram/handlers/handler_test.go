package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/integration/asr"
	"github.com/futig/interview-backend/internal/integration/llm"
	"github.com/futig/interview-backend/internal/telegram/keyboard"
	"github.com/futig/interview-backend/internal/telegram/render"
	interviewuc "github.com/futig/interview-backend/internal/usecase/interview"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	chatID     = int64(42)
	longAnswer = "In my last role I owned the payments service and led the migration to a new queue, " +
		"planning the rollout in stages and measuring error rates at every step before moving on."
)

type fakeAPI struct {
	mu        sync.Mutex
	texts     []string
	documents []string
	fileURL   string
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		f.texts = append(f.texts, m.Text)
	case tgbotapi.DocumentConfig:
		if fb, ok := m.File.(tgbotapi.FileBytes); ok {
			f.documents = append(f.documents, fb.Name)
		}
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetFileDirectURL(string) (string, error) {
	return f.fileURL, nil
}

func (f *fakeAPI) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func (f *fakeAPI) docs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.documents...)
}

// count returns how many sent texts contain substr
func (f *fakeAPI) count(substr string) int {
	n := 0
	for _, text := range f.sent() {
		if strings.Contains(text, substr) {
			n++
		}
	}
	return n
}

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
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Progress(nil), m.progress...), nil
}

type noCallback struct{}

func (noCallback) SendInterviewCompleted(context.Context, *entity.CallbackInterviewCompletedData) error {
	return nil
}

func newHandler(t *testing.T) (*InterviewHandler, *fakeAPI, *interviewuc.InterviewUsecase) {
	t.Helper()

	logger := zap.NewNop()
	store := &memoryStore{records: map[string]entity.InterviewRecord{}}
	mockLLM := llm.NewMockConnector(logger)

	uc := interviewuc.NewUsecase(
		config.InterviewConfig{
			TotalQuestions:  2,
			DefaultType:     entity.InterviewTypeBehavioral,
			SessionTTL:      time.Hour,
			CleanupInterval: time.Minute,
			RequireCamera:   true,
		},
		nil,
		store,
		store,
		interviewuc.NewProgressTracker(store, store, noCallback{}),
		mockLLM,
		asr.NewMockConnector(logger),
		logger,
	)

	api := &fakeAPI{}
	h := NewInterviewHandler(api, uc, keyboard.NewBuilder(), 10, logger)

	t.Cleanup(func() {
		h.Close()
		uc.Close()
	})
	return h, api, uc
}

func command(name, args string) *Message {
	return &Message{ChatID: chatID, UserID: 7, Command: name, Args: args}
}

func text(s string) *Message {
	return &Message{ChatID: chatID, UserID: 7, Text: s}
}

func waitFor(t *testing.T, api *fakeAPI, substr string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return api.count(substr) >= n },
		2*time.Second, 5*time.Millisecond, "waiting for %d message(s) with %q, got %v", n, substr, api.sent())
}

func TestStartWithoutTypeOffersKeyboard(t *testing.T) {
	h, api, _ := newHandler(t)

	require.NoError(t, h.Handle(context.Background(), command(CommandStart, "")))
	require.Equal(t, []string{render.MsgWelcome}, api.sent())
	require.Zero(t, h.ActiveChats())
}

func TestStartRejectsUnknownType(t *testing.T) {
	h, api, _ := newHandler(t)

	require.NoError(t, h.Handle(context.Background(), command(CommandStart, "astrology")))
	require.Equal(t, []string{render.MsgBadType}, api.sent())
}

func TestTextInterviewCompletes(t *testing.T) {
	h, api, _ := newHandler(t)
	ctx := context.Background()

	// the camera is never required in chats
	require.NoError(t, h.Handle(ctx, command(CommandStart, "behavioral")))
	waitFor(t, api, "Question 1 of 2", 1)

	require.NoError(t, h.Handle(ctx, text(longAnswer)))
	waitFor(t, api, "Question 2 of 2", 1)

	require.NoError(t, h.Handle(ctx, text(longAnswer)))
	waitFor(t, api, "Interview complete", 1)

	require.Eventually(t, func() bool { return len(api.docs()) == 1 }, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, "interview-report.md", api.docs()[0])

	// /report resends the stored report
	require.NoError(t, h.Handle(ctx, command(CommandReport, "")))
	waitFor(t, api, "Interview complete", 2)
}

func TestShortAnswerGetsFollowUp(t *testing.T) {
	h, api, _ := newHandler(t)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, command(CommandStart, "technical")))
	waitFor(t, api, "Question 1 of 2", 1)

	require.NoError(t, h.Handle(ctx, text("Microservices.")))
	waitFor(t, api, "Follow-up on question 1", 1)
}

func TestSkipAndEndEarly(t *testing.T) {
	h, api, _ := newHandler(t)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, command(CommandStart, "behavioral")))
	waitFor(t, api, "Question 1 of 2", 1)

	require.NoError(t, h.Handle(ctx, command(CommandSkip, "")))
	waitFor(t, api, "Question 2 of 2", 1)

	require.NoError(t, h.Handle(ctx, &Message{
		ChatID:       chatID,
		CallbackID:   "cb",
		CallbackData: keyboard.EncodeCallback(keyboard.ActionControl, CommandEnd),
	}))
	waitFor(t, api, "Interview complete", 1)
}

func TestEndBeforeAnyAnswerDropsSession(t *testing.T) {
	h, api, _ := newHandler(t)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, command(CommandStart, "mixed")))
	waitFor(t, api, "Question 1 of 2", 1)

	require.NoError(t, h.Handle(ctx, command(CommandEnd, "")))
	waitFor(t, api, render.MsgEndedNoAnswers, 1)
	require.Zero(t, h.ActiveChats())

	require.NoError(t, h.Handle(ctx, text("hello?")))
	waitFor(t, api, render.MsgNoSession, 1)
}

func TestRestartAsksFirstQuestionAgain(t *testing.T) {
	h, api, _ := newHandler(t)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, command(CommandStart, "behavioral")))
	waitFor(t, api, "Question 1 of 2", 1)

	require.NoError(t, h.Handle(ctx, command(CommandRestart, "")))
	waitFor(t, api, render.MsgRestarted, 1)
	waitFor(t, api, "Question 1 of 2", 2)
}

func TestReportBeforeCompletion(t *testing.T) {
	h, api, uc := newHandler(t)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, command(CommandStart, "behavioral")))
	waitFor(t, api, "Question 1 of 2", 1)

	sessionID, ok := h.sessionOf(chatID)
	require.True(t, ok)

	// asking for the report mid-interview is a state conflict, not a failure
	_, err := uc.GetReport(ctx, sessionID)
	require.ErrorIs(t, err, entity.ErrReportNotReady)

	require.NoError(t, h.Handle(ctx, command(CommandReport, "")))
	waitFor(t, api, render.MsgNotNow, 1)
}

func TestVoiceAnswer(t *testing.T) {
	h, api, _ := newHandler(t)
	ctx := context.Background()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OggS fake voice"))
	}))
	defer srv.Close()
	h.httpClient = srv.Client()
	api.fileURL = srv.URL + "/voice.ogg"

	require.NoError(t, h.Handle(ctx, command(CommandStart, "behavioral")))
	waitFor(t, api, "Question 1 of 2", 1)

	// the mock recognizer returns a long answer, so no follow-up is asked
	require.NoError(t, h.Handle(ctx, &Message{ChatID: chatID, Voice: &tgbotapi.Voice{FileID: "f1", FileSize: 15}}))
	waitFor(t, api, render.MsgTranscribing, 1)
	waitFor(t, api, "Question 2 of 2", 1)
}

func TestVoiceDownloadRequiresHTTPS(t *testing.T) {
	h, api, _ := newHandler(t)
	api.fileURL = "http://api.telegram.org/file/voice.ogg"

	_, err := h.downloadVoice(context.Background(), &tgbotapi.Voice{FileID: "f1"})
	require.ErrorContains(t, err, "insecure URL scheme")

	_, err = h.downloadVoice(context.Background(), &tgbotapi.Voice{FileID: "f1", FileSize: maxVoiceFileSize + 1})
	require.ErrorContains(t, err, "file too large")
}

func TestSessionDeletedElsewhereNotifiesChat(t *testing.T) {
	h, api, uc := newHandler(t)
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, command(CommandStart, "behavioral")))
	waitFor(t, api, "Question 1 of 2", 1)

	sessionID, ok := h.sessionOf(chatID)
	require.True(t, ok)
	require.NoError(t, uc.DeleteSession(ctx, sessionID))

	waitFor(t, api, render.MsgSessionClosed, 1)
	require.Eventually(t, func() bool { return h.ActiveChats() == 0 }, time.Second, 5*time.Millisecond)
}
