package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/telegram/keyboard"
	"github.com/futig/interview-backend/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Message represents a normalized Telegram message or button press
type Message struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	Text         string
	Command      string
	Args         string
	Voice        *tgbotapi.Voice
	CallbackData string
	CallbackID   string
}

// chatSession links a chat to its live interview
type chatSession struct {
	sessionID   string
	unsubscribe func()
}

// InterviewHandler runs text-only mock interviews inside Telegram chats.
// Each chat has at most one live session; a watcher goroutine per chat
// relays questions, notices and the final report.
type InterviewHandler struct {
	api        BotAPI
	usecase    InterviewUsecase
	keyboard   *keyboard.Builder
	httpClient *http.Client
	maxChats   int
	logger     *zap.Logger

	mu    sync.Mutex
	chats map[int64]*chatSession
	wg    sync.WaitGroup
}

func NewInterviewHandler(
	api BotAPI,
	usecase InterviewUsecase,
	kb *keyboard.Builder,
	maxChats int,
	logger *zap.Logger,
) *InterviewHandler {
	return &InterviewHandler{
		api:        api,
		usecase:    usecase,
		keyboard:   kb,
		httpClient: secureHTTPClient,
		maxChats:   maxChats,
		logger:     logger,
		chats:      make(map[int64]*chatSession),
	}
}

// Handle routes a message to a command, a button press or an answer
func (h *InterviewHandler) Handle(ctx context.Context, msg *Message) error {
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(
		zap.Int64("chat_id", msg.ChatID),
		zap.Int64("user_id", msg.UserID),
	))

	switch {
	case msg.CallbackID != "":
		return h.handleCallback(ctx, msg)
	case msg.Command != "":
		return h.handleCommand(ctx, msg)
	case msg.Voice != nil:
		return h.handleVoiceAnswer(ctx, msg)
	default:
		return h.handleTextAnswer(ctx, msg)
	}
}

// Close detaches every chat watcher. Sessions are left to the use case.
func (h *InterviewHandler) Close() {
	h.mu.Lock()
	chats := h.chats
	h.chats = make(map[int64]*chatSession)
	h.mu.Unlock()

	for _, cs := range chats {
		cs.unsubscribe()
	}
	h.wg.Wait()
}

// ActiveChats returns the number of chats with a live interview
func (h *InterviewHandler) ActiveChats() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.chats)
}

func (h *InterviewHandler) sessionOf(chatID int64) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cs, ok := h.chats[chatID]
	if !ok {
		return "", false
	}
	return cs.sessionID, true
}

// detach forgets the chat session and stops its watcher
func (h *InterviewHandler) detach(chatID int64) (string, bool) {
	h.mu.Lock()
	cs, ok := h.chats[chatID]
	delete(h.chats, chatID)
	h.mu.Unlock()

	if !ok {
		return "", false
	}
	cs.unsubscribe()
	return cs.sessionID, true
}

// reply reports a use case failure to the user
func (h *InterviewHandler) reply(ctx context.Context, chatID int64, err error) error {
	switch {
	case errors.Is(err, entity.ErrEventIgnored) || errors.Is(err, entity.ErrReportNotReady):
		h.send(ctx, chatID, render.MsgNotNow, nil)
	case errors.Is(err, entity.ErrNoResponse):
		h.send(ctx, chatID, render.MsgNoAnswer, nil)
	case errors.Is(err, entity.ErrSessionNotFound):
		h.detach(chatID)
		h.send(ctx, chatID, render.MsgNoSession, nil)
	default:
		return err
	}

	ctxzap.Debug(ctx, "request rejected", zap.Error(err))
	return nil
}

func (h *InterviewHandler) send(ctx context.Context, chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := h.api.Send(msg); err != nil {
		ctxzap.Error(ctx, "failed to send message", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (h *InterviewHandler) sendDocument(ctx context.Context, chatID int64, filename string, data []byte) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	if _, err := h.api.Send(doc); err != nil {
		ctxzap.Error(ctx, "failed to send document", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}

func (h *InterviewHandler) typing(ctx context.Context, chatID int64) {
	if _, err := h.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		ctxzap.Debug(ctx, "failed to send chat action", zap.Error(err))
	}
}

func (h *InterviewHandler) answerCallback(ctx context.Context, callbackID string) {
	if _, err := h.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		ctxzap.Debug(ctx, "failed to answer callback", zap.Error(err))
	}
}
