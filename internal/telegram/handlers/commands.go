package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/turn"
	"github.com/futig/interview-backend/internal/telegram/keyboard"
	"github.com/futig/interview-backend/internal/telegram/render"
	interviewuc "github.com/futig/interview-backend/internal/usecase/interview"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Bot commands
const (
	CommandStart   = "start"
	CommandHelp    = "help"
	CommandSkip    = "skip"
	CommandEnd     = "end"
	CommandRestart = "restart"
	CommandReport  = "report"
)

func (h *InterviewHandler) handleCommand(ctx context.Context, msg *Message) error {
	ctxzap.Info(ctx, "command received", zap.String("command", msg.Command))

	switch msg.Command {
	case CommandStart:
		if msg.Args == "" {
			h.send(ctx, msg.ChatID, render.MsgWelcome, h.keyboard.InterviewTypeKeyboard())
			return nil
		}
		interviewType := entity.InterviewType(strings.ToLower(strings.TrimSpace(msg.Args)))
		if !interviewType.Valid() {
			h.send(ctx, msg.ChatID, render.MsgBadType, h.keyboard.InterviewTypeKeyboard())
			return nil
		}
		return h.start(ctx, msg.ChatID, interviewType)
	case CommandHelp:
		h.send(ctx, msg.ChatID, render.MsgHelp, nil)
		return nil
	case CommandSkip, CommandEnd, CommandRestart:
		return h.control(ctx, msg.ChatID, msg.Command)
	case CommandReport:
		return h.report(ctx, msg.ChatID)
	default:
		h.send(ctx, msg.ChatID, render.MsgUnknownCommand, nil)
		return nil
	}
}

func (h *InterviewHandler) handleCallback(ctx context.Context, msg *Message) error {
	h.answerCallback(ctx, msg.CallbackID)

	data, err := keyboard.ParseCallback(msg.CallbackData)
	if err != nil {
		ctxzap.Warn(ctx, "invalid callback data", zap.Error(err))
		return nil
	}

	switch data.Action {
	case keyboard.ActionType:
		interviewType := entity.InterviewType(data.Value)
		if !interviewType.Valid() {
			h.send(ctx, msg.ChatID, render.MsgBadType, h.keyboard.InterviewTypeKeyboard())
			return nil
		}
		return h.start(ctx, msg.ChatID, interviewType)
	case keyboard.ActionControl:
		return h.control(ctx, msg.ChatID, data.Value)
	default:
		ctxzap.Warn(ctx, "unknown callback action", zap.String("action", data.Action))
		return nil
	}
}

// start replaces any interview of the chat with a fresh text-only one
func (h *InterviewHandler) start(ctx context.Context, chatID int64, interviewType entity.InterviewType) error {
	if previous, ok := h.detach(chatID); ok {
		if err := h.usecase.DeleteSession(ctx, previous); err != nil {
			ctxzap.Debug(ctx, "previous session already gone", zap.Error(err))
		}
	}

	if h.maxChats > 0 && h.ActiveChats() >= h.maxChats {
		h.send(ctx, chatID, render.MsgSlowDown, nil)
		return nil
	}

	// chats have neither a camera nor a speaker
	noCamera := false
	snapshot, err := h.usecase.CreateSession(ctx, interviewuc.CreateSessionRequest{
		InterviewType: interviewType,
		RequireCamera: &noCamera,
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	sessionID := snapshot.ID
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.String("session_id", sessionID)))

	stream, err := h.usecase.Subscribe(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	cs := &chatSession{sessionID: sessionID, unsubscribe: stream.Unsubscribe}
	h.mu.Lock()
	h.chats[chatID] = cs
	h.mu.Unlock()

	h.wg.Add(1)
	go h.watch(ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx)), chatID, cs, stream.Updates)

	h.send(ctx, chatID, fmt.Sprintf(render.MsgStarting, snapshot.Session.Config.InterviewType, snapshot.Session.Config.TotalQuestions), nil)

	return h.begin(ctx, chatID, sessionID, snapshot.Session.Phase)
}

// begin moves a session from Personalizing or SettingUp into the interview
func (h *InterviewHandler) begin(ctx context.Context, chatID int64, sessionID string, phase turn.Phase) error {
	if phase == turn.PhasePersonalizing {
		if _, err := h.usecase.Personalize(ctx, sessionID, nil); err != nil {
			return h.reply(ctx, chatID, err)
		}
	}

	if _, err := h.usecase.StartInterview(ctx, sessionID); err != nil {
		return h.reply(ctx, chatID, err)
	}

	ctxzap.Info(ctx, "interview started")
	return nil
}

// control runs skip, end or restart on the chat's interview
func (h *InterviewHandler) control(ctx context.Context, chatID int64, action string) error {
	sessionID, ok := h.sessionOf(chatID)
	if !ok {
		h.send(ctx, chatID, render.MsgNoSession, h.keyboard.InterviewTypeKeyboard())
		return nil
	}
	ctx = ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(zap.String("session_id", sessionID)))

	switch action {
	case CommandSkip:
		if _, err := h.usecase.Skip(ctx, sessionID); err != nil {
			return h.reply(ctx, chatID, err)
		}

	case CommandEnd:
		snapshot, err := h.usecase.EndEarly(ctx, sessionID)
		if err != nil {
			return h.reply(ctx, chatID, err)
		}
		if snapshot.Session.Phase == turn.PhaseSettingUp {
			// nothing was answered, there is no report to wait for
			h.detach(chatID)
			if err := h.usecase.DeleteSession(ctx, sessionID); err != nil {
				ctxzap.Debug(ctx, "session already gone", zap.Error(err))
			}
			h.send(ctx, chatID, render.MsgEndedNoAnswers, h.keyboard.InterviewTypeKeyboard())
		}

	case CommandRestart:
		snapshot, err := h.usecase.Restart(ctx, sessionID)
		if err != nil {
			return h.reply(ctx, chatID, err)
		}
		h.send(ctx, chatID, render.MsgRestarted, nil)
		return h.begin(ctx, chatID, sessionID, snapshot.Session.Phase)

	default:
		ctxzap.Warn(ctx, "unknown control action", zap.String("action", action))
	}

	return nil
}

func (h *InterviewHandler) report(ctx context.Context, chatID int64) error {
	sessionID, ok := h.sessionOf(chatID)
	if !ok {
		h.send(ctx, chatID, render.MsgNoSession, nil)
		return nil
	}

	record, err := h.usecase.GetReport(ctx, sessionID)
	if err != nil {
		return h.reply(ctx, chatID, err)
	}

	h.sendReport(ctx, chatID, record)
	return nil
}

func (h *InterviewHandler) handleTextAnswer(ctx context.Context, msg *Message) error {
	sessionID, ok := h.sessionOf(msg.ChatID)
	if !ok {
		h.send(ctx, msg.ChatID, render.MsgNoSession, h.keyboard.InterviewTypeKeyboard())
		return nil
	}

	if strings.TrimSpace(msg.Text) == "" {
		h.send(ctx, msg.ChatID, render.MsgNoAnswer, nil)
		return nil
	}

	if _, err := h.usecase.SubmitTextAnswer(ctx, sessionID, msg.Text); err != nil {
		return h.reply(ctx, msg.ChatID, err)
	}
	return nil
}

func (h *InterviewHandler) handleVoiceAnswer(ctx context.Context, msg *Message) error {
	sessionID, ok := h.sessionOf(msg.ChatID)
	if !ok {
		h.send(ctx, msg.ChatID, render.MsgNoSession, h.keyboard.InterviewTypeKeyboard())
		return nil
	}

	h.send(ctx, msg.ChatID, render.MsgTranscribing, nil)

	audio, err := h.downloadVoice(ctx, msg.Voice)
	if err != nil {
		ctxzap.Warn(ctx, "voice download failed", zap.Error(err))
		h.send(ctx, msg.ChatID, render.ErrVoice, nil)
		return nil
	}

	if _, err := h.usecase.SubmitAudioAnswer(ctx, sessionID, audio, voiceFilename); err != nil {
		return h.reply(ctx, msg.ChatID, err)
	}
	return nil
}
