package handlers

import (
	"context"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/orchestrator"
	"github.com/futig/interview-backend/internal/interview/turn"
	"github.com/futig/interview-backend/internal/pkg/formatter"
	"github.com/futig/interview-backend/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// questionKey identifies one asked question within a run of the interview
type questionKey struct {
	index    int
	followUp int
	asked    int
}

// watch relays session updates to the chat until the subscription ends
func (h *InterviewHandler) watch(ctx context.Context, chatID int64, cs *chatSession, updates <-chan orchestrator.Update) {
	defer h.wg.Done()

	var (
		lastQuestion questionKey
		reported     bool
		thinking     bool
	)

	for u := range updates {
		if u.Notice != nil {
			h.send(ctx, chatID, render.Notice(u.Notice), nil)
			continue
		}

		s := u.Session
		switch {
		case s.Phase == turn.PhaseInterviewing && s.State == turn.StateListening:
			thinking = false
			key := questionKey{index: s.QuestionIndex, followUp: s.FollowUpCount, asked: len(s.AskedQuestions)}
			if key != lastQuestion {
				lastQuestion = key
				h.send(ctx, chatID, render.Question(s), h.keyboard.QuestionKeyboard())
			}

		case s.State == turn.StateThinking || s.Phase == turn.PhaseProcessing:
			if !thinking {
				thinking = true
				h.typing(ctx, chatID)
			}

		case s.Phase == turn.PhaseComplete && s.FinalReport != nil:
			thinking = false
			if !reported {
				reported = true
				h.deliverReport(ctx, chatID, cs.sessionID)
			}

		case s.Phase == turn.PhasePersonalizing || s.Phase == turn.PhaseSettingUp:
			// a restart replays the interview from the first question
			lastQuestion = questionKey{}
			reported = false
			thinking = false
		}
	}

	// the subscription ended without detach: the session expired or was deleted
	h.mu.Lock()
	current, ok := h.chats[chatID]
	expired := ok && current == cs
	if expired {
		delete(h.chats, chatID)
	}
	h.mu.Unlock()

	if expired {
		ctxzap.Info(ctx, "interview session closed")
		h.send(ctx, chatID, render.MsgSessionClosed, h.keyboard.InterviewTypeKeyboard())
	}
}

func (h *InterviewHandler) deliverReport(ctx context.Context, chatID int64, sessionID string) {
	record, err := h.usecase.GetReport(ctx, sessionID)
	if err != nil {
		ctxzap.Error(ctx, "failed to load report", zap.Error(err))
		h.send(ctx, chatID, render.ErrGeneric, nil)
		return
	}

	h.sendReport(ctx, chatID, record)
}

// sendReport posts the summary and attaches the markdown export
func (h *InterviewHandler) sendReport(ctx context.Context, chatID int64, record *entity.InterviewRecord) {
	h.send(ctx, chatID, render.Report(&record.Report), h.keyboard.ReportKeyboard())

	md := formatter.NewMarkdownFormatter()
	data, err := md.Format(record)
	if err != nil {
		ctxzap.Error(ctx, "failed to format report", zap.Error(err))
		return
	}
	h.sendDocument(ctx, chatID, "interview-report"+md.FileExtension(), data)
}
