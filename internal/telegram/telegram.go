// Package telegram runs mock interviews as a Telegram chat. Questions are
// sent as text and answers arrive as text or voice messages.
package telegram

import (
	"context"

	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/telegram/bot"
	"github.com/futig/interview-backend/internal/telegram/handlers"
	"go.uber.org/zap"
)

// Bot is a long-polling chat front-end. Start returns once polling is running.
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

func NewBot(cfg *config.TelegramConfig, usecase handlers.InterviewUsecase, logger *zap.Logger) (Bot, error) {
	b, err := bot.New(cfg, usecase, logger)
	if err != nil {
		return nil, err
	}
	return b, nil
}
