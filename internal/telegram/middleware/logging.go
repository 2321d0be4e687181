package middleware

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// LoggingMiddleware logs every update and how long it took
type LoggingMiddleware struct {
	logger *zap.Logger
}

func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{logger: logger}
}

func (m *LoggingMiddleware) Handle(update tgbotapi.Update, next func(tgbotapi.Update)) {
	start := time.Now()
	userID, chatID, _ := origin(update)

	fields := []zap.Field{
		zap.Int64("user_id", userID),
		zap.Int64("chat_id", chatID),
		zap.String("type", kind(update)),
		zap.Int("update_id", update.UpdateID),
	}
	m.logger.Debug("telegram update received", fields...)

	next(update)

	m.logger.Info("telegram update processed", append(fields, zap.Duration("duration", time.Since(start)))...)
}
