package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/interview-backend/internal/builder"
	"go.uber.org/zap"
)

func main() {
	bot, core, err := builder.BuildTelegramBot()
	if err != nil {
		log.Fatal("Failed to build telegram bot:", err)
	}
	defer core.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Start(ctx); err != nil {
		core.Logger.Error("telegram bot failed to start", zap.Error(err))
		return
	}

	<-ctx.Done()
	core.Logger.Info("shutdown requested",
		zap.Int("active_sessions", core.Usecase.ActiveSessions()),
	)

	if err := bot.Stop(); err != nil {
		core.Logger.Error("telegram bot stopped with error", zap.Error(err))
		return
	}
	core.Logger.Info("telegram bot stopped")
}
