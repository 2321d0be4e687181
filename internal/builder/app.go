package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

// App is the HTTP front-end of the interview service
type App struct {
	server *http.Server
	core   *Core
	logger *zap.Logger
}

// Run serves until SIGINT/SIGTERM or a listener failure, then drains
// in-flight requests and tears down every live session.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.core.Close()

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", zap.String("addr", a.server.Addr))
		serveErr <- a.server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		a.logger.Error("http server failed", zap.Error(err))
		return err
	case <-ctx.Done():
		a.logger.Info("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// websocket streams are hijacked and ignored by Shutdown; closing the
	// sessions afterwards ends them
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown failed", zap.Error(err))
		return err
	}

	a.logger.Info("closing live sessions",
		zap.Int("active_sessions", a.core.Usecase.ActiveSessions()),
	)
	return nil
}
