package callback

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/integration/common"
	pkghttp "github.com/futig/interview-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.CallbackConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.CallbackConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Enabled reports whether a progress webhook is configured
func (c *Connector) Enabled() bool {
	return c.config.ProgressURL != ""
}

// SendInterviewCompleted publishes the progress of a completed interview to
// the configured webhook
func (c *Connector) SendInterviewCompleted(ctx context.Context, data *entity.CallbackInterviewCompletedData) error {
	if !c.Enabled() {
		return nil
	}

	return c.send(ctx, c.config.ProgressURL, data.SessionID, &entity.CallbackEvent{
		Event: entity.CallbackEventTypeInterviewCompleted,
		Data:  data,
	})
}

// send posts one event to url. The session id doubles as X-Request-ID so the
// receiver can drop duplicates caused by retries.
func (c *Connector) send(ctx context.Context, url, requestID string, event *entity.CallbackEvent) error {
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	fields := []zap.Field{
		zap.String("event_type", string(event.Event)),
		zap.String("request_id", requestID),
	}

	attempt := 0
	err := retry.Do(func() error {
		attempt++
		return c.connector.DoRequest(ctx, http.MethodPost, "", event, nil,
			pkghttp.WithURL(url),
			pkghttp.WithHeader("X-Request-ID", requestID),
		)
	}, c.config.Retry.ToRetryOptions(ctx)...)
	if err != nil {
		return fmt.Errorf("deliver %s callback after %d attempts: %w", event.Event, attempt, err)
	}

	ctxzap.Info(ctx, "callback delivered", append(fields, zap.Int("attempts", attempt))...)
	return nil
}
