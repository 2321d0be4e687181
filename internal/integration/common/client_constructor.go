package common

import (
	"github.com/futig/interview-backend/internal/config"
	pkghttp "github.com/futig/interview-backend/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds the shared upstream client for the LLM, ASR and
// callback integrations from their env-driven settings.
func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkghttp.Connector {
	return pkghttp.NewConnector(
		&pkghttp.ConnectorConfig{BaseURL: cfg.Url, Logger: logger},
		pkghttp.WithTimeout(cfg.RequestTimeout),
		pkghttp.WithDialTimeout(cfg.ConnTimeout),
		pkghttp.WithKeepAlive(cfg.KeepAlive),
		pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkghttp.WithAuthToken(cfg.Token),
		pkghttp.WithRequestLogging(),
	)
}
