package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/integration/common"
	pkghttp "github.com/futig/interview-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to the interview AI service: question generation, answer
// analysis and final report generation
type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// GenerateQuestion generates the next interview question or a follow-up
func (c *Connector) GenerateQuestion(ctx context.Context, req *entity.QuestionRequest) (string, error) {
	ctxzap.Info(ctx, "generating question via LLM service",
		zap.Int("question_number", req.QuestionNumber),
		zap.Bool("follow_up", req.IsFollowUp),
	)

	var resp entity.QuestionResponse
	err := retry.Do(func() error {
		resp = entity.QuestionResponse{}
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.QuestionEndpoint, req, &resp)
	}, c.config.Retry.ToRetryOptions(ctx)...)
	if err != nil {
		return "", fmt.Errorf("generate question failed: %w", err)
	}

	if resp.Error != "" {
		return "", fmt.Errorf("%w: %s", entity.ErrRemoteFailure, resp.Error)
	}

	if strings.TrimSpace(resp.Content) == "" {
		return "", entity.ErrEmptyQuestion
	}

	ctxzap.Info(ctx, "question generated successfully", zap.Int("content_length", len(resp.Content)))

	return resp.Content, nil
}

// AnalyzeAnswer scores one answer. Service failures leave the answer unscored
// and return nil feedback; only cancellation is reported as an error.
func (c *Connector) AnalyzeAnswer(ctx context.Context, req *entity.AnalysisRequest) (*entity.Feedback, error) {
	ctxzap.Info(ctx, "analyzing answer via LLM service", zap.Int("answer_length", len(req.UserResponse)))

	var resp entity.Feedback
	err := retry.Do(func() error {
		resp = entity.Feedback{}
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.AnalysisEndpoint, req, &resp)
	}, c.config.Retry.ToRetryOptions(ctx)...)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		ctxzap.Warn(ctx, "answer analysis failed, continuing unscored", zap.Error(err))
		return nil, nil
	}

	ctxzap.Info(ctx, "answer analyzed successfully", zap.Float64("score", resp.Score))

	return &resp, nil
}

// GenerateReport generates the final interview report
func (c *Connector) GenerateReport(ctx context.Context, req *entity.ReportRequest) (*entity.FinalReport, error) {
	ctxzap.Info(ctx, "generating report via LLM service", zap.Int("responses", len(req.AllResponses)))

	var resp entity.ReportResponse
	err := retry.Do(func() error {
		resp = entity.ReportResponse{}
		return c.connector.DoRequest(ctx, http.MethodPost, c.config.ReportEndpoint, req, &resp)
	}, c.config.Retry.ToRetryOptions(ctx)...)
	if err != nil {
		return nil, fmt.Errorf("generate report failed: %w", err)
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", entity.ErrRemoteFailure, resp.Error)
	}

	ctxzap.Info(ctx, "report generated successfully", zap.Float64("overall_score", resp.OverallScore))

	return &resp.FinalReport, nil
}
