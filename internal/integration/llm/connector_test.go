package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/interview-backend/internal/config"
	"github.com/futig/interview-backend/internal/entity"
	pkgRetry "github.com/futig/interview-backend/internal/pkg/retry"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(t *testing.T, handler http.HandlerFunc) *Connector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewConnector(config.LLMConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout: 5 * time.Second,
			ConnTimeout:    time.Second,
			Token:          "secret",
			Url:            srv.URL,
		},
		QuestionEndpoint: "/generate-question",
		AnalysisEndpoint: "/analyze-response",
		ReportEndpoint:   "/generate-report",
		Retry:            pkgRetry.RetryConfig{Attempts: 3, Delay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	}, zap.NewNop())
}

func TestGenerateQuestion(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/generate-question", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req entity.QuestionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, 2, req.QuestionNumber)
		require.True(t, req.IsFollowUp)
		require.Equal(t, "I don't know", req.PreviousAnswer)

		_ = json.NewEncoder(w).Encode(entity.QuestionResponse{Content: "[curious] Can you give an example?"})
	})

	content, err := c.GenerateQuestion(context.Background(), &entity.QuestionRequest{
		QuestionNumber: 2,
		TotalQuestions: 5,
		IsFollowUp:     true,
		PreviousAnswer: "I don't know",
	})
	require.NoError(t, err)
	require.Equal(t, "[curious] Can you give an example?", content)
}

func TestGenerateQuestionRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(entity.QuestionResponse{Content: "Tell me about yourself"})
	})

	content, err := c.GenerateQuestion(context.Background(), &entity.QuestionRequest{QuestionNumber: 1})
	require.NoError(t, err)
	require.Equal(t, "Tell me about yourself", content)
	require.Equal(t, int32(3), calls.Load())
}

func TestGenerateQuestionDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := c.GenerateQuestion(context.Background(), &entity.QuestionRequest{QuestionNumber: 1})
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestGenerateQuestionErrorPayload(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(entity.QuestionResponse{Error: "quota exceeded"})
	})

	_, err := c.GenerateQuestion(context.Background(), &entity.QuestionRequest{QuestionNumber: 1})
	require.ErrorIs(t, err, entity.ErrRemoteFailure)
	require.ErrorContains(t, err, "quota exceeded")
}

func TestGenerateQuestionEmptyContent(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(entity.QuestionResponse{Content: "  "})
	})

	_, err := c.GenerateQuestion(context.Background(), &entity.QuestionRequest{QuestionNumber: 1})
	require.ErrorIs(t, err, entity.ErrEmptyQuestion)
}

func TestAnalyzeAnswerFailureIsUnscored(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	feedback, err := c.AnalyzeAnswer(context.Background(), &entity.AnalysisRequest{Question: "Q", UserResponse: "A"})
	require.NoError(t, err)
	require.Nil(t, feedback)
}

func TestAnalyzeAnswer(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		var req entity.AnalysisRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Why Go?", req.Question)

		_, _ = w.Write([]byte(`{"score":8.5,"feedback":"good","strengths":["clarity"],"improvements":[]}`))
	})

	feedback, err := c.AnalyzeAnswer(context.Background(), &entity.AnalysisRequest{Question: "Why Go?", UserResponse: "Because"})
	require.NoError(t, err)
	require.Equal(t, 8.5, feedback.Score)
	require.Equal(t, []string{"clarity"}, feedback.Strengths)
}

func TestGenerateReport(t *testing.T) {
	c := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		var req entity.ReportRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.AllResponses, 2)

		_, _ = w.Write([]byte(`{"overallScore":7,"communicationScore":6,"confidenceScore":8,"technicalScore":7,` +
			`"summary":"solid","strengths":["a"],"improvements":["b"],"recommendations":["c"],"hiringVerdict":"lean hire"}`))
	})

	report, err := c.GenerateReport(context.Background(), &entity.ReportRequest{AllResponses: []entity.Response{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: entity.SkippedAnswer},
	}})
	require.NoError(t, err)
	require.Equal(t, 7.0, report.OverallScore)
	require.Equal(t, 8.0, report.ConfidenceScore)
	require.Equal(t, "lean hire", report.HiringVerdict)
}

func TestMockAvoidsPreviousQuestions(t *testing.T) {
	m := NewMockConnector(zap.NewNop())
	ctx := context.Background()

	first, err := m.GenerateQuestion(ctx, &entity.QuestionRequest{QuestionNumber: 1, InterviewType: entity.InterviewTypeBehavioral})
	require.NoError(t, err)

	second, err := m.GenerateQuestion(ctx, &entity.QuestionRequest{
		QuestionNumber:    1,
		InterviewType:     entity.InterviewTypeBehavioral,
		PreviousQuestions: []string{"Tell me about yourself and what brings you here today."},
	})
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
