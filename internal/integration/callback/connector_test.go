package callback

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

func TestSendInterviewCompleted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		require.Equal(t, "session-9", r.Header.Get("X-Request-ID"))

		var event struct {
			Event entity.CallbackEventType              `json:"event"`
			Data  entity.CallbackInterviewCompletedData `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		require.Equal(t, entity.CallbackEventTypeInterviewCompleted, event.Event)
		require.Equal(t, 6.5, event.Data.CommunicationScore)
		require.Equal(t, 3, event.Data.Questions)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewConnector(config.CallbackConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{RequestTimeout: 5 * time.Second},
		ProgressURL:      srv.URL + "/hooks/progress",
		Retry:            pkgRetry.RetryConfig{Attempts: 3, Delay: time.Millisecond, MaxDelay: time.Millisecond},
	}, zap.NewNop())

	err := c.SendInterviewCompleted(context.Background(), &entity.CallbackInterviewCompletedData{
		Progress:  entity.Progress{SessionID: "session-9", CommunicationScore: 6.5},
		Questions: 3,
	})
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestSendInterviewCompletedDisabled(t *testing.T) {
	c := NewConnector(config.CallbackConnectorConfig{}, zap.NewNop())
	require.False(t, c.Enabled())
	require.NoError(t, c.SendInterviewCompleted(context.Background(), &entity.CallbackInterviewCompletedData{}))
}
