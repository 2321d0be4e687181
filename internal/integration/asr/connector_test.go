package asr

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/interview-backend/internal/config"
	pkgRetry "github.com/futig/interview-backend/internal/pkg/retry"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTranscribeBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transcribe", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.NotEmpty(t, r.FormValue("checksum"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "answer.wav", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, []byte("RIFF-audio"), data)

		_, _ = w.Write([]byte(`{"transcription":"  I led the migration.  "}`))
	}))
	defer srv.Close()

	c := NewConnector(config.ASRConnectorConfig{
		HTTPClientConfig:   config.HTTPClientConfig{RequestTimeout: 5 * time.Second, Url: srv.URL},
		TranscribeEndpoint: "/transcribe",
		Retry:              pkgRetry.RetryConfig{Attempts: 2, Delay: time.Millisecond, MaxDelay: time.Millisecond},
	}, zap.NewNop())

	text, err := c.TranscribeBytes(context.Background(), []byte("RIFF-audio"), "answer.wav")
	require.NoError(t, err)
	require.Equal(t, "I led the migration.", text)
}

func TestTranscribeBytesRejectsEmptyAudio(t *testing.T) {
	c := NewConnector(config.ASRConnectorConfig{}, zap.NewNop())
	_, err := c.TranscribeBytes(context.Background(), nil, "answer.wav")
	require.Error(t, err)
}
