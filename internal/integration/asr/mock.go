package asr

import (
	"context"
	"errors"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockTranscription is returned for every non-empty upload. It is long
// enough that no follow-up is asked.
const MockTranscription = "In my last role I owned the payments service. When checkout latency doubled during a sale, " +
	"I profiled the hot path, found an unindexed query, shipped the fix behind a flag and cut p99 latency by sixty percent. " +
	"Afterwards I added a load test to the release pipeline so the regression could not come back."

// MockConnector stands in for the speech-to-text service when mocks are enabled
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{logger: logger}
}

func (m *MockConnector) TranscribeBytes(ctx context.Context, audioData []byte, filename string) (string, error) {
	if len(audioData) == 0 {
		return "", errors.New("empty audio data provided")
	}

	ctxzap.Debug(ctx, "[MOCK] transcription served",
		zap.String("filename", filename),
		zap.Int("size", len(audioData)),
	)
	return MockTranscription, nil
}
