package speech

import (
	"context"
	"testing"
	"time"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/turn"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func voiceBridge(requireCamera bool) *Bridge {
	return NewBridge(Options{
		Capabilities:  turn.Capabilities{SpeechRecognition: true, SpeechSynthesis: true},
		RequireCamera: requireCamera,
	}, zap.NewNop())
}

func nextDirective(t *testing.T, b *Bridge) Directive {
	t.Helper()
	select {
	case d := <-b.Directives():
		return d
	case <-time.After(time.Second):
		t.Fatal("no directive")
		return Directive{}
	}
}

func nextEvent(t *testing.T, b *Bridge) turn.Event {
	t.Helper()
	select {
	case ev := <-b.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event")
		return nil
	}
}

func TestBridgeSpeakAndEnd(t *testing.T) {
	b := voiceBridge(false)
	ctx := context.Background()

	require.NoError(t, b.Speak(ctx, "Tell me about yourself"))
	require.Equal(t, Directive{Type: DirectiveSpeak, Text: "Tell me about yourself"}, nextDirective(t, b))

	b.SpeechEnded(ctx)
	require.Equal(t, turn.SpeechEnded{}, nextEvent(t, b))

	// a second report without playback is dropped
	b.SpeechEnded(ctx)
	select {
	case ev := <-b.Events():
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}

func TestBridgeSpeakWithoutSynthesis(t *testing.T) {
	b := NewBridge(Options{}, zap.NewNop())
	require.ErrorIs(t, b.Speak(context.Background(), "hi"), ErrSynthesisUnsupported)
}

func TestBridgeTranscriptOnlyWhileListening(t *testing.T) {
	b := voiceBridge(false)
	ctx := context.Background()

	b.Transcript(ctx, "ignored")
	require.Empty(t, b.Events())

	require.NoError(t, b.StartListening(ctx))
	require.Equal(t, DirectiveListen, nextDirective(t, b).Type)

	b.Transcript(ctx, "I built")
	require.Equal(t, turn.TranscriptUpdated{Text: "I built"}, nextEvent(t, b))

	require.NoError(t, b.StopListening(ctx))
	require.NoError(t, b.StopListening(ctx))
	require.Equal(t, DirectiveStop, nextDirective(t, b).Type)
	require.Empty(t, b.Directives())
}

func TestBridgeCamera(t *testing.T) {
	b := voiceBridge(true)
	ctx := context.Background()

	require.ErrorIs(t, b.Acquire(ctx), entity.ErrCameraUnavailable)

	b.CameraReady(true)
	require.NoError(t, b.Acquire(ctx))

	require.NoError(t, b.Release(ctx))
	require.NoError(t, b.Release(ctx))
	require.Equal(t, DirectiveCameraRelease, nextDirective(t, b).Type)
	require.Empty(t, b.Directives())
}

func TestBridgeCameraNotRequired(t *testing.T) {
	b := voiceBridge(false)
	require.NoError(t, b.Acquire(context.Background()))
	require.NoError(t, b.Release(context.Background()))
	require.Empty(t, b.Directives())
}

func TestBridgeCloseStopsDelivery(t *testing.T) {
	b := voiceBridge(false)
	ctx := context.Background()
	require.NoError(t, b.Speak(ctx, "q"))
	<-b.Directives()

	b.Close()
	b.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < eventBuffer+1; i++ {
			_ = b.Speak(ctx, "q")
			b.SpeechEnded(ctx)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("closed bridge blocked")
	}
	require.Empty(t, b.Directives())
}
