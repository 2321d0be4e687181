// Package speech implements the speech and camera collaborators of an
// interview session for remote clients. Audio playback, recognition and
// camera capture happen on the client; the Bridge turns orchestrator calls
// into directives for the client and client reports into session events.
package speech

import (
	"context"
	"errors"
	"sync"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/turn"
	"go.uber.org/zap"
)

var ErrSynthesisUnsupported = errors.New("speech synthesis unsupported")

type DirectiveType string

const (
	DirectiveSpeak         DirectiveType = "speech.speak"
	DirectiveListen        DirectiveType = "speech.listen"
	DirectiveStop          DirectiveType = "speech.stop"
	DirectiveCancel        DirectiveType = "speech.cancel"
	DirectiveCameraRelease DirectiveType = "camera.release"
)

// Directive is an instruction for the client device
type Directive struct {
	Type DirectiveType `json:"type"`
	Text string        `json:"text,omitempty"`
}

const (
	eventBuffer     = 16
	directiveBuffer = 32
)

type Options struct {
	Capabilities  turn.Capabilities
	RequireCamera bool
}

type Bridge struct {
	opts   Options
	logger *zap.Logger

	events     chan turn.Event
	directives chan Directive
	done       chan struct{}
	closeOnce  sync.Once

	mu          sync.Mutex
	speaking    bool
	listening   bool
	cameraReady bool
	cameraHeld  bool
}

func NewBridge(opts Options, logger *zap.Logger) *Bridge {
	return &Bridge{
		opts:       opts,
		logger:     logger,
		events:     make(chan turn.Event, eventBuffer),
		directives: make(chan Directive, directiveBuffer),
		done:       make(chan struct{}),
	}
}

// Events delivers client speech reports to the session
func (b *Bridge) Events() <-chan turn.Event {
	return b.events
}

// Directives delivers instructions for the connected client
func (b *Bridge) Directives() <-chan Directive {
	return b.directives
}

func (b *Bridge) Speak(_ context.Context, text string) error {
	if !b.opts.Capabilities.SpeechSynthesis {
		return ErrSynthesisUnsupported
	}

	b.mu.Lock()
	b.speaking = true
	b.mu.Unlock()

	b.direct(Directive{Type: DirectiveSpeak, Text: text})
	return nil
}

func (b *Bridge) StartListening(context.Context) error {
	if !b.opts.Capabilities.SpeechRecognition {
		return nil
	}

	b.mu.Lock()
	b.listening = true
	b.mu.Unlock()

	b.direct(Directive{Type: DirectiveListen})
	return nil
}

func (b *Bridge) StopListening(context.Context) error {
	b.mu.Lock()
	wasListening := b.listening
	b.listening = false
	b.mu.Unlock()

	if wasListening {
		b.direct(Directive{Type: DirectiveStop})
	}
	return nil
}

func (b *Bridge) CancelSpeech(context.Context) error {
	b.mu.Lock()
	wasSpeaking := b.speaking
	b.speaking = false
	b.mu.Unlock()

	if wasSpeaking {
		b.direct(Directive{Type: DirectiveCancel})
	}
	return nil
}

// Acquire succeeds once the client has reported a working camera, or always
// when the session does not require one
func (b *Bridge) Acquire(context.Context) error {
	if !b.opts.RequireCamera {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.cameraReady {
		return entity.ErrCameraUnavailable
	}
	b.cameraHeld = true
	return nil
}

func (b *Bridge) Release(context.Context) error {
	b.mu.Lock()
	held := b.cameraHeld
	b.cameraHeld = false
	b.mu.Unlock()

	if held {
		b.direct(Directive{Type: DirectiveCameraRelease})
	}
	return nil
}

// SpeechEnded records that the client finished playing the current question
func (b *Bridge) SpeechEnded(ctx context.Context) {
	b.mu.Lock()
	wasSpeaking := b.speaking
	b.speaking = false
	b.mu.Unlock()

	if !wasSpeaking {
		b.logger.Debug("speech end reported while not speaking")
		return
	}
	b.emit(ctx, turn.SpeechEnded{})
}

// Transcript forwards incremental recognition text while listening
func (b *Bridge) Transcript(ctx context.Context, text string) {
	b.mu.Lock()
	listening := b.listening
	b.mu.Unlock()

	if !listening {
		return
	}
	b.emit(ctx, turn.TranscriptUpdated{Text: text})
}

// CameraReady records the client's camera permission state
func (b *Bridge) CameraReady(ready bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cameraReady = ready
	if !ready {
		b.cameraHeld = false
	}
}

// Close stops event delivery. It is safe to call more than once.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}

func (b *Bridge) emit(ctx context.Context, ev turn.Event) {
	select {
	case b.events <- ev:
	case <-b.done:
	case <-ctx.Done():
	}
}

func (b *Bridge) direct(d Directive) {
	select {
	case <-b.done:
		return
	default:
	}

	select {
	case b.directives <- d:
	default:
		b.logger.Warn("client not draining directives, dropped", zap.String("type", string(d.Type)))
	}
}
