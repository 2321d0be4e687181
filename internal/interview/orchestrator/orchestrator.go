// Package orchestrator runs one interview session: it owns the session
// record, serializes every event through a single loop, executes the effects
// returned by the turn reducer and feeds remote results back in.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/turn"
	"github.com/futig/interview-backend/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	mailboxSize    = 32
	subscriberSize = 16
)

// Update is published to subscribers after every applied event and for
// every user notice
type Update struct {
	Session turn.Session
	Notice  *turn.Notice
}

type envelope struct {
	event turn.Event
	reply chan result
}

type result struct {
	session turn.Session
	err     error
}

type Orchestrator struct {
	id   string
	deps Dependencies

	ctx    context.Context
	cancel context.CancelFunc

	mailbox chan envelope
	done    chan struct{}
	calls   sync.WaitGroup

	closeOnce sync.Once

	mu          sync.RWMutex
	session     turn.Session
	subscribers map[uint64]chan Update
	nextSubID   uint64
	closed      bool

	// owned by the loop goroutine
	inflight map[uint64]context.CancelFunc
	now      func() time.Time
}

// New starts the runtime of a fresh session. Close must be called to release
// its resources.
func New(id string, cfg turn.Config, deps Dependencies, log *zap.Logger) *Orchestrator {
	base := ctxzap.ToContext(context.Background(), log.With(zap.String("session_id", id)))
	ctx, cancel := context.WithCancel(base)

	o := &Orchestrator{
		id:          id,
		deps:        deps,
		ctx:         ctx,
		cancel:      cancel,
		mailbox:     make(chan envelope, mailboxSize),
		done:        make(chan struct{}),
		session:     turn.Initial(cfg),
		subscribers: make(map[uint64]chan Update),
		inflight:    make(map[uint64]context.CancelFunc),
		now:         time.Now,
	}

	go o.run()

	return o
}

func (o *Orchestrator) ID() string {
	return o.id
}

// Snapshot returns a copy of the current session
func (o *Orchestrator) Snapshot() turn.Session {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.session.Clone()
}

// Dispatch applies ev on the session loop and waits for the resulting
// session. Ignored events return the unchanged session with an error
// wrapping entity.ErrEventIgnored.
func (o *Orchestrator) Dispatch(ctx context.Context, ev turn.Event) (turn.Session, error) {
	reply := make(chan result, 1)

	select {
	case o.mailbox <- envelope{event: ev, reply: reply}:
	case <-o.done:
		return turn.Session{}, entity.ErrSessionClosed
	case <-ctx.Done():
		return turn.Session{}, ctx.Err()
	}

	select {
	case r := <-reply:
		return r.session, r.err
	case <-o.done:
		return turn.Session{}, entity.ErrSessionClosed
	case <-ctx.Done():
		return turn.Session{}, ctx.Err()
	}
}

// Subscribe returns a channel of updates and a function to stop receiving
// them. The channel is closed on unsubscribe or when the session closes.
// Slow subscribers miss updates rather than block the session.
func (o *Orchestrator) Subscribe() (<-chan Update, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ch := make(chan Update, subscriberSize)
	if o.closed {
		close(ch)
		return ch, func() {}
	}

	id := o.nextSubID
	o.nextSubID++
	o.subscribers[id] = ch

	return ch, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if sub, ok := o.subscribers[id]; ok {
			delete(o.subscribers, id)
			close(sub)
		}
	}
}

// Done is closed once the session loop has stopped
func (o *Orchestrator) Done() <-chan struct{} {
	return o.done
}

// Close tears the session down: it stops the loop, aborts outstanding remote
// calls, stops speech and releases the camera. It is safe to call more than once.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		o.cancel()
		<-o.done
		o.calls.Wait()

		ctx := ctxzap.ToContext(context.Background(), ctxzap.Extract(o.ctx))
		ctx = logger.WithAction(ctx, "teardown")

		if err := o.deps.Speech.StopListening(ctx); err != nil {
			ctxzap.Warn(ctx, "failed to stop listening", zap.Error(err))
		}
		if err := o.deps.Speech.CancelSpeech(ctx); err != nil {
			ctxzap.Warn(ctx, "failed to cancel speech", zap.Error(err))
		}
		if err := o.deps.Camera.Release(ctx); err != nil {
			ctxzap.Warn(ctx, "failed to release camera", zap.Error(err))
		}

		o.mu.Lock()
		o.closed = true
		for id, sub := range o.subscribers {
			delete(o.subscribers, id)
			close(sub)
		}
		o.mu.Unlock()

		ctxzap.Info(ctx, "session closed")
	})
}

func (o *Orchestrator) run() {
	defer close(o.done)

	speechEvents := o.deps.Speech.Events()

	for {
		select {
		case <-o.ctx.Done():
			for _, cancel := range o.inflight {
				cancel()
			}
			return

		case env := <-o.mailbox:
			s, err := o.apply(env.event)
			if env.reply != nil {
				env.reply <- result{session: s, err: err}
			}

		case ev, ok := <-speechEvents:
			if !ok {
				speechEvents = nil
				continue
			}
			_, _ = o.apply(ev)
		}
	}
}

func (o *Orchestrator) apply(ev turn.Event) (turn.Session, error) {
	ctx := logger.AddFields(o.ctx, zap.String("event", ev.Name()))

	o.mu.RLock()
	current := o.session
	o.mu.RUnlock()

	if _, ok := ev.(turn.StartInterview); ok && current.Phase == turn.PhaseSettingUp && !current.InFlight() {
		if err := o.deps.Camera.Acquire(ctx); err != nil {
			ctxzap.Warn(ctx, "camera acquisition failed", zap.Error(err))
			return current.Clone(), fmt.Errorf("%w: %v", entity.ErrCameraUnavailable, err)
		}
	}

	next, effects, err := turn.Reduce(current, ev)
	if errors.Is(err, entity.ErrEventIgnored) {
		ctxzap.Debug(ctx, "event ignored", zap.Error(err))
		return current.Clone(), err
	}

	o.mu.Lock()
	o.session = next
	o.mu.Unlock()

	ctxzap.Debug(ctx, "event applied",
		zap.String("phase", string(next.Phase)),
		zap.String("state", string(next.State)),
		zap.Int("question_index", next.QuestionIndex),
		zap.Int("responses", len(next.Responses)),
	)

	o.abandonStale(current, next)
	o.execute(ctx, next, effects)
	o.publish(Update{Session: next.Clone()})

	return next.Clone(), err
}

// abandonStale cancels the remote call of prev when next no longer waits on it
func (o *Orchestrator) abandonStale(prev, next turn.Session) {
	if prev.Pending == nil {
		return
	}
	if next.Pending != nil && next.Pending.Seq == prev.Pending.Seq {
		return
	}
	if cancel, ok := o.inflight[prev.Pending.Seq]; ok {
		cancel()
		delete(o.inflight, prev.Pending.Seq)
	}
}

func (o *Orchestrator) publish(u Update) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	for id, sub := range o.subscribers {
		select {
		case sub <- u:
		default:
			ctxzap.Debug(o.ctx, "subscriber lagging, update dropped", zap.Uint64("subscriber", id))
		}
	}
}

// post delivers an asynchronous event to the loop
func (o *Orchestrator) post(ev turn.Event) {
	select {
	case o.mailbox <- envelope{event: ev}:
	case <-o.ctx.Done():
	}
}
