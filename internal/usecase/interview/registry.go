package interview

import (
	"time"

	"github.com/futig/interview-backend/internal/entity"
	"github.com/futig/interview-backend/internal/interview/orchestrator"
	"github.com/futig/interview-backend/internal/speech"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// liveSession is one running interview with its client bridge
type liveSession struct {
	orch   *orchestrator.Orchestrator
	bridge *speech.Bridge
}

func (s *liveSession) close() {
	s.orch.Close()
	s.bridge.Close()
}

// registry keeps live sessions in memory. Idle sessions expire after the TTL
// and are torn down on eviction.
type registry struct {
	sessions *cache.Cache
}

func newRegistry(ttl, cleanupInterval time.Duration, logger *zap.Logger) *registry {
	sessions := cache.New(ttl, cleanupInterval)
	sessions.OnEvicted(func(id string, v any) {
		s, ok := v.(*liveSession)
		if !ok {
			return
		}
		s.close()
		logger.Info("interview session evicted", zap.String("session_id", id))
	})

	return &registry{sessions: sessions}
}

func (r *registry) add(id string, s *liveSession) {
	r.sessions.SetDefault(id, s)
}

// get returns the session and extends its lifetime
func (r *registry) get(id string) (*liveSession, error) {
	v, ok := r.sessions.Get(id)
	if !ok {
		return nil, entity.ErrSessionNotFound
	}

	s := v.(*liveSession)
	r.sessions.SetDefault(id, s)
	return s, nil
}

func (r *registry) remove(id string) error {
	if _, ok := r.sessions.Get(id); !ok {
		return entity.ErrSessionNotFound
	}
	r.sessions.Delete(id)
	return nil
}

func (r *registry) count() int {
	return r.sessions.ItemCount()
}

// closeAll tears down every live session
func (r *registry) closeAll() {
	for id := range r.sessions.Items() {
		r.sessions.Delete(id)
	}
}
