package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"headshot/internal/domain"
	"headshot/internal/upload"
)

// Registry holds live workflow sessions in memory. Sessions are deliberately
// not persisted anywhere; an idle session is swept after its TTL and its
// preview reference released.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	previews *upload.PreviewStore
	ttl      time.Duration
	logger   zerolog.Logger
}

func NewRegistry(previews *upload.PreviewStore, ttl time.Duration, logger zerolog.Logger) *Registry {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Registry{
		sessions: make(map[string]*Session),
		previews: previews,
		ttl:      ttl,
		logger:   logger,
	}
}

// Create registers a fresh session at the Upload stage.
func (r *Registry) Create() *Session {
	s := NewSession(r.previews)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get resolves a session by id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Remove drops a session and releases its resources.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		s.Reset()
	}
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts idle sessions on the given interval until ctx is done.
func (r *Registry) Sweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweepOnce(time.Now())
		}
	}
}

func (r *Registry) sweepOnce(now time.Time) {
	var expired []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if now.Sub(s.Touched()) > r.ttl {
			delete(r.sessions, id)
			expired = append(expired, s)
		}
	}
	r.mu.Unlock()
	for _, s := range expired {
		s.Reset()
		r.logger.Debug().Str("session_id", s.ID).Msg("evicted idle session")
	}
}
