package session

import (
	"context"
	"log/slog"
	"map-distance-service/internal/platform/metrics"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Factory builds a session for a new id.
type Factory func(id string) *Session

// Store is the in-memory registry of live sessions, one per page load.
type Store struct {
	newSession Factory
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(newSession Factory) *Store {
	return &Store{
		newSession: newSession,
		now:        time.Now,
		sessions:   map[string]*Session{},
	}
}

func (st *Store) Create() *Session {
	s := st.newSession(uuid.NewString())

	st.mu.Lock()
	st.sessions[s.ID()] = s
	st.mu.Unlock()

	metrics.ActiveSessions.Inc()
	return s
}

// Get returns the session and marks it active.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		s.Touch()
	}
	return s, ok
}

// Delete closes and forgets the session. It reports whether it existed.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if !ok {
		return false
	}
	s.Close()
	metrics.ActiveSessions.Dec()
	return true
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep deletes sessions idle for longer than maxIdle and returns how many.
func (st *Store) Sweep(maxIdle time.Duration) int {
	cutoff := st.now().Add(-maxIdle)

	st.mu.RLock()
	var stale []string
	for id, s := range st.sessions {
		if s.LastActive().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	st.mu.RUnlock()

	n := 0
	for _, id := range stale {
		if st.Delete(id) {
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (st *Store) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := st.Sweep(maxIdle); n > 0 {
				slog.Info("swept idle sessions", "count", n, "remaining", st.Len())
			}
		}
	}
}
