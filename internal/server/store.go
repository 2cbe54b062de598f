package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/at-ishikawa/vocabquiz/internal/quiz"
)

type storedSession struct {
	session  *quiz.Session
	lastUsed time.Time
}

// SessionStore keeps one quiz session per visitor
type SessionStore struct {
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*storedSession
}

// NewSessionStore creates a store. A zero idleTimeout keeps sessions forever.
func NewSessionStore(idleTimeout time.Duration) *SessionStore {
	return &SessionStore{
		idleTimeout: idleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*storedSession),
	}
}

func (store *SessionStore) Add(session *quiz.Session) string {
	id := uuid.NewString()
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sessions[id] = &storedSession{
		session:  session,
		lastUsed: store.now(),
	}
	return id
}

// Get returns the session and marks it as used
func (store *SessionStore) Get(id string) (*quiz.Session, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	stored, ok := store.sessions[id]
	if !ok {
		return nil, false
	}
	stored.lastUsed = store.now()
	return stored.session, true
}

func (store *SessionStore) Len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.sessions)
}

// Expire removes sessions idle for longer than the timeout and returns how many were removed
func (store *SessionStore) Expire() int {
	if store.idleTimeout <= 0 {
		return 0
	}
	store.mu.Lock()
	defer store.mu.Unlock()

	deadline := store.now().Add(-store.idleTimeout)
	removed := 0
	for id, stored := range store.sessions {
		if stored.lastUsed.Before(deadline) {
			delete(store.sessions, id)
			removed++
		}
	}
	return removed
}

// Run expires idle sessions periodically until ctx is done
func (store *SessionStore) Run(ctx context.Context) {
	if store.idleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(store.idleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.Expire(); removed > 0 {
				slog.Default().Debug("expired idle sessions", "count", removed)
			}
		}
	}
}
