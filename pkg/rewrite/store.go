package rewrite

import (
	"sync"

	"github.com/google/uuid"
)

// Store keys suspended sessions by their ID so the awaiting-decisions state
// is inspectable and resumable per request identity. Cancellation is simply
// dropping the session.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[uuid.UUID]*Session)}
}

// Put registers a session, replacing any previous one with the same ID.
func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

// Get returns the session for the ID, or nil.
func (s *Store) Get(id uuid.UUID) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// Drop removes a session. Dropping an unknown ID is a no-op.
func (s *Store) Drop(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
