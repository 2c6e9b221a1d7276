package dialogue

import (
	"context"
	"sync"
)

// SessionStore persists the at-most-one pending clarification per session.
// Put replaces any existing pending state and Clear removes it; both must
// be atomic so a stale clarification can never survive a newer turn.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*PendingClarification, error)
	Put(ctx context.Context, sessionID string, pending *PendingClarification) error
	Clear(ctx context.Context, sessionID string) error
}

// MemoryStore is an in-process SessionStore keyed by session ID.
type MemoryStore struct {
	mu      sync.RWMutex
	pending map[string]*PendingClarification
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: make(map[string]*PendingClarification)}
}

// Get returns the session's pending clarification, or nil when none exists.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (*PendingClarification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending[sessionID], nil
}

// Put replaces the session's pending clarification.
func (s *MemoryStore) Put(_ context.Context, sessionID string, pending *PendingClarification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[sessionID] = pending
	return nil
}

// Clear removes the session's pending clarification, if any.
func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, sessionID)
	return nil
}
