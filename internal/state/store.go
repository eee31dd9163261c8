// Package state persists per-session story state. The server holds state only
// for the lifetime of the process - there is deliberately no durable backend.
package state

import (
	"sync"

	"github.com/shonenloop/story-api/internal/models"
)

// Store is the session-scoped persistence capability: an opaque
// save/load/clear keyed by session ID.
type Store interface {
	Save(sessionID string, state *models.StoryState)
	Load(sessionID string) (*models.StoryState, bool)
	Clear(sessionID string)
}

// MemoryStore keeps story state in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*models.StoryState
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]*models.StoryState),
	}
}

// Save replaces the stored state for the session
func (s *MemoryStore) Save(sessionID string, state *models.StoryState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sessionID] = state
}

// Load returns the stored state for the session, if any
func (s *MemoryStore) Load(sessionID string) (*models.StoryState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[sessionID]
	return st, ok
}

// Clear removes the session's state entirely
func (s *MemoryStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
}
