package modelresolver

import (
	"sync"
	"time"
)

// State holds the discovered model for the life of the process. It is owned by
// one Resolver and mutated only through it.
type State struct {
	mu       sync.RWMutex
	modelID  string
	cachedAt time.Time
}

func NewState() *State { return &State{} }

// Snapshot returns the cached model and when it was stored; ok is false when empty.
func (s *State) Snapshot() (modelID string, cachedAt time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modelID, s.cachedAt, s.modelID != ""
}

func (s *State) set(modelID string, at time.Time) {
	s.mu.Lock()
	s.modelID, s.cachedAt = modelID, at
	s.mu.Unlock()
}

func (s *State) clear() {
	s.mu.Lock()
	s.modelID, s.cachedAt = "", time.Time{}
	s.mu.Unlock()
}
