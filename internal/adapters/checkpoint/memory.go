// Package checkpoint persists the agent's cursors and daily quota between
// runs. The memory backend keeps the original in-process-only semantics; the
// sqlite and firestore backends make them survive a restart.
package checkpoint

import (
	"context"
	"sync"

	"github.com/example/chirp/internal/domain"
)

// MemoryStore is the default backend. State lives only for the process
// lifetime, so a restart reprocesses old mentions and DMs. That is the
// documented behavior of the agent, not a bug.
type MemoryStore struct {
	mu     sync.RWMutex
	byName map[string]domain.Checkpoint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byName: make(map[string]domain.Checkpoint),
	}
}

func (s *MemoryStore) Load(ctx context.Context, agent string) (domain.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.byName[agent], nil
}

func (s *MemoryStore) Save(ctx context.Context, agent string, cp domain.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byName[agent] = cp
	return nil
}
