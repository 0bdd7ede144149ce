package snapshot

import (
	"context"
	"sync"

	"github.com/smallbiznis/sitekit/internal/wizard/domain"
)

type memoryStore struct {
	mu    sync.RWMutex
	snaps map[string]domain.Snapshot
}

// NewMemoryStore is the degraded fallback when redis is not configured, and
// the store used by tests.
func NewMemoryStore() Store {
	return &memoryStore{snaps: make(map[string]domain.Snapshot)}
}

func (s *memoryStore) Load(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[sessionID]
	if !ok {
		return domain.Snapshot{}, ErrNotFound
	}
	return snap, nil
}

func (s *memoryStore) Save(ctx context.Context, sessionID string, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[sessionID] = snap
	return nil
}

func (s *memoryStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, sessionID)
	return nil
}
