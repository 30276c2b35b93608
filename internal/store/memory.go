package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemorySnapshotStore implements SnapshotStore with a single in-memory slot.
// Used for testing and development. Not suitable for production (no
// persistence, no cross-replica notification).
type MemorySnapshotStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemorySnapshotStore creates a new in-memory snapshot store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

func (s *MemorySnapshotStore) Save(_ context.Context, doc *Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *MemorySnapshotStore) Load(_ context.Context) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, ErrNoSnapshot
	}

	var doc Document
	if err := json.Unmarshal(s.data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
