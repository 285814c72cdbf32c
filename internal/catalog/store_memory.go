package catalog

import (
	"context"
	"sync"
)

// MemStore keeps the last saved snapshot in memory.
type MemStore struct {
	mu     sync.RWMutex
	fields []Fields
}

func NewMemStore(seed ...Fields) *MemStore {
	return &MemStore{fields: append([]Fields(nil), seed...)}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Location() string { return "memory" }

func (s *MemStore) Load(ctx context.Context) ([]Fields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Fields, len(s.fields))
	copy(out, s.fields)
	return out, nil
}

func (s *MemStore) Save(ctx context.Context, fields []Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fields = append(s.fields[:0:0], fields...)
	return nil
}
