package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by unit tests and as a scratch
// backend. It copies documents on the way in and out so callers cannot
// alias the stored slice.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := make([]byte, len(value))
	copy(doc, value)
	m.docs[key] = doc
	return nil
}

func (m *Memory) Close() error { return nil }
