package persistence

import (
	"context"
	"encoding/json"
	"sync"
)

type memoryCollection struct {
	records []json.RawMessage
	version int64
}

// MemoryStore keeps collections in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]memoryCollection
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]memoryCollection)}
}

func (m *MemoryStore) Read(_ context.Context, name string) (Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.collections[name]
	return Collection{Records: cloneRecords(c.records), Version: c.version}, nil
}

func (m *MemoryStore) Write(_ context.Context, name string, records []json.RawMessage, expectedVersion int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.collections[name]
	if current.version != expectedVersion {
		return current.version, ErrVersionConflict
	}
	next := memoryCollection{records: cloneRecords(records), version: current.version + 1}
	m.collections[name] = next
	return next.version, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

func cloneRecords(records []json.RawMessage) []json.RawMessage {
	if records == nil {
		return nil
	}
	out := make([]json.RawMessage, len(records))
	for i, r := range records {
		out[i] = append(json.RawMessage(nil), r...)
	}
	return out
}
