package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps events per batch for the lifetime of the process.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.BatchID] = append(s.events[event.BatchID], event)
	return nil
}

func (s *InMemoryStore) ListByBatch(_ context.Context, batchID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[batchID]...), nil
}
