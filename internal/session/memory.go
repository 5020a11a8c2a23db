package session

import (
	"context"
	"sync"

	"github.com/aura-assist/aura-backend/internal/types"
)

// MemoryStore is the default in-process checkpoint backend.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]types.RequestRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]types.RequestRecord)}
}

func (s *MemoryStore) Get(_ context.Context, threadKey string) (types.RequestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[threadKey]
	if !ok {
		return types.RequestRecord{}, ErrNotFound
	}
	return record, nil
}

func (s *MemoryStore) Put(_ context.Context, threadKey string, record types.RequestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[threadKey] = record
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, threadKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, threadKey)
	return nil
}
