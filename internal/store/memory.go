package store

import (
	"context"
	"sync"

	"github.com/i474232898/epidemic-tally/internal/dates"
	"github.com/i474232898/epidemic-tally/internal/epidemic"
)

// MemoryStore is a concurrency-safe in-memory report cache. Reports are
// copied on the way in and out so callers never share a map with it.
type MemoryStore struct {
	mu sync.RWMutex

	// key: ddmmyyyy
	data map[string]epidemic.Report
}

var _ epidemic.Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]epidemic.Report),
	}
}

// Get returns the report cached for date.
func (s *MemoryStore) Get(_ context.Context, date dates.Date) (epidemic.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.data[date.Key()]
	if !ok {
		return nil, epidemic.ErrCacheMiss
	}
	return report.Clone(), nil
}

// Put replaces the report cached for date.
func (s *MemoryStore) Put(_ context.Context, date dates.Date, report epidemic.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[date.Key()] = report.Clone()
	return nil
}

// Len is the number of cached dates.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) Close() error {
	return nil
}
