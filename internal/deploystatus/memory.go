package deploystatus

import (
	"context"
	"sync"

	"github.com/mayankch283/Site-o-Matic/internal/domain"
)

// DefaultCacheBound is how many deployment records the in-memory store keeps.
const DefaultCacheBound = 50

// MemoryStore is a mutex-guarded map with strict insertion-order FIFO
// eviction: when the bound is exceeded the oldest-inserted record goes,
// regardless of how recently it was read. Overwriting an existing key keeps
// its original insertion position.
type MemoryStore struct {
	mu      sync.Mutex
	bound   int
	records map[string]domain.DeploymentRecord
	order   []string
}

// NewMemoryStore returns a store bounded at DefaultCacheBound entries.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithBound(DefaultCacheBound)
}

// NewMemoryStoreWithBound returns a store with an explicit bound.
func NewMemoryStoreWithBound(bound int) *MemoryStore {
	if bound <= 0 {
		bound = DefaultCacheBound
	}
	return &MemoryStore{
		bound:   bound,
		records: make(map[string]domain.DeploymentRecord),
	}
}

// Put stores a record, replacing any prior record for its key and evicting
// the oldest insertion when the bound is exceeded.
func (s *MemoryStore) Put(_ context.Context, record domain.DeploymentRecord) error {
	key := record.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[key]; exists {
		s.records[key] = record
		return nil
	}
	s.records[key] = record
	s.order = append(s.order, key)
	if len(s.order) > s.bound {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.records, oldest)
	}
	return nil
}

// Get returns the record for a (project, revision) pair.
func (s *MemoryStore) Get(_ context.Context, projectID, commitSHA string) (domain.DeploymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[domain.DeploymentKey(projectID, commitSHA)]
	if !ok {
		return domain.DeploymentRecord{}, ErrNotFound
	}
	return record, nil
}

// Len reports the current number of cached records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(context.Context) error { return nil }
