// Package memory provides the default in-process store adapters.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/sluice/pkg/domain"
)

// GraphStore implements ports.GraphStore in memory.
// Safe for concurrent use.
type GraphStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Graph
}

// NewGraphStore creates a new in-memory graph store.
func NewGraphStore() *GraphStore {
	return &GraphStore{data: make(map[string]*domain.Graph)}
}

// Put stores a graph under its ID. Graphs are immutable after creation,
// so no copy is taken.
func (s *GraphStore) Put(ctx context.Context, graph *domain.Graph) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[graph.ID] = graph
	return nil
}

// Get retrieves a graph by ID.
func (s *GraphStore) Get(ctx context.Context, graphID string) (*domain.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	graph, ok := s.data[graphID]
	if !ok {
		return nil, domain.ErrGraphNotFound
	}
	return graph, nil
}

// RunStore implements ports.RunStore in memory.
// Safe for concurrent use.
type RunStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Run
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{data: make(map[string]*domain.Run)}
}

// Save persists a deep copy of the run so the executor's live record
// stays isolated from store readers.
func (s *RunStore) Save(ctx context.Context, run *domain.Run) error {
	clone := domain.CloneRun(run)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[run.ID] = clone
	return nil
}

// Get retrieves a copy of the run so callers can't mutate the stored
// record through the returned pointer.
func (s *RunStore) Get(ctx context.Context, runID string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[runID]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return domain.CloneRun(run), nil
}

// List returns the IDs of all known runs.
func (s *RunStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
