// Package redis provides store adapters backed by Redis. Records are
// stored as JSON values under a configurable key prefix; run IDs are
// tracked in a ZSET index for listing.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/sluice/pkg/domain"
)

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the expiration for stored records.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for stored records.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// Store bundles a GraphStore and RunStore on one client.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// New creates a store connecting to the given address.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "sluice:",
		ttl:    0, // no expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Graphs returns the ports.GraphStore view of the store.
func (s *Store) Graphs() *GraphStore { return &GraphStore{s} }

// Runs returns the ports.RunStore view of the store.
func (s *Store) Runs() *RunStore { return &RunStore{s} }

// Close closes the underlying client.
func (s *Store) Close() error { return s.client.Close() }

func (s *Store) graphKey(id string) string { return s.prefix + "graph:" + id }
func (s *Store) runKey(id string) string   { return s.prefix + "run:" + id }
func (s *Store) runIndexKey() string       { return s.prefix + "run:index" }

// GraphStore implements ports.GraphStore on Redis.
type GraphStore struct {
	store *Store
}

// Put stores a graph as JSON.
func (g *GraphStore) Put(ctx context.Context, graph *domain.Graph) error {
	data, err := json.Marshal(graph)
	if err != nil {
		return fmt.Errorf("failed to marshal graph: %w", err)
	}
	if err := g.store.client.Set(ctx, g.store.graphKey(graph.ID), data, g.store.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save graph to redis: %w", err)
	}
	return nil
}

// Get retrieves a graph by ID.
func (g *GraphStore) Get(ctx context.Context, graphID string) (*domain.Graph, error) {
	val, err := g.store.client.Get(ctx, g.store.graphKey(graphID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrGraphNotFound
		}
		return nil, fmt.Errorf("failed to get graph from redis: %w", err)
	}

	var graph domain.Graph
	if err := json.Unmarshal([]byte(val), &graph); err != nil {
		return nil, fmt.Errorf("failed to unmarshal graph: %w", err)
	}
	return &graph, nil
}

// RunStore implements ports.RunStore on Redis.
type RunStore struct {
	store *Store
}

// Save persists a run as JSON and records its ID in the index.
func (r *RunStore) Save(ctx context.Context, run *domain.Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	pipe := r.store.client.Pipeline()
	pipe.Set(ctx, r.store.runKey(run.ID), data, r.store.ttl)

	// Score = expiry time; far-future score when records never expire.
	score := float64(time.Now().Add(r.store.ttl).Unix())
	if r.store.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, r.store.runIndexKey(), backend.Z{
		Score:  score,
		Member: run.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save run to redis: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (r *RunStore) Get(ctx context.Context, runID string) (*domain.Run, error) {
	val, err := r.store.client.Get(ctx, r.store.runKey(runID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run from redis: %w", err)
	}

	var run domain.Run
	if err := json.Unmarshal([]byte(val), &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &run, nil
}

// List returns run IDs from the index, pruning expired entries lazily.
func (r *RunStore) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := r.store.client.ZRemRangeByScore(ctx, r.store.runIndexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired runs: %w", err)
	}

	ids, err := r.store.client.ZRange(ctx, r.store.runIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return ids, nil
}
