package ports

import (
	"context"

	"github.com/aretw0/sluice/pkg/domain"
)

// GraphStore holds immutable graph definitions keyed by identity.
// Graphs are never updated or deleted.
type GraphStore interface {
	// Put stores a new graph under its own ID.
	Put(ctx context.Context, graph *domain.Graph) error

	// Get retrieves a graph by ID.
	// Returns domain.ErrGraphNotFound if the graph does not exist.
	Get(ctx context.Context, graphID string) (*domain.Graph, error)
}

// RunStore holds run records keyed by identity. Writes happen only from
// inside the executor call that owns the run; the store's own map must
// tolerate concurrent inserts from unrelated runs.
type RunStore interface {
	// Save persists the current snapshot of a run, creating or
	// overwriting the record under its ID.
	Save(ctx context.Context, run *domain.Run) error

	// Get retrieves a run by ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Get(ctx context.Context, runID string) (*domain.Run, error)

	// List returns the IDs of all known runs.
	List(ctx context.Context) ([]string, error)
}

// ToolResolver maps a step name to its implementation.
type ToolResolver interface {
	// Resolve returns the tool registered under name.
	// Returns domain.ErrToolNotFound if the name was never registered.
	Resolve(name string) (domain.ToolFunc, error)
}
