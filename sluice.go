package sluice

import (
	"context"
	"log/slog"

	"github.com/aretw0/sluice/internal/logging"
	"github.com/aretw0/sluice/internal/runtime"
	"github.com/aretw0/sluice/internal/tools"
	"github.com/aretw0/sluice/pkg/adapters/memory"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/ports"
	"github.com/aretw0/sluice/pkg/registry"
)

// Engine is the high-level entry point for the Sluice library.
// It owns the graph store, run store, and tool registry, and wraps the
// internal executor with a simplified API for consumers.
type Engine struct {
	graphs         ports.GraphStore
	runs           ports.RunStore
	registry       *registry.Registry
	executor       *runtime.Executor
	logger         *slog.Logger
	hooks          domain.LifecycleHooks
	maxSteps       int
	defaultGraphID string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithGraphStore injects a custom graph store, bypassing the default
// in-memory adapter.
func WithGraphStore(store ports.GraphStore) Option {
	return func(e *Engine) {
		e.graphs = store
	}
}

// WithRunStore injects a custom run store.
func WithRunStore(store ports.RunStore) Option {
	return func(e *Engine) {
		e.runs = store
	}
}

// WithRegistry injects a pre-populated tool registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = reg
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithMaxSteps overrides the default per-run step cap.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// New initializes a new Sluice Engine. By default it uses in-memory
// stores and an empty tool registry; everything is assembled here
// explicitly, nothing is registered as an import side effect.
func New(opts ...Option) *Engine {
	eng := &Engine{
		logger:   logging.NewNop(),
		maxSteps: runtime.DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.graphs == nil {
		eng.graphs = memory.NewGraphStore()
	}
	if eng.runs == nil {
		eng.runs = memory.NewRunStore()
	}
	if eng.registry == nil {
		eng.registry = registry.New()
	}

	eng.executor = runtime.NewExecutor(
		eng.graphs,
		eng.runs,
		eng.registry,
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithMaxSteps(eng.maxSteps),
	)
	return eng
}

// Registry returns the engine's tool registry for host registration.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// CreateGraph validates and stores a new graph definition, minting a
// fresh identity. Tool names are not validated here; an unknown tool
// surfaces the first time its node is reached in a run.
func (e *Engine) CreateGraph(ctx context.Context, nodes map[string]domain.NodeConfig, edges map[string]domain.EdgeConfig, entrypoint string) (*domain.Graph, error) {
	graph, err := domain.NewGraph(nodes, edges, entrypoint)
	if err != nil {
		return nil, err
	}
	if err := e.graphs.Put(ctx, graph); err != nil {
		return nil, err
	}
	e.logger.Debug("graph created", "graph_id", graph.ID, "nodes", len(nodes))
	return graph, nil
}

// GetGraph retrieves a graph by ID.
func (e *Engine) GetGraph(ctx context.Context, graphID string) (*domain.Graph, error) {
	return e.graphs.Get(ctx, graphID)
}

// RunGraph executes a graph to a terminal status and returns the
// finished run. See runtime.Executor.Run for the failure contract.
func (e *Engine) RunGraph(ctx context.Context, graphID string, initialState map[string]any) (*domain.Run, error) {
	return e.executor.Run(ctx, graphID, initialState)
}

// GetRun retrieves a run by ID.
func (e *Engine) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	return e.runs.Get(ctx, runID)
}

// ListRuns returns the IDs of all known runs.
func (e *Engine) ListRuns(ctx context.Context) ([]string, error) {
	return e.runs.List(ctx)
}

// SeedDefaultGraph registers the builtin code-review tools and creates
// the example pipeline built from them. Call it once from the process
// entry point; repeated calls create fresh graphs (identity is never
// content-addressed) and the last one wins as the default.
func (e *Engine) SeedDefaultGraph(ctx context.Context) (string, error) {
	tools.Register(e.registry)

	nodes, edges, entrypoint := tools.DefaultGraph()
	graph, err := e.CreateGraph(ctx, nodes, edges, entrypoint)
	if err != nil {
		return "", err
	}
	e.defaultGraphID = graph.ID
	e.logger.Info("default graph seeded", "graph_id", graph.ID, "name", tools.DefaultGraphName)
	return graph.ID, nil
}

// DefaultGraphID returns the id of the seeded example graph, or empty
// if SeedDefaultGraph was never called.
func (e *Engine) DefaultGraphID() string {
	return e.defaultGraphID
}
