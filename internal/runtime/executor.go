// Package runtime implements the run-execution engine: the loop that
// walks a graph from its entrypoint, invokes each node's tool, merges
// results into the run state, and routes to the next node until the run
// terminates.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/sluice/internal/logging"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/ports"
)

// DefaultMaxSteps bounds every run. Reaching the cap is always a
// failure, even if the graph was logically almost done.
const DefaultMaxSteps = 50

// StepLimitWarning is the terminal warning appended when the cap trips.
const StepLimitWarning = "max steps reached; possible infinite loop"

// Executor drives runs to a terminal status. It is safe for concurrent
// use: distinct runs own disjoint state and logs, and the stores are
// internally synchronized.
type Executor struct {
	graphs   ports.GraphStore
	runs     ports.RunStore
	tools    ports.ToolResolver
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	maxSteps int
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets a structured logger for the executor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Executor) {
		e.hooks = hooks
	}
}

// WithMaxSteps overrides the default step cap.
func WithMaxSteps(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// NewExecutor creates an executor over the given stores and registry.
func NewExecutor(graphs ports.GraphStore, runs ports.RunStore, tools ports.ToolResolver, opts ...Option) *Executor {
	e := &Executor{
		graphs:   graphs,
		runs:     runs,
		tools:    tools,
		logger:   logging.NewNop(),
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the graph from its entrypoint against initialState and
// returns the finished run.
//
// The initial state is copied shallowly: top-level keys are independent
// of the caller's map, nested values still alias it.
//
// An unknown graph ID is returned as a Go error (no run exists yet).
// Every failure after the run is allocated is recorded on the run
// itself: the call returns normally and callers inspect run.Status.
func (e *Executor) Run(ctx context.Context, graphID string, initialState map[string]any) (*domain.Run, error) {
	graph, err := e.graphs.Get(ctx, graphID)
	if err != nil {
		return nil, err
	}

	run := domain.NewRun(graph, initialState)
	if err := e.runs.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}
	run.Status = domain.StatusRunning
	if err := e.runs.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}

	logger := e.logger.With("run_id", run.ID, "graph_id", graph.ID)
	logger.Debug("run started", "entrypoint", graph.Entrypoint)

	steps := 0
	for run.CurrentNode != "" && steps < e.maxSteps {
		// Cancellation is checked once per iteration; there is no
		// mid-step interruption.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return e.fail(ctx, logger, run, steps, run.CurrentNode, ctxErr.Error(), domain.CloneState(run.State))
		}

		node := run.CurrentNode
		cfg, ok := graph.Nodes[node]
		if !ok {
			// The graph references a node it never defined. A structural
			// defect discovered mid-execution fails the run, not the call.
			return e.fail(ctx, logger, run, steps, node, fmt.Sprintf("node not found: %q", node), domain.CloneState(run.State))
		}

		e.fireNodeEnter(ctx, &domain.NodeEvent{RunID: run.ID, Node: node, Tool: cfg.Tool, Step: steps})

		tool, err := e.tools.Resolve(cfg.Tool)
		if err != nil {
			return e.fail(ctx, logger, run, steps, node, err.Error(), domain.CloneState(run.State))
		}

		input := domain.CloneState(run.State)

		started := time.Now()
		patch, err := tool(ctx, run.State)
		e.fireToolReturn(ctx, &domain.ToolEvent{
			RunID:    run.ID,
			Node:     node,
			Tool:     cfg.Tool,
			Step:     steps,
			Duration: time.Since(started),
			IsError:  err != nil,
		})
		if err != nil {
			// Fail fast: the error entry carries the state as of entry
			// to this step, not any later in-place mutation.
			return e.fail(ctx, logger, run, steps, node, err.Error(), input)
		}

		// The tool may have mutated the state in place; the patch is
		// merged on top, overwrite-by-key.
		for k, v := range patch {
			run.State[k] = v
		}
		output := domain.CloneState(run.State)

		// Route before logging the step so a routing failure yields an
		// error entry in place of the step entry, keeping one log entry
		// per attempted step.
		next, routeErr := route(graph, node, run.State)
		if routeErr != nil {
			return e.fail(ctx, logger, run, steps, node, routeErr.Error(), output)
		}
		run.Log = append(run.Log, domain.StepEntry(steps, node, input, output))

		run.CurrentNode = next
		steps++
		if err := e.runs.Save(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to persist run: %w", err)
		}
		logger.Debug("step executed", "node", node, "tool", cfg.Tool, "step", steps, "next", next)
	}

	// Reaching the cap always fails the run, even when the final node
	// cleared on the very last step.
	if steps >= e.maxSteps {
		run.Status = domain.StatusFailed
		run.Log = append(run.Log, domain.WarningEntry(StepLimitWarning))
		logger.Warn("run failed", "reason", StepLimitWarning, "steps", steps)
	} else {
		run.Status = domain.StatusCompleted
		logger.Debug("run completed", "steps", steps)
	}

	e.fireRunEnd(ctx, &domain.RunEvent{RunID: run.ID, GraphID: run.GraphID, Status: run.Status, Steps: steps})
	if err := e.runs.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}
	return run, nil
}

// fail marks the run FAILED with an error entry and returns it as a
// normal result. A failed run is a terminal run with no retry.
func (e *Executor) fail(ctx context.Context, logger *slog.Logger, run *domain.Run, step int, node, message string, state map[string]any) (*domain.Run, error) {
	run.Status = domain.StatusFailed
	run.Log = append(run.Log, domain.ErrorEntry(step, node, message, state))
	logger.Warn("run failed", "node", node, "step", step, "error", message)

	e.fireRunEnd(ctx, &domain.RunEvent{RunID: run.ID, GraphID: run.GraphID, Status: run.Status, Steps: step})
	if err := e.runs.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}
	return run, nil
}

func (e *Executor) fireNodeEnter(ctx context.Context, ev *domain.NodeEvent) {
	if e.hooks.OnNodeEnter != nil {
		e.hooks.OnNodeEnter(ctx, ev)
	}
}

func (e *Executor) fireToolReturn(ctx context.Context, ev *domain.ToolEvent) {
	if e.hooks.OnToolReturn != nil {
		e.hooks.OnToolReturn(ctx, ev)
	}
}

func (e *Executor) fireRunEnd(ctx context.Context, ev *domain.RunEvent) {
	if e.hooks.OnRunEnd != nil {
		e.hooks.OnRunEnd(ctx, ev)
	}
}
