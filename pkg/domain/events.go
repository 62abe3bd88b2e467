package domain

import (
	"context"
	"time"
)

// NodeEvent is emitted when the executor enters a node.
type NodeEvent struct {
	RunID string
	Node  string
	Tool  string
	Step  int
}

// ToolEvent is emitted after a tool invocation returns.
type ToolEvent struct {
	RunID    string
	Node     string
	Tool     string
	Step     int
	Duration time.Duration
	IsError  bool
}

// RunEvent is emitted once when a run reaches a terminal status.
type RunEvent struct {
	RunID   string
	GraphID string
	Status  RunStatus
	Steps   int
}

// LifecycleHooks are optional observability callbacks fired by the
// executor. Nil hooks are skipped. Hooks run synchronously on the
// executing goroutine and must not mutate the run.
type LifecycleHooks struct {
	OnNodeEnter  func(ctx context.Context, e *NodeEvent)
	OnToolReturn func(ctx context.Context, e *ToolEvent)
	OnRunEnd     func(ctx context.Context, e *RunEvent)
}
