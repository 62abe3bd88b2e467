package domain

import "github.com/google/uuid"

// RunStatus is the lifecycle state of a run. It is monotonic:
// PENDING -> RUNNING -> exactly one of {COMPLETED, FAILED}.
type RunStatus string

const (
	StatusPending   RunStatus = "PENDING"
	StatusRunning   RunStatus = "RUNNING"
	StatusCompleted RunStatus = "COMPLETED"
	StatusFailed    RunStatus = "FAILED"
)

// Terminal reports whether the status will never change again.
func (s RunStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Run is one execution of a graph against a specific initial state.
// It is owned exclusively by the executor driving it; the log is
// append-only and its length equals the number of steps attempted,
// plus at most one trailing warning when the step cap tripped.
type Run struct {
	ID          string         `json:"id"`
	GraphID     string         `json:"graph_id"`
	State       map[string]any `json:"state"`
	Log         []LogEntry     `json:"log"`
	Status      RunStatus      `json:"status"`
	CurrentNode string         `json:"current_node,omitempty"`
}

// NewRun allocates a pending run positioned at the graph's entrypoint.
// The initial state is copied shallowly: top-level keys are independent
// of the caller's map, nested values still alias it.
func NewRun(graph *Graph, initialState map[string]any) *Run {
	state := make(map[string]any, len(initialState))
	for k, v := range initialState {
		state[k] = v
	}
	return &Run{
		ID:          uuid.NewString(),
		GraphID:     graph.ID,
		State:       state,
		Log:         []LogEntry{},
		Status:      StatusPending,
		CurrentNode: graph.Entrypoint,
	}
}

// LogEntry is one record in a run's audit log: a step record
// (step/node/input/output), an error record (step/node/error/state), or a
// terminal warning (warning). The variant is discriminated by which
// fields are present, matching the wire format.
type LogEntry struct {
	Step    *int           `json:"step,omitempty"`
	Node    string         `json:"node,omitempty"`
	Input   map[string]any `json:"input,omitempty"`
	Output  map[string]any `json:"output,omitempty"`
	Error   string         `json:"error,omitempty"`
	State   map[string]any `json:"state,omitempty"`
	Warning string         `json:"warning,omitempty"`
}

// StepEntry records a successfully executed step with its input and
// output state snapshots.
func StepEntry(step int, node string, input, output map[string]any) LogEntry {
	return LogEntry{Step: &step, Node: node, Input: input, Output: output}
}

// ErrorEntry records a failed step with the state as of entry to it.
func ErrorEntry(step int, node string, message string, state map[string]any) LogEntry {
	return LogEntry{Step: &step, Node: node, Error: message, State: state}
}

// WarningEntry records a terminal warning, appended at most once.
func WarningEntry(message string) LogEntry {
	return LogEntry{Warning: message}
}

// IsStep reports whether the entry is a step record.
func (e LogEntry) IsStep() bool { return e.Step != nil && e.Error == "" && e.Warning == "" }

// IsError reports whether the entry is an error record.
func (e LogEntry) IsError() bool { return e.Error != "" }

// IsWarning reports whether the entry is a terminal warning.
func (e LogEntry) IsWarning() bool { return e.Warning != "" }
