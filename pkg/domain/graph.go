package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// NodeConfig describes a single node in a graph. A node simply points at a
// tool name in the registry; the name is resolved lazily at run time, not
// when the graph is created.
type NodeConfig struct {
	Tool string `json:"tool" yaml:"tool" mapstructure:"tool"`
}

// EdgeConfig is the routing rule from one node to its successor.
// A node has at most one outgoing edge (edges are keyed by source node).
//
// Next is the default successor. When ConditionKey is set, the value under
// that key in the run state is compared against Gte and/or Lt; both
// thresholds are conjunctive when present. A met condition routes to IfTrue
// (falling back to Next when IfTrue is empty), an unmet one to IfFalse
// (same fallback). An empty resolved successor ends the run.
type EdgeConfig struct {
	Next         string   `json:"next,omitempty" yaml:"next,omitempty" mapstructure:"next"`
	ConditionKey string   `json:"condition_key,omitempty" yaml:"condition_key,omitempty" mapstructure:"condition_key"`
	Gte          *float64 `json:"gte,omitempty" yaml:"gte,omitempty" mapstructure:"gte"`
	Lt           *float64 `json:"lt,omitempty" yaml:"lt,omitempty" mapstructure:"lt"`
	IfTrue       string   `json:"if_true,omitempty" yaml:"if_true,omitempty" mapstructure:"if_true"`
	IfFalse      string   `json:"if_false,omitempty" yaml:"if_false,omitempty" mapstructure:"if_false"`
}

// Graph is an immutable workflow definition. Once created it is never
// mutated or deleted; identity is a fresh UUID per creation, so two
// structurally identical graphs get different ids.
type Graph struct {
	ID         string                `json:"id" yaml:"id"`
	Nodes      map[string]NodeConfig `json:"nodes" yaml:"nodes"`
	Edges      map[string]EdgeConfig `json:"edges" yaml:"edges"`
	Entrypoint string                `json:"entrypoint" yaml:"entrypoint"`
}

// NewGraph assembles a graph with a fresh identity.
// The entrypoint must exist in nodes; nothing else is validated here.
// Unknown tool names or dangling edge targets are discovered at run time.
func NewGraph(nodes map[string]NodeConfig, edges map[string]EdgeConfig, entrypoint string) (*Graph, error) {
	if _, ok := nodes[entrypoint]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrEntrypointUnknown, entrypoint)
	}
	if edges == nil {
		edges = map[string]EdgeConfig{}
	}
	return &Graph{
		ID:         uuid.NewString(),
		Nodes:      nodes,
		Edges:      edges,
		Entrypoint: entrypoint,
	}, nil
}
