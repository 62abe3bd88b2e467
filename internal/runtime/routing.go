package runtime

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/sluice/pkg/domain"
)

// route resolves the successor of node after a successful step.
// An empty result ends the run deliberately.
//
// When the edge carries a condition key, the state value under that key
// is checked against the gte/lt thresholds; both are conjunctive when
// present. An absent or nil value never satisfies a threshold and never
// errors; a non-numeric value compared against a set threshold is a
// deterministic routing error that fails the run.
func route(graph *domain.Graph, node string, state map[string]any) (string, error) {
	edge, ok := graph.Edges[node]
	if !ok {
		// No outgoing edge: the graph ends here.
		return "", nil
	}

	next := edge.Next
	if edge.ConditionKey == "" {
		return next, nil
	}

	value := state[edge.ConditionKey]
	met := true

	if edge.Gte != nil {
		num, isNum, err := conditionNumber(edge.ConditionKey, value)
		if err != nil {
			return "", err
		}
		met = met && isNum && num >= *edge.Gte
	}
	if edge.Lt != nil {
		num, isNum, err := conditionNumber(edge.ConditionKey, value)
		if err != nil {
			return "", err
		}
		met = met && isNum && num < *edge.Lt
	}

	if met {
		if edge.IfTrue != "" {
			return edge.IfTrue, nil
		}
		return next, nil
	}
	if edge.IfFalse != "" {
		return edge.IfFalse, nil
	}
	return next, nil
}

// conditionNumber coerces a state value for threshold comparison.
// A nil value reports isNum=false without error.
func conditionNumber(key string, value any) (num float64, isNum bool, err error) {
	switch v := value.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return v, true, nil
	case float32:
		return float64(v), true, nil
	case int:
		return float64(v), true, nil
	case int32:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case json.Number:
		f, convErr := v.Float64()
		if convErr != nil {
			return 0, false, fmt.Errorf("condition type mismatch: key %q holds non-numeric value %q", key, v.String())
		}
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("condition type mismatch: key %q holds %T, expected a number", key, value)
	}
}
