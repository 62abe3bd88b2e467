// Package tools provides the builtin code-review steps and the default
// graph wired from them. The heuristics are deliberately naive; the
// pipeline exists to exercise the engine, not to review code well.
package tools

import (
	"context"
	"strings"

	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/registry"
)

// Register adds the builtin tools to the registry. It is called
// explicitly at process setup, never as an import side effect.
func Register(reg *registry.Registry) {
	reg.Register("extract_functions", ExtractFunctions)
	reg.Register("check_complexity", CheckComplexity)
	reg.Register("detect_issues", DetectIssues)
	reg.Register("suggest_improvements", SuggestImprovements)
	reg.Register("evaluate_quality", EvaluateQuality)
}

// ExtractFunctions scans state["code"] for "def <name>(" patterns and
// writes the names to state["functions"].
func ExtractFunctions(ctx context.Context, state map[string]any) (map[string]any, error) {
	code, _ := state["code"].(string)

	functions := []any{}
	for _, part := range strings.Split(code, "def ") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		header, _, _ := strings.Cut(part, "(")
		if name := strings.TrimSpace(header); name != "" {
			functions = append(functions, name)
		}
	}

	return map[string]any{"functions": functions}, nil
}

// CheckComplexity derives a toy complexity metric from the number of
// extracted functions.
func CheckComplexity(ctx context.Context, state map[string]any) (map[string]any, error) {
	return map[string]any{"complexity_score": float64(sliceLen(state["functions"]))}, nil
}

// DetectIssues flags TODO comments and debug prints in state["code"].
func DetectIssues(ctx context.Context, state map[string]any) (map[string]any, error) {
	code, _ := state["code"].(string)

	issues := []any{}
	if strings.Contains(code, "TODO") {
		issues = append(issues, "Unresolved TODO comment found.")
	}
	if strings.Contains(code, "print(") {
		issues = append(issues, "Debug print statement found.")
	}

	return map[string]any{"issues": issues, "issue_count": float64(len(issues))}, nil
}

// SuggestImprovements generates suggestions based on the detected
// issues and complexity.
func SuggestImprovements(ctx context.Context, state map[string]any) (map[string]any, error) {
	issueCount := asFloat(state["issue_count"])
	complexity := asFloat(state["complexity_score"])

	suggestions := []any{}
	if complexity > 5 {
		suggestions = append(suggestions, "Consider splitting the module into smaller, focused components.")
	}
	if issueCount > 0 {
		suggestions = append(suggestions, "Resolve the detected issues before merging.")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "Code looks clean. Consider minor refactoring and docstring improvements.")
	}

	return map[string]any{"suggestions": suggestions}, nil
}

// EvaluateQuality produces a synthetic quality_score in [0, 1]:
// fewer issues and lower complexity mean higher quality. It writes the
// score in place as well as returning it, exercising both halves of
// the tool contract.
func EvaluateQuality(ctx context.Context, state map[string]any) (map[string]any, error) {
	issueCount := asFloat(state["issue_count"])
	complexity := asFloat(state["complexity_score"])

	rawPenalty := issueCount + complexity/10.0
	penalty := rawPenalty / 10.0
	if penalty > 1.0 {
		penalty = 1.0
	}
	quality := 1.0 - penalty
	if quality < 0 {
		quality = 0
	}

	state["quality_score"] = quality
	return map[string]any{"quality_score": quality}, nil
}

// DefaultGraphName is the registry label of the seeded example graph.
const DefaultGraphName = "code-review"

// DefaultGraph returns the definition of the example code-review
// pipeline: extract -> complexity -> issues -> improve -> score, with a
// back-edge from score to improve until quality_score clears 0.8.
func DefaultGraph() (nodes map[string]domain.NodeConfig, edges map[string]domain.EdgeConfig, entrypoint string) {
	gte := 0.8

	nodes = map[string]domain.NodeConfig{
		"extract":    {Tool: "extract_functions"},
		"complexity": {Tool: "check_complexity"},
		"issues":     {Tool: "detect_issues"},
		"improve":    {Tool: "suggest_improvements"},
		"score":      {Tool: "evaluate_quality"},
	}
	edges = map[string]domain.EdgeConfig{
		"extract":    {Next: "complexity"},
		"complexity": {Next: "issues"},
		"issues":     {Next: "improve"},
		"improve":    {Next: "score"},
		// Loop: quality_score < 0.8 goes back to improve; a met
		// condition has no if_true and no next, so the run stops.
		"score": {ConditionKey: "quality_score", Gte: &gte, IfFalse: "improve"},
	}
	return nodes, edges, "extract"
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

func sliceLen(v any) int {
	switch s := v.(type) {
	case []any:
		return len(s)
	case []string:
		return len(s)
	default:
		return 0
	}
}
