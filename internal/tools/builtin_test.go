package tools_test

import (
	"context"
	"math"
	"testing"

	"github.com/aretw0/sluice/internal/tools"
	"github.com/aretw0/sluice/pkg/registry"
)

func TestExtractFunctions(t *testing.T) {
	state := map[string]any{"code": "def foo():\n    pass\n\ndef bar(x):\n    return x\n"}

	patch, err := tools.ExtractFunctions(context.Background(), state)
	if err != nil {
		t.Fatal(err)
	}

	functions, ok := patch["functions"].([]any)
	if !ok {
		t.Fatalf("Expected []any, got %T", patch["functions"])
	}
	if len(functions) != 2 || functions[0] != "foo" || functions[1] != "bar" {
		t.Errorf("Unexpected functions: %v", functions)
	}
}

func TestExtractFunctions_NoCode(t *testing.T) {
	patch, err := tools.ExtractFunctions(context.Background(), map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if len(patch["functions"].([]any)) != 0 {
		t.Errorf("Expected no functions, got %v", patch["functions"])
	}
}

func TestCheckComplexity(t *testing.T) {
	patch, err := tools.CheckComplexity(context.Background(), map[string]any{
		"functions": []any{"a", "b", "c"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if patch["complexity_score"] != 3.0 {
		t.Errorf("Expected 3.0, got %v", patch["complexity_score"])
	}
}

func TestDetectIssues(t *testing.T) {
	patch, err := tools.DetectIssues(context.Background(), map[string]any{
		"code": "# TODO fix this\nprint(x)\n",
	})
	if err != nil {
		t.Fatal(err)
	}
	if patch["issue_count"] != 2.0 {
		t.Errorf("Expected 2 issues, got %v", patch["issue_count"])
	}

	patch, err = tools.DetectIssues(context.Background(), map[string]any{"code": "def clean(): pass"})
	if err != nil {
		t.Fatal(err)
	}
	if patch["issue_count"] != 0.0 {
		t.Errorf("Expected 0 issues, got %v", patch["issue_count"])
	}
}

func TestSuggestImprovements(t *testing.T) {
	cases := []struct {
		name  string
		state map[string]any
		want  int
	}{
		{"complex and buggy", map[string]any{"complexity_score": 6.0, "issue_count": 1.0}, 2},
		{"clean", map[string]any{"complexity_score": 0.0, "issue_count": 0.0}, 1},
		{"empty state", map[string]any{}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			patch, err := tools.SuggestImprovements(context.Background(), tc.state)
			if err != nil {
				t.Fatal(err)
			}
			if got := len(patch["suggestions"].([]any)); got != tc.want {
				t.Errorf("Expected %d suggestions, got %d", tc.want, got)
			}
		})
	}
}

func TestEvaluateQuality(t *testing.T) {
	state := map[string]any{"issue_count": 0.0, "complexity_score": 2.0}

	patch, err := tools.EvaluateQuality(context.Background(), state)
	if err != nil {
		t.Fatal(err)
	}

	// penalty = (0 + 2/10) / 10 = 0.02
	want := 0.98
	got, ok := patch["quality_score"].(float64)
	if !ok || math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected %v, got %v", want, patch["quality_score"])
	}
	// Also written in place.
	if state["quality_score"] != patch["quality_score"] {
		t.Errorf("Expected in-place write, got %v", state["quality_score"])
	}
}

func TestEvaluateQuality_Clamped(t *testing.T) {
	patch, err := tools.EvaluateQuality(context.Background(), map[string]any{
		"issue_count": 50.0, "complexity_score": 100.0,
	})
	if err != nil {
		t.Fatal(err)
	}
	if patch["quality_score"] != 0.0 {
		t.Errorf("Expected clamp to 0, got %v", patch["quality_score"])
	}
}

func TestRegister(t *testing.T) {
	reg := registry.New()
	tools.Register(reg)

	want := []string{
		"check_complexity",
		"detect_issues",
		"evaluate_quality",
		"extract_functions",
		"suggest_improvements",
	}
	got := reg.Names()
	if len(got) != len(want) {
		t.Fatalf("Expected %d tools, got %v", len(want), got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("Expected %s at %d, got %s", name, i, got[i])
		}
	}
}

func TestDefaultGraph(t *testing.T) {
	nodes, edges, entrypoint := tools.DefaultGraph()

	if entrypoint != "extract" {
		t.Errorf("Expected extract entrypoint, got %s", entrypoint)
	}
	if len(nodes) != 5 {
		t.Errorf("Expected 5 nodes, got %d", len(nodes))
	}

	score, ok := edges["score"]
	if !ok {
		t.Fatal("Expected scoring edge")
	}
	if score.ConditionKey != "quality_score" || score.Gte == nil || *score.Gte != 0.8 {
		t.Errorf("Unexpected scoring condition: %+v", score)
	}
	if score.IfFalse != "improve" || score.IfTrue != "" || score.Next != "" {
		t.Errorf("Unexpected scoring routing: %+v", score)
	}
}
