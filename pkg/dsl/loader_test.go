package dsl_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sluice/pkg/dsl"
)

const sample = `
name: code-review
entrypoint: extract
nodes:
  extract:
    tool: extract_functions
  score:
    tool: evaluate_quality
edges:
  extract:
    next: score
  score:
    condition_key: quality_score
    gte: 0.8
    if_false: extract
`

func TestParse(t *testing.T) {
	gf, err := dsl.Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "code-review", gf.Name)
	assert.Equal(t, "extract", gf.Entrypoint)
	assert.Equal(t, "extract_functions", gf.Nodes["extract"].Tool)

	edge := gf.Edges["score"]
	assert.Equal(t, "quality_score", edge.ConditionKey)
	require.NotNil(t, edge.Gte)
	assert.Equal(t, 0.8, *edge.Gte)
	assert.Equal(t, "extract", edge.IfFalse)
	assert.Nil(t, edge.Lt)
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	bad := `
entrypoint: a
nodes:
  a:
    tool: noop
edges:
  a:
    nxet: b
`
	_, err := dsl.Parse([]byte(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid graph definition")
}

func TestParse_MissingEntrypoint(t *testing.T) {
	_, err := dsl.Parse([]byte("nodes:\n  a:\n    tool: noop\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entrypoint")
}

func TestLoad_AndGraphIdentity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	gf, err := dsl.Load(path)
	require.NoError(t, err)

	// Two graphs from the same file get different identities.
	a, err := gf.Graph()
	require.NoError(t, err)
	b, err := gf.Graph()
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestLoad_EntrypointMustExist(t *testing.T) {
	gf, err := dsl.Parse([]byte("entrypoint: ghost\nnodes:\n  a:\n    tool: noop\n"))
	require.NoError(t, err)

	_, err = gf.Graph()
	assert.Error(t, err)
}
