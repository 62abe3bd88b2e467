package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sluice/pkg/domain"
)

// RunGraphStoreContract verifies that a GraphStore implementation
// adheres to the interface contract.
func RunGraphStoreContract(t *testing.T, store GraphStore) {
	ctx := context.Background()

	newGraph := func(t *testing.T) *domain.Graph {
		g, err := domain.NewGraph(
			map[string]domain.NodeConfig{"start": {Tool: "noop"}},
			map[string]domain.EdgeConfig{},
			"start",
		)
		require.NoError(t, err)
		return g
	}

	t.Run("Put and Get", func(t *testing.T) {
		graph := newGraph(t)
		require.NoError(t, store.Put(ctx, graph))

		loaded, err := store.Get(ctx, graph.ID)
		require.NoError(t, err)
		assert.Equal(t, graph.ID, loaded.ID)
		assert.Equal(t, "start", loaded.Entrypoint)
		assert.Equal(t, "noop", loaded.Nodes["start"].Tool)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "no-such-graph")
		assert.ErrorIs(t, err, domain.ErrGraphNotFound)
	})

	t.Run("Identity Not Content-Addressed", func(t *testing.T) {
		a, b := newGraph(t), newGraph(t)
		require.NoError(t, store.Put(ctx, a))
		require.NoError(t, store.Put(ctx, b))
		assert.NotEqual(t, a.ID, b.ID)

		loadedA, err := store.Get(ctx, a.ID)
		require.NoError(t, err)
		loadedB, err := store.Get(ctx, b.ID)
		require.NoError(t, err)
		assert.NotEqual(t, loadedA.ID, loadedB.ID)
	})
}

// RunRunStoreContract verifies that a RunStore implementation adheres
// to the interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()

	graph, err := domain.NewGraph(
		map[string]domain.NodeConfig{"start": {Tool: "noop"}},
		nil,
		"start",
	)
	require.NoError(t, err)

	t.Run("Save and Get", func(t *testing.T) {
		run := domain.NewRun(graph, map[string]any{"foo": "bar"})
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Get(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ID, loaded.ID)
		assert.Equal(t, graph.ID, loaded.GraphID)
		assert.Equal(t, domain.StatusPending, loaded.Status)
		assert.Equal(t, "bar", loaded.State["foo"])
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		run := domain.NewRun(graph, nil)
		require.NoError(t, store.Save(ctx, run))

		run.Status = domain.StatusRunning
		run.Log = append(run.Log, domain.StepEntry(0, "start", map[string]any{}, map[string]any{"x": 1}))
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Get(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRunning, loaded.Status)
		require.Len(t, loaded.Log, 1)
		assert.True(t, loaded.Log[0].IsStep())
	})

	t.Run("Get Isolated From Later Writes", func(t *testing.T) {
		run := domain.NewRun(graph, map[string]any{"n": "one"})
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Get(ctx, run.ID)
		require.NoError(t, err)

		// Mutating the executor-owned record must not leak into the
		// previously loaded snapshot.
		run.State["n"] = "two"
		assert.Equal(t, "one", loaded.State["n"])
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "no-such-run")
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("List", func(t *testing.T) {
		run1 := domain.NewRun(graph, nil)
		run2 := domain.NewRun(graph, nil)
		require.NoError(t, store.Save(ctx, run1))
		require.NoError(t, store.Save(ctx, run2))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, run1.ID)
		assert.Contains(t, ids, run2.ID)
	})
}
