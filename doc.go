/*
Package sluice is a minimal workflow interpreter: it executes
declaratively-defined directed graphs of named steps ("tools") against a
mutable shared state bag, with conditional branching, back-edges
(loops), and a hard step cap that guarantees termination.

Define a graph once, run it many times with different inputs, and
inspect the resulting state and execution trace.

# Concept

A graph is a map of named nodes, each referencing a tool by name, plus
at most one outgoing edge per node. An edge names a default successor
and may carry a condition: a state key checked against gte/lt
thresholds that picks between an if_true and if_false branch. Tool
names resolve lazily at run time through a registry the host populates
at setup.

A run walks the graph from its entrypoint, invoking each node's tool
against the live state, merging returned patches, and routing until no
successor remains (COMPLETED), a tool fails (FAILED, fail-fast), or the
step cap trips (FAILED with a trailing warning). Execution-time
failures are recorded on the run itself; the call returns normally and
callers inspect the status.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/sluice"
		"github.com/aretw0/sluice/pkg/domain"
	)

	func main() {
		eng := sluice.New()
		eng.Registry().Register("greet", func(ctx context.Context, state map[string]any) (map[string]any, error) {
			name, _ := state["name"].(string)
			return map[string]any{"greeting": "hello " + name}, nil
		})

		ctx := context.Background()
		graph, err := eng.CreateGraph(ctx,
			map[string]domain.NodeConfig{"greet": {Tool: "greet"}},
			nil,
			"greet",
		)
		if err != nil {
			log.Fatal(err)
		}

		run, err := eng.RunGraph(ctx, graph.ID, map[string]any{"name": "world"})
		if err != nil {
			log.Fatal(err)
		}
		log.Println(run.Status, run.State["greeting"])
	}

Stores default to in-process maps; inject the redis adapters (or your
own ports implementations) through options for anything longer-lived.
*/
package sluice
