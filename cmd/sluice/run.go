package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/sluice"
	"github.com/aretw0/sluice/internal/config"
	"github.com/aretw0/sluice/internal/logging"
	"github.com/aretw0/sluice/internal/tools"
	"github.com/aretw0/sluice/pkg/domain"
	"github.com/aretw0/sluice/pkg/dsl"
)

var runCmd = &cobra.Command{
	Use:   "run [graph.yaml]",
	Short: "Execute a graph definition once and print the run",
	Long: `Loads a YAML graph definition, runs it against the given initial
state with the builtin tools registered, and prints the finished run as
JSON. Without a graph file the builtin code-review pipeline is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		stateJSON, _ := cmd.Flags().GetString("state")

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		var initialState map[string]any
		if stateJSON != "" {
			if err := json.Unmarshal([]byte(stateJSON), &initialState); err != nil {
				return fmt.Errorf("parsing --state: %w", err)
			}
		}

		logger := logging.New(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
		engine := sluice.New(
			sluice.WithLogger(logger),
			sluice.WithMaxSteps(cfg.Engine.MaxSteps),
		)
		tools.Register(engine.Registry())

		ctx := cmd.Context()
		var graphID string
		if len(args) == 1 {
			gf, err := dsl.Load(args[0])
			if err != nil {
				return err
			}
			graph, err := engine.CreateGraph(ctx, gf.Nodes, gf.Edges, gf.Entrypoint)
			if err != nil {
				return err
			}
			graphID = graph.ID
		} else {
			graphID, err = engine.SeedDefaultGraph(ctx)
			if err != nil {
				return err
			}
		}

		run, err := engine.RunGraph(ctx, graphID, initialState)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(run); err != nil {
			return err
		}

		if run.Status != domain.StatusCompleted {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("state", "s", "", "Initial state as a JSON object")
}
