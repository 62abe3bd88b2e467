package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/sluice"
	"github.com/aretw0/sluice/internal/config"
	"github.com/aretw0/sluice/internal/logging"
	httpAdapter "github.com/aretw0/sluice/pkg/adapters/http"
	redisAdapter "github.com/aretw0/sluice/pkg/adapters/redis"
	"github.com/aretw0/sluice/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the Sluice engine in server mode, exposing a JSON API over HTTP with the builtin code-review graph pre-seeded.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if addr != "" {
			cfg.Server.Addr = addr
		}

		logger := logging.New(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)

		promReg := prometheus.NewRegistry()
		metrics := observability.NewMetrics(promReg)

		opts := []sluice.Option{
			sluice.WithLogger(logger),
			sluice.WithMaxSteps(cfg.Engine.MaxSteps),
			sluice.WithLifecycleHooks(metrics.Hooks()),
		}

		var store *redisAdapter.Store
		switch cfg.Store.Backend {
		case "redis":
			store = redisAdapter.New(
				cfg.Store.Redis.Addr,
				cfg.Store.Redis.Password,
				cfg.Store.Redis.DB,
				redisAdapter.WithPrefix(cfg.Store.Redis.Prefix),
			)
			opts = append(opts,
				sluice.WithGraphStore(store.Graphs()),
				sluice.WithRunStore(store.Runs()),
			)
			logger.Info("using redis store", "addr", cfg.Store.Redis.Addr)
		case "memory", "":
			// Defaults inside sluice.New.
		default:
			fmt.Printf("Unknown store backend: %q\n", cfg.Store.Backend)
			os.Exit(1)
		}

		engine := sluice.New(opts...)
		if store != nil {
			defer store.Close()
		}

		graphID, err := engine.SeedDefaultGraph(cmd.Context())
		if err != nil {
			fmt.Printf("Error seeding default graph: %v\n", err)
			os.Exit(1)
		}
		logger.Info("default graph ready", "graph_id", graphID)

		handler := httpAdapter.NewHandler(engine,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithVersion(sluice.Version),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})),
		)

		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Sluice Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Sluice Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Listen address, overrides config (e.g. :8080)")
}
