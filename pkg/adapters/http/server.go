// Package http exposes the engine over a small JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/sluice/internal/logging"
	"github.com/aretw0/sluice/pkg/domain"
)

// Engine defines the interface the HTTP adapter needs from the core.
type Engine interface {
	CreateGraph(ctx context.Context, nodes map[string]domain.NodeConfig, edges map[string]domain.EdgeConfig, entrypoint string) (*domain.Graph, error)
	RunGraph(ctx context.Context, graphID string, initialState map[string]any) (*domain.Run, error)
	GetRun(ctx context.Context, runID string) (*domain.Run, error)
	ListRuns(ctx context.Context) ([]string, error)
	DefaultGraphID() string
}

// Server holds the handlers' shared dependencies.
type Server struct {
	engine  Engine
	logger  *slog.Logger
	version string
	metrics http.Handler
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets a structured logger for the handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version string reported by GET /.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		engine:  engine,
		logger:  logging.NewNop(),
		version: "unknown",
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/", server.GetInfo)
	r.Get("/health", server.GetHealth)
	r.Post("/graph/create", server.CreateGraph)
	r.Post("/graph/run", server.RunGraph)
	r.Get("/graph/state/{runID}", server.GetRunState)
	r.Get("/runs", server.ListRuns)
	if server.metrics != nil {
		r.Method(http.MethodGet, "/metrics", server.metrics)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateGraphRequest is the body of POST /graph/create.
type CreateGraphRequest struct {
	Nodes      map[string]domain.NodeConfig `json:"nodes"`
	Edges      map[string]domain.EdgeConfig `json:"edges"`
	Entrypoint string                       `json:"entrypoint"`
}

// CreateGraphResponse is the body of a successful POST /graph/create.
type CreateGraphResponse struct {
	GraphID string `json:"graph_id"`
}

// RunGraphRequest is the body of POST /graph/run.
type RunGraphRequest struct {
	GraphID      string         `json:"graph_id"`
	InitialState map[string]any `json:"initial_state"`
}

// RunGraphResponse is the body of a successful POST /graph/run. A run
// that FAILED during execution still responds 200; the status field
// carries the outcome.
type RunGraphResponse struct {
	RunID      string            `json:"run_id"`
	Status     domain.RunStatus  `json:"status"`
	FinalState map[string]any    `json:"final_state"`
	Log        []domain.LogEntry `json:"log"`
}

// CreateGraph handles the POST /graph/create request.
func (s *Server) CreateGraph(w http.ResponseWriter, r *http.Request) {
	var body CreateGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("CreateGraph: invalid request body", "error", err)
		return
	}

	graph, err := s.engine.CreateGraph(r.Context(), body.Nodes, body.Edges, body.Entrypoint)
	if err != nil {
		if errors.Is(err, domain.ErrEntrypointUnknown) {
			http.Error(w, fmt.Sprintf("Invalid graph: %v", err), http.StatusBadRequest)
			return
		}
		http.Error(w, fmt.Sprintf("Create error: %v", err), http.StatusInternalServerError)
		s.logger.Error("CreateGraph failed", "error", err)
		return
	}

	writeJSON(w, s.logger, CreateGraphResponse{GraphID: graph.ID})
}

// RunGraph handles the POST /graph/run request.
func (s *Server) RunGraph(w http.ResponseWriter, r *http.Request) {
	var body RunGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("RunGraph: invalid request body", "error", err)
		return
	}

	run, err := s.engine.RunGraph(r.Context(), body.GraphID, body.InitialState)
	if err != nil {
		if errors.Is(err, domain.ErrGraphNotFound) {
			http.Error(w, fmt.Sprintf("Graph not found: %s", body.GraphID), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Run error: %v", err), http.StatusInternalServerError)
		s.logger.Error("RunGraph failed", "error", err)
		return
	}

	writeJSON(w, s.logger, RunGraphResponse{
		RunID:      run.ID,
		Status:     run.Status,
		FinalState: run.State,
		Log:        run.Log,
	})
}

// RunStateResponse is the body of GET /graph/state/{runID}.
type RunStateResponse struct {
	RunID       string            `json:"run_id"`
	GraphID     string            `json:"graph_id"`
	State       map[string]any    `json:"state"`
	Status      domain.RunStatus  `json:"status"`
	CurrentNode string            `json:"current_node,omitempty"`
	Log         []domain.LogEntry `json:"log"`
}

// GetRunState handles the GET /graph/state/{runID} request, returning
// the full run record.
func (s *Server) GetRunState(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	run, err := s.engine.GetRun(r.Context(), runID)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			http.Error(w, fmt.Sprintf("Run not found: %s", runID), http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("State error: %v", err), http.StatusInternalServerError)
		s.logger.Error("GetRunState failed", "error", err)
		return
	}

	writeJSON(w, s.logger, RunStateResponse{
		RunID:       run.ID,
		GraphID:     run.GraphID,
		State:       run.State,
		Status:      run.Status,
		CurrentNode: run.CurrentNode,
		Log:         run.Log,
	})
}

// ListRuns handles the GET /runs request.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.engine.ListRuns(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("ListRuns failed", "error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	writeJSON(w, s.logger, map[string]any{"run_ids": ids})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET / request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"message":                      "Sluice workflow engine",
		"version":                      strings.TrimSpace(s.version),
		"default_code_review_graph_id": s.engine.DefaultGraphID(),
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
