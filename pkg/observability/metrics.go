// Package observability provides the prometheus metric bundle recorded
// through the engine's lifecycle hooks.
package observability

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/sluice/pkg/domain"
)

// Metrics holds the engine's prometheus collectors.
type Metrics struct {
	RunsTotal    *prometheus.CounterVec
	NodeVisits   *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec
	RunSteps     prometheus.Histogram
}

// NewMetrics creates and registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sluice_runs_total",
				Help: "Total number of finished runs by terminal status",
			},
			[]string{"status"},
		),
		NodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sluice_node_visits_total",
				Help: "Total number of node visits",
			},
			[]string{"node"},
		),
		ToolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "sluice_tool_duration_seconds",
				Help: "Duration of tool executions",
			},
			[]string{"tool"},
		),
		RunSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sluice_run_steps",
				Help:    "Number of steps attempted per run",
				Buckets: prometheus.LinearBuckets(0, 5, 11),
			},
		),
	}
	reg.MustRegister(m.RunsTotal, m.NodeVisits, m.ToolDuration, m.RunSteps)
	return m
}

// Hooks returns lifecycle hooks that record the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			m.NodeVisits.WithLabelValues(e.Node).Inc()
		},
		OnToolReturn: func(ctx context.Context, e *domain.ToolEvent) {
			m.ToolDuration.WithLabelValues(e.Tool).Observe(e.Duration.Seconds())
		},
		OnRunEnd: func(ctx context.Context, e *domain.RunEvent) {
			m.RunsTotal.WithLabelValues(strings.ToLower(string(e.Status))).Inc()
			m.RunSteps.Observe(float64(e.Steps))
		},
	}
}
