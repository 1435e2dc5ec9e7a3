// Package metrics holds the Prometheus collectors tuifit records into.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tuifit"

// Manager owns a private Prometheus registry and the collectors tuifit records into.
type Manager struct {
	Registry *prometheus.Registry

	// counters
	CounterWrites            *prometheus.CounterVec
	CounterWriteFailures     *prometheus.CounterVec
	CounterReadFailures      *prometheus.CounterVec
	CounterSessionsCompleted prometheus.Counter
	CounterExercisesFinished prometheus.Counter

	// histograms
	HistWriteDuration prometheus.Histogram
}

// NewManager registers every collector on a fresh registry.
func NewManager() *Manager {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Manager{
		Registry: reg,
		CounterWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "writes",
			Help:      "The total number of records written to the backend",
		}, []string{"key"}),
		CounterWriteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "write_failures",
			Help:      "The total number of failed backend writes",
		}, []string{"key"}),
		CounterReadFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "read_failures",
			Help:      "The total number of failed or undecodable backend reads",
		}, []string{"key"}),
		CounterSessionsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "completed",
			Help:      "The total number of completed workout sessions",
		}),
		CounterExercisesFinished: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "exercises_finished",
			Help:      "The total number of exercises marked done",
		}),
		HistWriteDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "write_duration_seconds",
			Help:      "Backend write latency",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Manager) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
