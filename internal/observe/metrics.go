// Package observe exposes process-local diagnostics: Prometheus counters
// for reading-session operations and a small HTTP endpoint serving them.
package observe

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the wenyan collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	speech     *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wenyan_operations_total",
				Help: "Analysis and explanation results by outcome (ok, error, stale).",
			},
			[]string{"op", "outcome"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wenyan_backend_request_seconds",
				Help:    "Round-trip time of backend requests.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"op"},
		),
		speech: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wenyan_speech_total",
				Help: "Pronunciation attempts by outcome (ok, superseded, error).",
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(
		m.operations,
		m.latency,
		m.speech,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records one analysis or explanation result.
func (m *Metrics) Observe(op, outcome string, elapsed time.Duration) {
	m.operations.WithLabelValues(op, outcome).Inc()
	if elapsed > 0 {
		m.latency.WithLabelValues(op).Observe(elapsed.Seconds())
	}
}

// SpeechDone records the end of one utterance.
func (m *Metrics) SpeechDone(_ string, err error) {
	switch {
	case err == nil:
		m.speech.WithLabelValues("ok").Inc()
	case errors.Is(err, context.Canceled):
		m.speech.WithLabelValues("superseded").Inc()
	default:
		m.speech.WithLabelValues("error").Inc()
	}
}
