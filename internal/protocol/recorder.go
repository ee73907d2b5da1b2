package protocol

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels a handled request.
type Outcome string

// Outcomes of a request.
const (
	OutcomeSuccess Outcome = "success"
	OutcomeIgnored Outcome = "ignored"
	OutcomeError   Outcome = "error"
	OutcomePanic   Outcome = "plugin-panic"
)

// DurationRecorder receives the wall-clock time of every handled request.
type DurationRecorder interface {
	RecordDuration(elapsed time.Duration, outcome Outcome)
}

// NopRecorder discards durations.
type NopRecorder struct{}

// RecordDuration does nothing.
func (NopRecorder) RecordDuration(time.Duration, Outcome) {}

// LogRecorder logs each duration.
type LogRecorder struct {
	Logger *slog.Logger
	Level  slog.Level
}

// RecordDuration logs the elapsed time and outcome.
func (r LogRecorder) RecordDuration(elapsed time.Duration, outcome Outcome) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(context.Background(), r.Level, "format request handled", "elapsed", elapsed, "outcome", string(outcome))
}

// MultiRecorder fans durations out to several recorders.
type MultiRecorder []DurationRecorder

// RecordDuration forwards to every recorder.
func (m MultiRecorder) RecordDuration(elapsed time.Duration, outcome Outcome) {
	for _, r := range m {
		r.RecordDuration(elapsed, outcome)
	}
}

// DefaultLatencyBuckets are the histogram buckets, in seconds.
var DefaultLatencyBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// MetricsRecorder exports request durations as Prometheus metrics on its own
// registry.
type MetricsRecorder struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewMetricsRecorder creates a MetricsRecorder. A nil registry creates a new
// one.
func NewMetricsRecorder(registry *prometheus.Registry) *MetricsRecorder {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &MetricsRecorder{
		registry: registry,
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "pyfmt",
				Subsystem: "protocol",
				Name:      "request_duration_seconds",
				Help:      "Time spent handling a format request in seconds",
				Buckets:   DefaultLatencyBuckets,
			},
			[]string{"outcome"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pyfmt",
				Subsystem: "protocol",
				Name:      "requests_total",
				Help:      "Total number of format requests",
			},
			[]string{"outcome"},
		),
	}
	registry.MustRegister(m.duration, m.requests)
	return m
}

// RecordDuration observes one request.
func (m *MetricsRecorder) RecordDuration(elapsed time.Duration, outcome Outcome) {
	m.duration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
	m.requests.WithLabelValues(string(outcome)).Inc()
}

// Registry returns the registry the metrics are registered on.
func (m *MetricsRecorder) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler serving the metrics.
func (m *MetricsRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
