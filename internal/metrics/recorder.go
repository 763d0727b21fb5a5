// Package metrics records planner activity as Prometheus metrics.
//
// The CLI is short-lived, so metrics are not served over HTTP. Instead the
// registry is written to a node_exporter textfile after each command.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder observes engine operations.
type Recorder interface {
	// ObservePrefill records one prefill run.
	ObservePrefill(placements int, unplacedQty float64)

	// ObserveMove records a move attempt. rule is empty for accepted moves.
	ObserveMove(accepted bool, rule string)

	// ObserveDuration records how long an operation took.
	ObserveDuration(operation string, d time.Duration)
}

// Noop discards every observation.
type Noop struct{}

func (Noop) ObservePrefill(int, float64)           {}
func (Noop) ObserveMove(bool, string)              {}
func (Noop) ObserveDuration(string, time.Duration) {}

// PrometheusRecorder implements Recorder on its own registry.
type PrometheusRecorder struct {
	registry   *prometheus.Registry
	prefills   prometheus.Counter
	placements prometheus.Counter
	unplaced   prometheus.Counter
	moves      *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a recorder with all smokeplan metrics registered.
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		prefills: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smokeplan_prefill_total",
			Help: "Prefill runs.",
		}),
		placements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smokeplan_placements_total",
			Help: "Items placed by prefill.",
		}),
		unplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smokeplan_unplaced_quantity_total",
			Help: "Quantity prefill could not place.",
		}),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smokeplan_move_total",
			Help: "Move attempts by result and rejecting rule.",
		}, []string{"result", "rule"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "smokeplan_operation_duration_seconds",
			Help:    "Engine operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	r.registry.MustRegister(r.prefills, r.placements, r.unplaced, r.moves, r.durations)
	return r
}

// Registry exposes the underlying registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObservePrefill records one prefill run.
func (r *PrometheusRecorder) ObservePrefill(placements int, unplacedQty float64) {
	r.prefills.Inc()
	r.placements.Add(float64(placements))
	if unplacedQty > 0 {
		r.unplaced.Add(unplacedQty)
	}
}

// ObserveMove records a move attempt.
func (r *PrometheusRecorder) ObserveMove(accepted bool, rule string) {
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	r.moves.WithLabelValues(result, rule).Inc()
}

// ObserveDuration records how long an operation took.
func (r *PrometheusRecorder) ObserveDuration(operation string, d time.Duration) {
	if operation == "" {
		return
	}
	r.durations.WithLabelValues(operation).Observe(d.Seconds())
}

// WriteTextfile writes the registry in the Prometheus text format to path.
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write textfile: %w", err)
	}
	return nil
}
