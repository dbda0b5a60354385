// Package metrics records decomposition runs with Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements mstl.Recorder using Prometheus.
type Recorder struct {
	runs     *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	points   prometheus.Histogram
}

// New creates a recorder whose collectors are registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mstl_decompositions_total",
				Help: "Total number of completed decompositions",
			},
			[]string{"branch"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mstl_failures_total",
				Help: "Total number of failed decompositions",
			},
			[]string{"reason"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mstl_decomposition_duration_seconds",
				Help:    "Duration of decompositions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"branch", "periods"},
		),
		points: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mstl_series_length",
				Help:    "Number of observations per decomposed series",
				Buckets: prometheus.ExponentialBuckets(16, 4, 8),
			},
		),
	}
}

// ObserveDecomposition records a completed decomposition.
func (r *Recorder) ObserveDecomposition(branch string, n, periods int, d time.Duration) {
	r.runs.WithLabelValues(branch).Inc()
	r.duration.WithLabelValues(branch, periodLabel(periods)).Observe(d.Seconds())
	r.points.Observe(float64(n))
}

// RecordFailure records a failed decomposition.
func (r *Recorder) RecordFailure(reason string) {
	r.failures.WithLabelValues(reason).Inc()
}

// WriteTextfile writes everything gathered by g to path in the text
// exposition format, for collection by the node exporter.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}

// periodLabel keeps label cardinality bounded.
func periodLabel(periods int) string {
	switch {
	case periods <= 0:
		return "0"
	case periods == 1:
		return "1"
	case periods == 2:
		return "2"
	default:
		return "3+"
	}
}
