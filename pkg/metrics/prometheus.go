package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cacheLookups *prometheus.CounterVec
	sourceErrors *prometheus.CounterVec
	seriesRows   *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a recorder registered on the default registry.
func New() *Recorder {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates a recorder registered on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "priceboard_cache_lookups_total",
				Help: "Series cache lookups by result",
			},
			[]string{"result"},
		),
		sourceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "priceboard_source_errors_total",
				Help: "Failed retrieval attempts by pathway",
			},
			[]string{"source"},
		),
		seriesRows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "priceboard_series_rows",
				Help: "Rows in the most recently loaded series for a ticker",
			},
			[]string{"ticker"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "priceboard_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCacheHit counts a lookup served from cache.
func (r *Recorder) RecordCacheHit() {
	r.cacheLookups.WithLabelValues("hit").Inc()
}

// RecordCacheMiss counts a lookup that needed a load.
func (r *Recorder) RecordCacheMiss() {
	r.cacheLookups.WithLabelValues("miss").Inc()
}

// RecordSourceError records a failed pathway attempt.
func (r *Recorder) RecordSourceError(source string) {
	r.sourceErrors.WithLabelValues(source).Inc()
}

// RecordRows records the row count of a freshly loaded series.
func (r *Recorder) RecordRows(ticker string, rows int) {
	r.seriesRows.WithLabelValues(ticker).Set(float64(rows))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
