package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for decision batches. All methods are
// safe on a nil receiver so collaborators can treat metrics as optional.
type Metrics struct {
	// Verdicts by verdict and reason
	Verdicts *prometheus.CounterVec

	// Batches aborted, by domain error code
	BatchFailures *prometheus.CounterVec

	// Full batch latency including source loading
	BatchLatency prometheus.Histogram

	// Per-source load latency
	SourceLoadLatency *prometheus.HistogramVec
}

// New creates the decision metrics and registers them on reg. Pass
// prometheus.DefaultRegisterer for process-wide metrics or a fresh
// prometheus.NewRegistry() for isolated ones.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kanadia_verdicts_total",
			Help: "Total verdicts issued by verdict and reason",
		}, []string{"verdict", "reason"}),

		BatchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kanadia_batch_failures_total",
			Help: "Total decision batches aborted, by error code",
		}, []string{"code"}),

		BatchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kanadia_batch_duration_seconds",
			Help:    "Duration of a decision batch including source loading",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		SourceLoadLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kanadia_source_load_duration_seconds",
			Help:    "Duration of reading and decoding a reference source",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		}, []string{"source"}), // source: "records", "watchlist", "countries"
	}
}

// IncrementVerdict records one issued verdict.
func (m *Metrics) IncrementVerdict(verdict, reason string) {
	if m != nil {
		m.Verdicts.WithLabelValues(verdict, reason).Inc()
	}
}

// IncrementBatchFailure records an aborted batch.
func (m *Metrics) IncrementBatchFailure(code string) {
	if m != nil {
		m.BatchFailures.WithLabelValues(code).Inc()
	}
}

// ObserveBatchLatency records the total batch duration.
func (m *Metrics) ObserveBatchLatency(d time.Duration) {
	if m != nil {
		m.BatchLatency.Observe(d.Seconds())
	}
}

// ObserveSourceLoadLatency records the duration of loading one source.
func (m *Metrics) ObserveSourceLoadLatency(source string, d time.Duration) {
	if m != nil {
		m.SourceLoadLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}
