package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes application-level Prometheus metrics.
type Recorder struct {
	suggestionsComputed prometheus.Histogram
	suggestionsApplied  *prometheus.CounterVec
	portfolioValue      prometheus.Gauge
	jobRuns             *prometheus.CounterVec
	jobErrors           *prometheus.CounterVec
}

// New creates a recorder registered on the default Prometheus registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered on the given registry.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate
// registration panics.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		suggestionsComputed: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "advisor_suggestions_per_computation",
				Help:    "Number of rebalancing suggestions produced per engine run",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
			},
		),
		suggestionsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_suggestions_applied_total",
				Help: "Total number of suggestions applied",
			},
			[]string{"action"},
		),
		portfolioValue: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "advisor_portfolio_value",
				Help: "Last computed total portfolio value",
			},
		),
		jobRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_job_runs_total",
				Help: "Total number of background job runs",
			},
			[]string{"job"},
		),
		jobErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "advisor_job_errors_total",
				Help: "Total number of background job failures",
			},
			[]string{"job"},
		),
	}
}

// RecordSuggestionsComputed records the size of one engine run's output.
func (r *Recorder) RecordSuggestionsComputed(n int) {
	r.suggestionsComputed.Observe(float64(n))
}

// RecordSuggestionApplied records one applied suggestion by action.
func (r *Recorder) RecordSuggestionApplied(action string) {
	r.suggestionsApplied.WithLabelValues(action).Inc()
}

// RecordPortfolioValue records the last computed total portfolio value.
func (r *Recorder) RecordPortfolioValue(value float64) {
	r.portfolioValue.Set(value)
}

// RecordJobRun records one run of a background job.
func (r *Recorder) RecordJobRun(job string) {
	r.jobRuns.WithLabelValues(job).Inc()
}

// RecordJobError records one background job failure.
func (r *Recorder) RecordJobError(job string) {
	r.jobErrors.WithLabelValues(job).Inc()
}
