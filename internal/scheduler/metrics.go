package scheduler

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics captures background job health. A nil *Metrics records nothing.
type Metrics struct {
	jobRuns     *prometheus.CounterVec
	jobErrors   *prometheus.CounterVec
	jobTimeouts *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	suggestions prometheus.Gauge
	expiring    prometheus.Gauge
}

// NewMetrics creates the job metrics and registers them with registerer
// (prometheus.DefaultRegisterer when nil).
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pantrypal_scheduler_job_runs_total",
			Help: "Scheduler job runs by name.",
		}, []string{"job"}),
		jobErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pantrypal_scheduler_job_errors_total",
			Help: "Scheduler job failures by name.",
		}, []string{"job"}),
		jobTimeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pantrypal_scheduler_job_timeouts_total",
			Help: "Scheduler jobs that ran past their timeout.",
		}, []string{"job"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pantrypal_scheduler_job_duration_seconds",
			Help:    "Scheduler job latency.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"job"}),
		suggestions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pantrypal_restock_suggestions",
			Help: "Items in the latest published restock suggestion set.",
		}),
		expiring: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pantrypal_expiring_batches",
			Help: "Batches expiring within the window at the last expiry check.",
		}),
	}

	registerer.MustRegister(m.jobRuns, m.jobErrors, m.jobTimeouts, m.jobDuration, m.suggestions, m.expiring)
	return m
}

func (m *Metrics) incJobRun(job string) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
}

func (m *Metrics) incJobError(job string) {
	if m == nil {
		return
	}
	m.jobErrors.WithLabelValues(job).Inc()
}

func (m *Metrics) incJobTimeout(job string) {
	if m == nil {
		return
	}
	m.jobTimeouts.WithLabelValues(job).Inc()
}

func (m *Metrics) observeJobDuration(job string, d time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

func (m *Metrics) setSuggestions(n int) {
	if m == nil {
		return
	}
	m.suggestions.Set(float64(n))
}

func (m *Metrics) setExpiring(n int) {
	if m == nil {
		return
	}
	m.expiring.Set(float64(n))
}
