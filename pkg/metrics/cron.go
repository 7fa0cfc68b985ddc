package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CronJobMetrics records cron worker job runs and lock contention.
type CronJobMetrics struct {
	duration    *prometheus.HistogramVec
	runs        *prometheus.CounterVec
	lastSuccess *prometheus.GaugeVec
	lockSkipped prometheus.Counter
}

// NewCronJobMetrics registers the cron metrics on reg. A nil reg yields a
// recorder that drops everything.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return nil
	}
	m := &CronJobMetrics{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "cron_job_duration_seconds",
			Help: "Wall time of cron job runs.",
			// cleanup runs can take up to its four hour budget
			Buckets: []float64{1, 10, 60, 300, 900, 1800, 3600, 7200, 14400},
		}, []string{"job"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cron_job_runs_total",
			Help: "Cron job runs by result (success, failure).",
		}, []string{"job", "result"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cron_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run per job.",
		}, []string{"job"}),
		lockSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cron_cycles_lock_skipped_total",
			Help: "Cycles skipped because another worker held the lock.",
		}),
	}
	reg.MustRegister(m.duration, m.runs, m.lastSuccess, m.lockSkipped)
	return m
}

// ObserveRun records one finished job run; err decides the result label.
func (c *CronJobMetrics) ObserveRun(job string, finished time.Time, took time.Duration, err error) {
	if c == nil {
		return
	}
	job = normalizeLabel(job)
	c.duration.WithLabelValues(job).Observe(took.Seconds())
	if err != nil {
		c.runs.WithLabelValues(job, "failure").Inc()
		return
	}
	c.runs.WithLabelValues(job, "success").Inc()
	c.lastSuccess.WithLabelValues(job).Set(float64(finished.Unix()))
}

func (c *CronJobMetrics) IncLockSkipped() {
	if c == nil {
		return
	}
	c.lockSkipped.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
