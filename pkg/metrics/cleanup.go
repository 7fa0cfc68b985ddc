package metrics

import "github.com/prometheus/client_golang/prometheus"

// CleanupMetrics tracks the interaction cleanup pipeline.
type CleanupMetrics struct {
	rowsDeleted prometheus.Counter
	batches     *prometheus.CounterVec
	runs        *prometheus.CounterVec
}

// NewCleanupMetrics registers the cleanup metrics on the provided registerer.
func NewCleanupMetrics(reg prometheus.Registerer) *CleanupMetrics {
	if reg == nil {
		return &CleanupMetrics{}
	}
	rowsDeleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "interaction_cleanup_rows_deleted_total",
		Help: "Soft-deleted interaction rows physically removed.",
	})
	batches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "interaction_cleanup_batches_total",
		Help: "Cleanup batch attempts by outcome.",
	}, []string{"outcome"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "interaction_cleanup_runs_total",
		Help: "Cleanup runs by terminal state.",
	}, []string{"state"})
	reg.MustRegister(rowsDeleted, batches, runs)
	return &CleanupMetrics{
		rowsDeleted: rowsDeleted,
		batches:     batches,
		runs:        runs,
	}
}

// AddDeleted adds n removed rows.
func (c *CleanupMetrics) AddDeleted(n int64) {
	if c == nil || c.rowsDeleted == nil || n <= 0 {
		return
	}
	c.rowsDeleted.Add(float64(n))
}

// IncBatch counts one batch attempt with the given outcome (success, failure).
func (c *CleanupMetrics) IncBatch(outcome string) {
	if c == nil || c.batches == nil {
		return
	}
	c.batches.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncRun counts one finished run in the given terminal state.
func (c *CleanupMetrics) IncRun(state string) {
	if c == nil || c.runs == nil {
		return
	}
	c.runs.WithLabelValues(normalizeLabel(state)).Inc()
}
