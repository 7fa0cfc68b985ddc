package interactions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/metrics"
)

// RunState is the lifecycle of a cleanup run.
type RunState string

const (
	RunIdle      RunState = "idle"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunTimedOut  RunState = "timed_out"
	RunAborted   RunState = "aborted"
	RunCanceled  RunState = "canceled"
	RunSkipped   RunState = "skipped"
)

// CleanupPolicy bounds one cleanup run.
type CleanupPolicy struct {
	BatchSize    int
	MaxDuration  time.Duration
	Pause        time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

// DefaultCleanupPolicy is the production policy.
func DefaultCleanupPolicy() CleanupPolicy {
	return CleanupPolicy{
		BatchSize:    5000,
		MaxDuration:  4 * time.Hour,
		Pause:        500 * time.Millisecond,
		MaxRetries:   3,
		RetryBackoff: time.Second,
	}
}

func (p CleanupPolicy) validate() error {
	if p.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if p.MaxDuration <= 0 {
		return fmt.Errorf("max duration must be positive")
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if p.Pause < 0 || p.RetryBackoff < 0 {
		return fmt.Errorf("pauses cannot be negative")
	}
	return nil
}

// RunReport summarises one cleanup run.
type RunReport struct {
	State    RunState
	Deleted  int64
	Batches  int
	Attempts int
	Duration time.Duration
	Err      error
}

type batchPerformer interface {
	PerformManagedBatch(ctx context.Context, batchSize int) (int64, error)
}

// CleanerParams configure a Cleaner. Now and Sleep default to the wall clock.
type CleanerParams struct {
	Batches batchPerformer
	Policy  CleanupPolicy
	Logger  *logger.Logger
	Metrics *metrics.CleanupMetrics
	Now     func() time.Time
	Sleep   func(ctx context.Context, d time.Duration) error
}

// Cleaner repeatedly runs batches until no soft-deleted rows remain, the time
// budget is spent, a batch exhausts its retries, or ctx is canceled.
type Cleaner struct {
	batches batchPerformer
	policy  CleanupPolicy
	logg    *logger.Logger
	metrics *metrics.CleanupMetrics
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error

	runMu   sync.Mutex
	stateMu sync.RWMutex
	state   RunState
	last    RunReport
}

func NewCleaner(params CleanerParams) (*Cleaner, error) {
	if params.Batches == nil {
		return nil, fmt.Errorf("batch executor required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	policy := params.Policy
	if policy == (CleanupPolicy{}) {
		policy = DefaultCleanupPolicy()
	}
	if err := policy.validate(); err != nil {
		return nil, err
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	sleep := params.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return &Cleaner{
		batches: params.Batches,
		policy:  policy,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     now,
		sleep:   sleep,
		state:   RunIdle,
	}, nil
}

// State reports whether a run is in progress.
func (c *Cleaner) State() RunState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// LastReport returns the report of the most recent finished run.
func (c *Cleaner) LastReport() RunReport {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.last
}

// Run executes one cleanup run. Batch failures end the run but are reported,
// not returned, so the trigger never fails. A call made while another run is
// in progress returns immediately with RunSkipped.
func (c *Cleaner) Run(ctx context.Context) RunReport {
	if !c.runMu.TryLock() {
		report := RunReport{State: RunSkipped}
		c.logg.Warn(ctx, "interaction cleanup already running; skipping")
		c.metrics.IncRun(string(report.State))
		return report
	}
	defer c.runMu.Unlock()

	c.setState(RunRunning)
	start := c.now()
	report := c.loop(ctx, start)
	report.Duration = c.now().Sub(start)

	c.stateMu.Lock()
	c.state = RunIdle
	c.last = report
	c.stateMu.Unlock()

	c.metrics.IncRun(string(report.State))
	c.logReport(ctx, report)
	return report
}

func (c *Cleaner) loop(ctx context.Context, start time.Time) RunReport {
	report := RunReport{State: RunRunning}
	for {
		if err := ctx.Err(); err != nil {
			report.State = RunCanceled
			report.Err = err
			return report
		}
		if c.now().Sub(start) >= c.policy.MaxDuration {
			report.State = RunTimedOut
			return report
		}

		deleted, attempts, canceled, err := c.attemptBatch(ctx)
		report.Attempts += attempts
		if canceled {
			report.State = RunCanceled
			report.Err = err
			return report
		}
		if err != nil {
			report.State = RunAborted
			report.Err = err
			return report
		}

		report.Batches++
		report.Deleted += deleted
		c.metrics.AddDeleted(deleted)
		if deleted == 0 {
			report.State = RunCompleted
			return report
		}

		if err := c.sleep(ctx, c.policy.Pause); err != nil {
			report.State = RunCanceled
			report.Err = err
			return report
		}
	}
}

// attemptBatch runs one batch with up to MaxRetries retries, waiting
// RetryBackoff between attempts.
func (c *Cleaner) attemptBatch(ctx context.Context) (deleted int64, attempts int, canceled bool, err error) {
	var errs error
	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if sleepErr := c.sleep(ctx, c.policy.RetryBackoff); sleepErr != nil {
				return 0, attempts, true, multierr.Append(errs, sleepErr)
			}
		}

		attempts++
		n, batchErr := c.batches.PerformManagedBatch(ctx, c.policy.BatchSize)
		if batchErr == nil {
			c.metrics.IncBatch("success")
			return n, attempts, false, nil
		}

		c.metrics.IncBatch("failure")
		errs = multierr.Append(errs, fmt.Errorf("attempt %d: %w", attempts, batchErr))
		if errors.Is(batchErr, context.Canceled) || ctx.Err() != nil {
			return 0, attempts, true, errs
		}
		c.logg.Warn(c.logg.WithFields(ctx, map[string]any{
			"attempt": attempts,
			"error":   batchErr.Error(),
		}), "interaction cleanup batch failed")
	}
	return 0, attempts, false, errs
}

func (c *Cleaner) setState(state RunState) {
	c.stateMu.Lock()
	c.state = state
	c.stateMu.Unlock()
}

func (c *Cleaner) logReport(ctx context.Context, report RunReport) {
	ctx = c.logg.WithFields(ctx, map[string]any{
		"state":       string(report.State),
		"deleted":     report.Deleted,
		"batches":     report.Batches,
		"attempts":    report.Attempts,
		"duration_ms": report.Duration.Milliseconds(),
	})
	switch report.State {
	case RunAborted:
		c.logg.Error(ctx, "interaction cleanup aborted", report.Err)
	case RunCanceled, RunTimedOut:
		c.logg.Warn(ctx, "interaction cleanup stopped early")
	default:
		c.logg.Info(ctx, "interaction cleanup finished")
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
