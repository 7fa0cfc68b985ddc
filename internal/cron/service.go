package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/metrics"
)

const (
	defaultInterval    = 24 * time.Hour
	lockReleaseTimeout = 5 * time.Second
)

// ServiceParams configure the cron service. Schedule takes precedence over
// Interval when both are set.
type ServiceParams struct {
	Logger     *logger.Logger
	Registry   *Registry
	Lock       Lock
	Metrics    *metrics.CronJobMetrics
	Interval   time.Duration
	Schedule   Schedule
	RunOnStart bool
	Now        func() time.Time
}

// Service executes registered cron jobs on a schedule.
type Service struct {
	logg       *logger.Logger
	registry   *Registry
	lock       Lock
	metrics    *metrics.CronJobMetrics
	schedule   Schedule
	runOnStart bool
	now        func() time.Time
}

// NewService builds a cron service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	schedule := params.Schedule
	if schedule == nil {
		schedule = IntervalSchedule(params.Interval)
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		logg:       params.Logger,
		registry:   registry,
		lock:       params.Lock,
		metrics:    params.Metrics,
		schedule:   schedule,
		runOnStart: params.RunOnStart,
		now:        now,
	}, nil
}

// Run starts the cron loop until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.runOnStart {
		if err := s.runCycle(ctx); err != nil {
			s.logg.Error(ctx, "scheduled run failed", err)
		}
	}

	for {
		next := s.schedule.Next(s.now())
		wait := next.Sub(s.now())
		if wait < 0 {
			wait = 0
		}
		s.logg.Info(s.logg.WithField(ctx, "next_run_at", next.UTC().Format(time.RFC3339)), "cron cycle scheduled")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logg.Info(ctx, "cron service context canceled")
			return ctx.Err()
		case <-timer.C:
			if err := s.runCycle(ctx); err != nil {
				s.logg.Error(ctx, "scheduled run failed", err)
			}
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.metrics.IncLockSkipped()
		s.logg.Info(ctx, "another cron instance is running; skipping this cycle")
		return nil
	}
	defer func() {
		// release even when shutdown canceled ctx, or the lock lingers for its TTL
		relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lockReleaseTimeout)
		defer cancel()
		if relErr := s.lock.Release(relCtx); relErr != nil {
			s.logg.Error(ctx, "failed to release cron lock", relErr)
		}
	}()

	s.logg.Info(ctx, "scheduled run starting")
	for _, job := range s.registry.Jobs() {
		if ctx.Err() != nil {
			break
		}
		s.runJob(ctx, job)
	}
	s.logg.Info(ctx, "scheduled run complete")
	return nil
}

func (s *Service) runJob(ctx context.Context, job Job) {
	jobCtx := s.logg.WithJob(ctx, job.Name())
	s.logg.Info(jobCtx, "job start")
	start := s.now()
	err := job.Run(jobCtx)
	finished := s.now()
	took := finished.Sub(start)
	s.metrics.ObserveRun(job.Name(), finished, took, err)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", took.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "job failed", err)
		return
	}
	s.logg.Info(jobCtx, "job completed")
}
