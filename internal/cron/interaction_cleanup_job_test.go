package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/angelmondragon/catalog-backend/internal/interactions"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

type stubCleaner struct {
	report interactions.RunReport
	runs   int
}

func (s *stubCleaner) Run(context.Context) interactions.RunReport {
	s.runs++
	return s.report
}

func TestInteractionCleanupJobSwallowsAbortedRuns(t *testing.T) {
	cleaner := &stubCleaner{report: interactions.RunReport{State: interactions.RunAborted, Err: errors.New("db down")}}
	job, err := NewInteractionCleanupJob(InteractionCleanupJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard}),
		Cleaner: cleaner,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if job.Name() != "interaction-cleanup" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("expected aborted run to be swallowed, got %v", err)
	}
	if cleaner.runs != 1 {
		t.Fatalf("expected cleaner to run once, ran %d", cleaner.runs)
	}
}

func TestNewInteractionCleanupJobValidatesParams(t *testing.T) {
	if _, err := NewInteractionCleanupJob(InteractionCleanupJobParams{Cleaner: &stubCleaner{}}); err == nil {
		t.Fatal("expected logger error")
	}
	logg := logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
	if _, err := NewInteractionCleanupJob(InteractionCleanupJobParams{Logger: logg}); err == nil {
		t.Fatal("expected cleaner error")
	}
}
