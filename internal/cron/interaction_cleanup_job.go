package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/catalog-backend/internal/interactions"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
)

const interactionCleanupJobName = "interaction-cleanup"

type interactionCleaner interface {
	Run(ctx context.Context) interactions.RunReport
}

type InteractionCleanupJobParams struct {
	Logger  *logger.Logger
	Cleaner interactionCleaner
}

func NewInteractionCleanupJob(params InteractionCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Cleaner == nil {
		return nil, fmt.Errorf("interaction cleaner required")
	}
	return &interactionCleanupJob{
		logg:    params.Logger,
		cleaner: params.Cleaner,
	}, nil
}

type interactionCleanupJob struct {
	logg    *logger.Logger
	cleaner interactionCleaner
}

func (j *interactionCleanupJob) Name() string { return interactionCleanupJobName }

// Run never fails the cycle; the cleaner reports aborted runs in its own logs
// and metrics.
func (j *interactionCleanupJob) Run(ctx context.Context) error {
	report := j.cleaner.Run(ctx)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"state":        string(report.State),
		"rows_deleted": report.Deleted,
		"batches":      report.Batches,
	})
	j.logg.Info(logCtx, "interaction cleanup job complete")
	return nil
}
