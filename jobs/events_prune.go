package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/stockbook/stockbook/internal/jobs"
)

// DefaultEventRetentionDays bounds how long webhook event keys are kept for dedupe.
const DefaultEventRetentionDays = 30

// EventPruner removes processed event keys older than the cutoff.
type EventPruner interface {
	Cleanup(ctx context.Context, olderThan time.Duration) error
}

// EventsPruneJob trims the processed event table.
type EventsPruneJob struct {
	Pruner  EventPruner
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewEventsPruneJob constructs the job handler.
func NewEventsPruneJob(pruner EventPruner, logger *slog.Logger, metrics *jobmetrics.Metrics) *EventsPruneJob {
	return &EventsPruneJob{Pruner: pruner, Logger: logger, Metrics: metrics}
}

// Handle executes the prune.
func (j *EventsPruneJob) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.Pruner == nil {
		return errors.New("events prune: dependencies not configured")
	}
	var payload EventsPrunePayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("events prune: decode payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	days := payload.RetentionDays
	if days <= 0 {
		days = DefaultEventRetentionDays
	}

	tracker := j.Metrics.Track(TaskEventsPrune)
	if err := j.Pruner.Cleanup(ctx, time.Duration(days)*24*time.Hour); err != nil {
		if j.Logger != nil {
			j.Logger.Error("events prune", slog.Int("retention_days", days), slog.Any("error", err))
		}
		return tracker.End(err)
	}
	return tracker.End(nil)
}
