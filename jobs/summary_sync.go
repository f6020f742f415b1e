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
	"github.com/stockbook/stockbook/internal/summary"
)

// SummarySyncer describes the behaviour required to snapshot one day.
type SummarySyncer interface {
	SyncAll(ctx context.Context, day time.Time) (summary.Report, error)
}

// SummarySyncJob runs the daily summary sync from the queue.
type SummarySyncJob struct {
	Syncer  SummarySyncer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewSummarySyncJob constructs the job handler.
func NewSummarySyncJob(syncer SummarySyncer, logger *slog.Logger, metrics *jobmetrics.Metrics) *SummarySyncJob {
	return &SummarySyncJob{
		Syncer:  syncer,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the summary sync job.
func (j *SummarySyncJob) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.Syncer == nil {
		return errors.New("summary sync: dependencies not configured")
	}
	var payload SummarySyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("summary sync: decode payload: %v: %w", err, asynq.SkipRetry)
	}
	day, err := j.resolveDay(payload.Day)
	if err != nil {
		j.log().Error("resolve day", slog.String("day", payload.Day), slog.Any("error", err))
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	tracker := j.Metrics.Track(TaskSummarySync)
	report, err := j.Syncer.SyncAll(ctx, day)
	if errors.Is(err, summary.ErrSyncInProgress) {
		j.log().Info("summary sync already running", slog.String("day", day.Format(time.DateOnly)))
		return tracker.End(nil)
	}
	if err != nil {
		j.log().Error("summary sync", slog.String("day", day.Format(time.DateOnly)), slog.Any("error", err))
		return tracker.End(err)
	}
	j.Metrics.AddSummaries(report.Synced, report.Failed)
	return tracker.End(nil)
}

func (j *SummarySyncJob) resolveDay(raw string) (time.Time, error) {
	now := j.clock()
	switch raw {
	case "", DayYesterday:
		return now.AddDate(0, 0, -1), nil
	case DayToday:
		return now, nil
	}
	day, err := time.ParseInLocation(time.DateOnly, raw, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("summary sync: invalid day %q", raw)
	}
	return day, nil
}

func (j *SummarySyncJob) log() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
