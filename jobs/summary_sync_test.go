package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/stockbook/stockbook/internal/jobs"
	"github.com/stockbook/stockbook/internal/summary"
)

type fakeSyncer struct {
	days []time.Time
	err  error
}

func (f *fakeSyncer) SyncAll(ctx context.Context, day time.Time) (summary.Report, error) {
	f.days = append(f.days, day)
	if f.err != nil {
		return summary.Report{}, f.err
	}
	return summary.Report{Day: day.Format(time.DateOnly), Businesses: 2, Synced: 2}, nil
}

func newJob(syncer SummarySyncer) *SummarySyncJob {
	job := NewSummarySyncJob(syncer, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
	job.clock = func() time.Time { return time.Date(2024, 5, 10, 0, 5, 0, 0, time.UTC) }
	return job
}

func TestNewSummarySyncTaskDefaultsToYesterday(t *testing.T) {
	task, err := NewSummarySyncTask("")
	require.NoError(t, err)
	require.Equal(t, TaskSummarySync, task.Type())

	var payload SummarySyncPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, DayYesterday, payload.Day)
}

func TestSummarySyncJobResolvesDay(t *testing.T) {
	cases := map[string]time.Time{
		DayYesterday: time.Date(2024, 5, 9, 0, 5, 0, 0, time.UTC),
		DayToday:     time.Date(2024, 5, 10, 0, 5, 0, 0, time.UTC),
		"2024-02-29": time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			syncer := &fakeSyncer{}
			task, err := NewSummarySyncTask(raw)
			require.NoError(t, err)

			require.NoError(t, newJob(syncer).Handle(context.Background(), task))
			require.Len(t, syncer.days, 1)
			require.True(t, want.Equal(syncer.days[0]))
		})
	}
}

func TestSummarySyncJobSkipsRetryOnBadPayload(t *testing.T) {
	syncer := &fakeSyncer{}
	job := newJob(syncer)

	err := job.Handle(context.Background(), asynq.NewTask(TaskSummarySync, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)

	task, _ := NewSummarySyncTask("10/05/2024")
	err = job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Empty(t, syncer.days)
}

func TestSummarySyncJobTreatsRunningSyncAsDone(t *testing.T) {
	task, _ := NewSummarySyncTask(DayToday)
	require.NoError(t, newJob(&fakeSyncer{err: summary.ErrSyncInProgress}).Handle(context.Background(), task))

	boom := errors.New("redis down")
	require.ErrorIs(t, newJob(&fakeSyncer{err: boom}).Handle(context.Background(), task), boom)
}
