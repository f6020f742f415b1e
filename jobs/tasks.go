package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSummarySync snapshots daily statistics for every business.
	TaskSummarySync = "summary:sync"
	// TaskEventsPrune deletes processed webhook event keys past retention.
	TaskEventsPrune = "events:prune"
)

// Day selectors accepted by SummarySyncPayload.
const (
	DayToday     = "today"
	DayYesterday = "yesterday"
)

// SummarySyncPayload selects the day to snapshot: DayToday, DayYesterday or a YYYY-MM-DD date.
type SummarySyncPayload struct {
	Day string `json:"day"`
}

// NewSummarySyncTask constructs an Asynq task for the summary sync.
func NewSummarySyncTask(day string) (*asynq.Task, error) {
	if day == "" {
		day = DayYesterday
	}
	body, err := json.Marshal(SummarySyncPayload{Day: day})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSummarySync, body, asynq.Queue(QueueDefault)), nil
}

// EventsPrunePayload carries the retention window in days; zero uses the default.
type EventsPrunePayload struct {
	RetentionDays int `json:"retentionDays"`
}

// NewEventsPruneTask constructs an Asynq task pruning processed event keys.
func NewEventsPruneTask(retentionDays int) (*asynq.Task, error) {
	body, err := json.Marshal(EventsPrunePayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEventsPrune, body, asynq.Queue(QueueDefault)), nil
}
