package jobs

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestHealthWithoutInspector(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/jobs", NewHandler(nil, slog.Default()).MountRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"queue":"default","pending":0,"retry":0}`, rec.Body.String())
}

func TestWorkerRunRequiresConfiguration(t *testing.T) {
	var w *Worker
	require.Error(t, w.Run(context.Background()))
}

func TestNewWorkerRejectsInvalidCronSpec(t *testing.T) {
	task, err := NewSummarySyncTask(DayYesterday)
	require.NoError(t, err)

	_, err = NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"},
		Logger:    slog.Default(),
		Cron:      []CronRegistration{{Spec: "every so often", Task: task}},
	})
	require.Error(t, err)
}
