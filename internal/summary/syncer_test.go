package summary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stockbook/stockbook/internal/inventory"
	"github.com/stockbook/stockbook/internal/shared"
)

type memoryStore struct {
	mu        sync.Mutex
	ids       []int64
	summaries map[int64]DailySummary
}

func (m *memoryStore) BusinessIDs(ctx context.Context) ([]int64, error) {
	return m.ids, nil
}

func (m *memoryStore) Upsert(ctx context.Context, s DailySummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[s.BusinessID] = s
	return nil
}

type fakeStats struct {
	failFor int64
	windows []time.Time
	mu      sync.Mutex
}

func (f *fakeStats) Stats(ctx context.Context, businessID int64, from, to time.Time) (inventory.Stats, error) {
	f.mu.Lock()
	f.windows = append(f.windows, from, to)
	f.mu.Unlock()
	if businessID == f.failFor {
		return inventory.Stats{}, errors.New("stats unavailable")
	}
	sales := decimal.NewFromInt(businessID * 10)
	return inventory.Stats{
		From:             from,
		To:               to,
		TotalSales:       sales,
		TotalExpenses:    decimal.NewFromInt(3),
		NetProfit:        sales.Sub(decimal.NewFromInt(3)),
		TransactionCount: businessID,
	}, nil
}

func newTestSyncer(t *testing.T) (*Syncer, *memoryStore, *fakeStats, *redislock.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	locker := redislock.New(client)
	store := &memoryStore{ids: []int64{1, 2, 3}, summaries: map[int64]DailySummary{}}
	stats := &fakeStats{}
	return NewSyncer(store, stats, locker, nil), store, stats, locker
}

func TestSyncAllWritesOneSummaryPerBusiness(t *testing.T) {
	syncer, store, stats, _ := newTestSyncer(t)
	day := time.Date(2024, 6, 2, 15, 30, 0, 0, time.UTC)

	report, err := syncer.SyncAll(context.Background(), day)
	require.NoError(t, err)
	require.Equal(t, Report{Day: "2024-06-02", Businesses: 3, Synced: 3}, report)

	require.Len(t, store.summaries, 3)
	s := store.summaries[2]
	require.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), s.Day)
	require.True(t, decimal.NewFromInt(17).Equal(s.NetProfit))
	require.Equal(t, int64(2), s.TransactionCount)
	require.Contains(t, stats.windows, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
}

func TestSyncAllContinuesPastFailures(t *testing.T) {
	syncer, store, stats, _ := newTestSyncer(t)
	stats.failFor = 2

	report, err := syncer.SyncAll(context.Background(), time.Now())
	require.NoError(t, err)
	require.Equal(t, 2, report.Synced)
	require.Equal(t, 1, report.Failed)
	require.NotContains(t, store.summaries, int64(2))
}

func TestSyncAllRefusesConcurrentRun(t *testing.T) {
	syncer, _, _, locker := newTestSyncer(t)
	day := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)

	lock, err := locker.Obtain(context.Background(), shared.SummaryLockKey("2024-06-02"), time.Minute, nil)
	require.NoError(t, err)

	_, err = syncer.SyncAll(context.Background(), day)
	require.ErrorIs(t, err, ErrSyncInProgress)

	require.NoError(t, lock.Release(context.Background()))
	_, err = syncer.SyncAll(context.Background(), day)
	require.NoError(t, err)
}

func TestCronHandlerRequiresBearerSecret(t *testing.T) {
	syncer, store, _, _ := newTestSyncer(t)
	h := NewCronHandler(syncer, "s3cret", nil)
	h.now = func() time.Time { return time.Date(2024, 6, 2, 1, 0, 0, 0, time.UTC) }

	for _, header := range []string{"", "s3cret", "Bearer wrong", "bearer s3cret"} {
		req := httptest.NewRequest(http.MethodGet, "/api/cron/metrics", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
	require.Empty(t, store.summaries)

	req := httptest.NewRequest(http.MethodPost, "/api/cron/metrics", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, store.summaries, 3)
}

func TestCronHandlerWithoutSecretRejectsAll(t *testing.T) {
	syncer, _, _, _ := newTestSyncer(t)
	h := NewCronHandler(syncer, "", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/cron/metrics", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCronHandlerParsesDay(t *testing.T) {
	syncer, store, _, _ := newTestSyncer(t)
	h := NewCronHandler(syncer, "s3cret", nil)

	req := httptest.NewRequest(http.MethodGet, "/api/cron/metrics?day=2024-02-29", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 29, store.summaries[1].Day.Day())

	req = httptest.NewRequest(http.MethodGet, "/api/cron/metrics?day=yesterday", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
