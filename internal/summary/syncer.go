package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"golang.org/x/sync/errgroup"

	"github.com/stockbook/stockbook/internal/inventory"
	"github.com/stockbook/stockbook/internal/shared"
)

// ErrSyncInProgress reports that another run holds the lock for the day.
var ErrSyncInProgress = errors.New("summary: sync already in progress")

const (
	defaultLockTTL     = 10 * time.Minute
	defaultConcurrency = 4
)

// Store is the persistence used by Syncer.
type Store interface {
	BusinessIDs(ctx context.Context) ([]int64, error)
	Upsert(ctx context.Context, s DailySummary) error
}

// StatsSource computes ledger statistics for a window.
type StatsSource interface {
	Stats(ctx context.Context, businessID int64, from, to time.Time) (inventory.Stats, error)
}

// Syncer snapshots daily statistics for every business.
type Syncer struct {
	store       Store
	stats       StatsSource
	locker      *redislock.Client
	lockTTL     time.Duration
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// NewSyncer builds a Syncer.
func NewSyncer(store Store, stats StatsSource, locker *redislock.Client, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		store:       store,
		stats:       stats,
		locker:      locker,
		lockTTL:     defaultLockTTL,
		concurrency: defaultConcurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// SyncAll computes Stats for the calendar day containing day and upserts one
// summary per business. A business whose computation fails is counted and
// logged; the run still succeeds for the others.
func (s *Syncer) SyncAll(ctx context.Context, day time.Time) (Report, error) {
	start := inventory.StartOfDay(day)
	report := Report{Day: start.Format(time.DateOnly)}

	lock, err := s.locker.Obtain(ctx, shared.SummaryLockKey(report.Day), s.lockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return report, ErrSyncInProgress
	}
	if err != nil {
		return report, fmt.Errorf("summary: obtain lock: %w", err)
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			s.logger.Warn("summary lock release", slog.String("day", report.Day), slog.Any("error", err))
		}
	}()

	ids, err := s.store.BusinessIDs(ctx)
	if err != nil {
		return report, err
	}
	report.Businesses = len(ids)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			err := s.syncOne(gctx, id, start)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				s.logger.Error("summary sync business", slog.Int64("business_id", id), slog.String("day", report.Day), slog.Any("error", err))
				return nil
			}
			report.Synced++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	s.logger.Info("summary sync complete",
		slog.String("day", report.Day),
		slog.Int("businesses", report.Businesses),
		slog.Int("synced", report.Synced),
		slog.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *Syncer) syncOne(ctx context.Context, businessID int64, start time.Time) error {
	stats, err := s.stats.Stats(ctx, businessID, start, start.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	return s.store.Upsert(ctx, DailySummary{
		BusinessID:       businessID,
		Day:              start,
		TotalSales:       stats.TotalSales,
		TotalExpenses:    stats.TotalExpenses,
		NetProfit:        stats.NetProfit,
		TransactionCount: stats.TransactionCount,
		SyncedAt:         s.now(),
	})
}
