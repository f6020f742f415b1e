package inventory

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stockbook/stockbook/internal/shared"
)

// Stats aggregates sales, expenses and transaction count for [from, to).
func (s *Service) Stats(ctx context.Context, businessID int64, from, to time.Time) (Stats, error) {
	if businessID <= 0 || from.IsZero() || to.IsZero() || !to.After(from) {
		return Stats{}, shared.ErrMissingInput
	}
	out := Stats{From: from, To: to}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.repo.SalesTotal(gctx, businessID, from, to)
		out.TotalSales = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.ExpensesTotal(gctx, businessID, from, to)
		out.TotalExpenses = v
		return err
	})
	g.Go(func() error {
		v, err := s.repo.CountTransactions(gctx, businessID, from, to)
		out.TransactionCount = v
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, asFailedRequest(err)
	}
	out.NetProfit = out.TotalSales.Sub(out.TotalExpenses)
	return out, nil
}

// TodayStats returns Stats for the calendar day containing now, in now's location.
func (s *Service) TodayStats(ctx context.Context, businessID int64, now time.Time) (Stats, error) {
	start := StartOfDay(now)
	return s.Stats(ctx, businessID, start, start.AddDate(0, 0, 1))
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ListTransactions returns one page of the business ledger.
func (s *Service) ListTransactions(ctx context.Context, filter TransactionFilter) (shared.Paged[Transaction], error) {
	if filter.BusinessID <= 0 {
		return shared.Paged[Transaction]{}, shared.ErrMissingInput
	}
	for _, t := range filter.Types {
		if !t.Valid() {
			return shared.Paged[Transaction]{}, shared.ErrMissingInput
		}
	}
	page := shared.Page{Limit: filter.Limit, Offset: filter.Offset}.Normalize()
	filter.Limit, filter.Offset = page.Limit, page.Offset
	rows, total, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return shared.Paged[Transaction]{}, asFailedRequest(err)
	}
	return shared.Paged[Transaction]{Rows: rows, Total: total, Page: page}, nil
}
