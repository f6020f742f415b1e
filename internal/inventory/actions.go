package inventory

import (
	"context"
	"time"

	"github.com/stockbook/stockbook/internal/rbac"
	"github.com/stockbook/stockbook/internal/shared"
)

// ListInput filters the caller's transaction list.
type ListInput struct {
	Types     []TransactionType `json:"types"`
	ProductID int64             `json:"productId"`
	From      time.Time         `json:"from"`
	To        time.Time         `json:"to"`
	SortBy    string            `json:"sortBy"`
	SortDir   string            `json:"sortDir"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}

// StatsInput selects the statistics window.
type StatsInput struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Actions are the gated server operations of the inventory ledger. Each one
// returns the {data, error} envelope.
type Actions struct {
	Record     func(context.Context, TransactionRequest) shared.Result[Recorded]
	List       func(context.Context, ListInput) shared.Result[shared.Paged[Transaction]]
	Stats      func(context.Context, StatsInput) shared.Result[Stats]
	TodayStats func(context.Context, time.Time) shared.Result[Stats]
}

// NewActions wraps service operations with the permission gate.
func NewActions(svc *Service, gate *rbac.Gate) Actions {
	return Actions{
		Record: rbac.Guard(gate, shared.PermTransactionsCreate, svc.Record),
		List: rbac.Guard(gate, shared.PermTransactionsView, func(ctx context.Context, actor shared.Actor, in ListInput) (shared.Paged[Transaction], error) {
			return svc.ListTransactions(ctx, TransactionFilter{
				BusinessID: actor.BusinessID,
				Types:      in.Types,
				ProductID:  in.ProductID,
				From:       in.From,
				To:         in.To,
				SortBy:     in.SortBy,
				SortDir:    in.SortDir,
				Limit:      in.Limit,
				Offset:     in.Offset,
			})
		}),
		Stats: rbac.Guard(gate, shared.PermStatisticsView, func(ctx context.Context, actor shared.Actor, in StatsInput) (Stats, error) {
			return svc.Stats(ctx, actor.BusinessID, in.From, in.To)
		}),
		TodayStats: rbac.Guard(gate, shared.PermStatisticsView, func(ctx context.Context, actor shared.Actor, now time.Time) (Stats, error) {
			return svc.TodayStats(ctx, actor.BusinessID, now)
		}),
	}
}
