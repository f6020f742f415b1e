package summary

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/shared"
)

// Repository persists daily summaries in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// BusinessIDs lists every business, ordered by id.
func (r *Repository) BusinessIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM businesses ORDER BY id`)
	if err != nil {
		return nil, shared.MapDBError(err, nil)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, shared.MapDBError(err, nil)
	}
	return ids, nil
}

// Upsert writes the snapshot, replacing an earlier one for the same business and day.
func (r *Repository) Upsert(ctx context.Context, s DailySummary) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO business_daily_summaries
(business_id, day, total_sales, total_expenses, net_profit, transaction_count, synced_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (business_id, day) DO UPDATE SET
	total_sales = EXCLUDED.total_sales,
	total_expenses = EXCLUDED.total_expenses,
	net_profit = EXCLUDED.net_profit,
	transaction_count = EXCLUDED.transaction_count,
	synced_at = EXCLUDED.synced_at`,
		s.BusinessID, s.Day, s.TotalSales, s.TotalExpenses, s.NetProfit, s.TransactionCount, s.SyncedAt)
	return shared.MapDBError(err, shared.ErrBusinessNotFound)
}
