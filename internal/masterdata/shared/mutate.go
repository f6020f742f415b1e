package shared

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/platform/db"
	internalShared "github.com/stockbook/stockbook/internal/shared"
)

// Change describes one audited master data mutation.
type Change struct {
	Model  string
	Action internalShared.AuditAction
	Actor  internalShared.Actor
}

// Mutate runs write in a transaction and appends the audit entry for its
// result before commit. write returns the affected row and its id; the row is
// stored as the audit snapshot.
func Mutate[T any](ctx context.Context, pool *pgxpool.Pool, c Change, write func(ctx context.Context, q internalShared.DBTX) (T, int64, error)) (T, error) {
	var out T
	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		row, id, err := write(ctx, tx)
		if err != nil {
			return err
		}
		_, err = internalShared.NewAuditLogger(tx).Record(ctx, internalShared.AuditLog{
			BusinessID:  c.Actor.BusinessID,
			Model:       c.Model,
			RecordID:    strconv.FormatInt(id, 10),
			Action:      c.Action,
			Changes:     row,
			PerformedBy: c.Actor.UserID,
		})
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	return out, err
}

// MapDeleteError maps driver errors of a DELETE. A row still referenced by
// ledger data cannot be removed and reports FailedRequest.
func MapDeleteError(err error, notFound error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("%w: %s still referenced", internalShared.ErrFailedRequest, pgErr.TableName)
	}
	return internalShared.MapDBError(err, notFound)
}
