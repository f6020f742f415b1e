package payments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/platform/db"
	"github.com/stockbook/stockbook/internal/shared"
)

// Store abstracts payment persistence for Service.
type Store interface {
	StripeAccount(ctx context.Context, businessID int64) (string, error)
	List(ctx context.Context, businessID int64, page shared.Page) ([]Payment, int, error)
	WithTx(ctx context.Context, fn func(context.Context, TxStore) error) error
}

// TxStore exposes the statements run inside one payment transaction.
type TxStore interface {
	Insert(ctx context.Context, p Payment) (Payment, error)
	MarkProcessed(ctx context.Context, eventID string) error
	FindByIntent(ctx context.Context, intentID string) (Payment, error)
	FindByCharge(ctx context.Context, chargeID string) (Payment, error)
	SetStatus(ctx context.Context, id int64, status Status, chargeID string) (Payment, error)
	Audit() shared.AuditWriter
}

// Repository persists payments in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const eventSource = "stripe"

const paymentColumns = `id, sender_business_id, receiver_business_id, amount, currency, status,
stripe_payment_intent_id, COALESCE(stripe_charge_id, ''), created_by, created_at, updated_at`

func scanPayment(row pgx.Row) (Payment, error) {
	var p Payment
	var status string
	err := row.Scan(&p.ID, &p.SenderBusinessID, &p.ReceiverBusinessID, &p.Amount, &p.Currency, &status,
		&p.StripePaymentIntentID, &p.StripeChargeID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	p.Status = Status(status)
	return p, err
}

// StripeAccount returns the connected account id of the business, empty when not connected.
func (r *Repository) StripeAccount(ctx context.Context, businessID int64) (string, error) {
	var account string
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(stripe_account_id, '') FROM businesses WHERE id = $1`, businessID).Scan(&account)
	if err != nil {
		return "", shared.MapDBError(err, shared.ErrBusinessNotFound)
	}
	return account, nil
}

// List returns payments sent or received by the business, newest first.
func (r *Repository) List(ctx context.Context, businessID int64, page shared.Page) ([]Payment, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inter_business_payments
WHERE sender_business_id = $1 OR receiver_business_id = $1`, businessID).Scan(&total)
	if err != nil {
		return nil, 0, shared.MapDBError(err, nil)
	}
	rows, err := r.pool.Query(ctx, `SELECT `+paymentColumns+` FROM inter_business_payments
WHERE sender_business_id = $1 OR receiver_business_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`, businessID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, shared.MapDBError(err, nil)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Payment, error) {
		return scanPayment(row)
	})
	if err != nil {
		return nil, 0, shared.MapDBError(err, nil)
	}
	return list, total, nil
}

// WithTx executes the callback inside a database transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxStore) error) error {
	if r == nil {
		return errors.New("payments repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txStore{tx: tx})
	})
}

type txStore struct {
	tx pgx.Tx
}

func (t *txStore) Insert(ctx context.Context, p Payment) (Payment, error) {
	out, err := scanPayment(t.tx.QueryRow(ctx, `INSERT INTO inter_business_payments
(sender_business_id, receiver_business_id, amount, currency, status, stripe_payment_intent_id, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+paymentColumns,
		p.SenderBusinessID, p.ReceiverBusinessID, p.Amount, p.Currency, string(p.Status), p.StripePaymentIntentID, p.CreatedBy))
	if err != nil {
		return Payment{}, shared.MapDBError(err, shared.ErrBusinessNotFound)
	}
	return out, nil
}

func (t *txStore) MarkProcessed(ctx context.Context, eventID string) error {
	return shared.NewIdempotencyStore(t.tx).CheckAndInsert(ctx, eventID, eventSource)
}

func (t *txStore) FindByIntent(ctx context.Context, intentID string) (Payment, error) {
	p, err := scanPayment(t.tx.QueryRow(ctx, `SELECT `+paymentColumns+` FROM inter_business_payments
WHERE stripe_payment_intent_id = $1 FOR UPDATE`, intentID))
	if err != nil {
		return Payment{}, shared.MapDBError(err, shared.ErrNotFound)
	}
	return p, nil
}

func (t *txStore) FindByCharge(ctx context.Context, chargeID string) (Payment, error) {
	p, err := scanPayment(t.tx.QueryRow(ctx, `SELECT `+paymentColumns+` FROM inter_business_payments
WHERE stripe_charge_id = $1 FOR UPDATE`, chargeID))
	if err != nil {
		return Payment{}, shared.MapDBError(err, shared.ErrNotFound)
	}
	return p, nil
}

func (t *txStore) SetStatus(ctx context.Context, id int64, status Status, chargeID string) (Payment, error) {
	p, err := scanPayment(t.tx.QueryRow(ctx, `UPDATE inter_business_payments
SET status = $2, stripe_charge_id = COALESCE(NULLIF($3, ''), stripe_charge_id), updated_at = NOW()
WHERE id = $1
RETURNING `+paymentColumns, id, string(status), chargeID))
	if err != nil {
		return Payment{}, shared.MapDBError(err, shared.ErrNotFound)
	}
	return p, nil
}

func (t *txStore) Audit() shared.AuditWriter {
	return shared.NewAuditLogger(t.tx)
}
