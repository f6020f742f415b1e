package inventory

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/stockbook/stockbook/internal/platform/db"
	"github.com/stockbook/stockbook/internal/shared"
)

// Repository persists inventory data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the statements run inside one recording transaction.
type TxRepository interface {
	LedgerStore
	CheckProduct(ctx context.Context, businessID, productID int64) error
	GetItem(ctx context.Context, businessID, itemID int64) (WarehouseItem, error)
	FindItem(ctx context.Context, businessID, productID, warehouseID int64) (WarehouseItem, bool, error)
	CreateItem(ctx context.Context, businessID, productID, warehouseID, quantity int64) (Resolution, error)
	InsertTransaction(ctx context.Context, txn Transaction) (Transaction, error)
	UpsertProductSupplier(ctx context.Context, businessID int64, link ProductSupplier) (ProductSupplier, error)
	Audit() shared.AuditWriter
}

type txRepository struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a database transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r == nil {
		return errors.New("inventory repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

const itemColumns = `wi.id, wi.product_id, wi.warehouse_id, wi.quantity, wi.reserved_qty, wi.last_updated`

func scanItem(row pgx.Row) (WarehouseItem, error) {
	var item WarehouseItem
	err := row.Scan(&item.ID, &item.ProductID, &item.WarehouseID, &item.Quantity, &item.ReservedQty, &item.LastUpdated)
	return item, err
}

const upsertProductSupplierSQL = `INSERT INTO product_suppliers (product_id, supplier_id, code)
SELECT $1, s.id, $3 FROM suppliers s WHERE s.id = $2 AND s.business_id = $4
ON CONFLICT (product_id, supplier_id) DO UPDATE SET code = COALESCE(NULLIF(EXCLUDED.code, ''), product_suppliers.code)
RETURNING code`

// adjustQuantitySQL is the single relative update behind the stock ledger.
// The guarded form only matches while the result stays non-negative.
func adjustQuantitySQL(allowNegative bool) string {
	query := `UPDATE warehouse_items wi SET quantity = wi.quantity + $2, last_updated = NOW()
WHERE wi.id = $1`
	if !allowNegative {
		query += ` AND wi.quantity + $2 >= 0`
	}
	return query + ` RETURNING ` + itemColumns
}

func (t *txRepository) AdjustQuantity(ctx context.Context, itemID, delta int64, allowNegative bool) (WarehouseItem, error) {
	item, err := scanItem(t.tx.QueryRow(ctx, adjustQuantitySQL(allowNegative), itemID, delta))
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) || allowNegative {
		return WarehouseItem{}, shared.MapDBError(err, shared.ErrNotFound)
	}
	var exists bool
	if err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM warehouse_items WHERE id = $1)`, itemID).Scan(&exists); err != nil {
		return WarehouseItem{}, shared.MapDBError(err, nil)
	}
	if exists {
		return WarehouseItem{}, shared.ErrInsufficientStock
	}
	return WarehouseItem{}, shared.ErrNotFound
}

func (t *txRepository) CheckProduct(ctx context.Context, businessID, productID int64) error {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1 AND business_id = $2)`, productID, businessID).Scan(&exists)
	if err != nil {
		return shared.MapDBError(err, nil)
	}
	if !exists {
		return shared.ErrProductNotFound
	}
	return nil
}

func (t *txRepository) GetItem(ctx context.Context, businessID, itemID int64) (WarehouseItem, error) {
	item, err := scanItem(t.tx.QueryRow(ctx, `SELECT `+itemColumns+`
FROM warehouse_items wi JOIN warehouses w ON w.id = wi.warehouse_id
WHERE wi.id = $1 AND w.business_id = $2`, itemID, businessID))
	if err != nil {
		return WarehouseItem{}, shared.MapDBError(err, shared.ErrNotFound)
	}
	return item, nil
}

func (t *txRepository) FindItem(ctx context.Context, businessID, productID, warehouseID int64) (WarehouseItem, bool, error) {
	item, err := scanItem(t.tx.QueryRow(ctx, `SELECT `+itemColumns+`
FROM warehouse_items wi JOIN warehouses w ON w.id = wi.warehouse_id
WHERE wi.product_id = $1 AND wi.warehouse_id = $2 AND w.business_id = $3
ORDER BY wi.id LIMIT 1`, productID, warehouseID, businessID))
	if errors.Is(err, pgx.ErrNoRows) {
		return WarehouseItem{}, false, nil
	}
	if err != nil {
		return WarehouseItem{}, false, shared.MapDBError(err, nil)
	}
	return item, true, nil
}

// CreateItem inserts the item seeded with quantity. A concurrent insert for the
// same pair turns into a relative update and reports OutcomeUpdated.
func (t *txRepository) CreateItem(ctx context.Context, businessID, productID, warehouseID, quantity int64) (Resolution, error) {
	var (
		item     WarehouseItem
		inserted bool
	)
	err := t.tx.QueryRow(ctx, `INSERT INTO warehouse_items AS wi (product_id, warehouse_id, quantity, reserved_qty, last_updated)
SELECT $1, w.id, $3, 0, NOW() FROM warehouses w WHERE w.id = $2 AND w.business_id = $4
ON CONFLICT (product_id, warehouse_id) DO UPDATE SET quantity = wi.quantity + EXCLUDED.quantity, last_updated = NOW()
RETURNING `+itemColumns+`, (xmax = 0) AS inserted`, productID, warehouseID, quantity, businessID).
		Scan(&item.ID, &item.ProductID, &item.WarehouseID, &item.Quantity, &item.ReservedQty, &item.LastUpdated, &inserted)
	if err != nil {
		return Resolution{}, shared.MapDBError(err, shared.ErrNotFound)
	}
	outcome := OutcomeUpdated
	if inserted {
		outcome = OutcomeCreated
	}
	return Resolution{Outcome: outcome, Item: item}, nil
}

func (t *txRepository) InsertTransaction(ctx context.Context, txn Transaction) (Transaction, error) {
	err := t.tx.QueryRow(ctx, `INSERT INTO transactions (business_id, product_id, warehouse_id, warehouse_item_id, type, quantity, note, reference, created_by, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
RETURNING id, created_at`,
		txn.BusinessID, txn.ProductID, txn.WarehouseID, txn.WarehouseItemID, string(txn.Type), txn.Quantity, txn.Note, txn.Reference, txn.CreatedBy,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return Transaction{}, shared.MapDBError(err, shared.ErrProductNotFound)
	}
	return txn, nil
}

// UpsertProductSupplier links the product to a supplier of the same business.
// A supplier owned by another business matches no row and reports ErrSupplierNotFound.
func (t *txRepository) UpsertProductSupplier(ctx context.Context, businessID int64, link ProductSupplier) (ProductSupplier, error) {
	err := t.tx.QueryRow(ctx, upsertProductSupplierSQL, link.ProductID, link.SupplierID, link.Code, businessID).Scan(&link.Code)
	if err != nil {
		return ProductSupplier{}, shared.MapDBError(err, shared.ErrSupplierNotFound)
	}
	return link, nil
}

func (t *txRepository) Audit() shared.AuditWriter {
	return shared.NewAuditLogger(t.tx)
}

// ListTransactions returns one page of transactions and the total match count.
func (r *Repository) ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, int, error) {
	where := []string{"business_id = $1"}
	args := []any{filter.BusinessID}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		args = append(args, types)
		where = append(where, "type = ANY($"+strconv.Itoa(len(args))+")")
	}
	if filter.ProductID > 0 {
		args = append(args, filter.ProductID)
		where = append(where, "product_id = $"+strconv.Itoa(len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where = append(where, "created_at >= $"+strconv.Itoa(len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where = append(where, "created_at < $"+strconv.Itoa(len(args)))
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, shared.MapDBError(err, nil)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT id, business_id, product_id, warehouse_id, warehouse_item_id, type, quantity, note, reference, created_by, created_at
FROM transactions WHERE ` + clause + `
ORDER BY ` + sortOrder(filter.SortBy, filter.SortDir) + `, id DESC
LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, shared.MapDBError(err, nil)
	}
	defer rows.Close()
	txns := []Transaction{}
	for rows.Next() {
		var txn Transaction
		if err := rows.Scan(&txn.ID, &txn.BusinessID, &txn.ProductID, &txn.WarehouseID, &txn.WarehouseItemID, &txn.Type, &txn.Quantity, &txn.Note, &txn.Reference, &txn.CreatedBy, &txn.CreatedAt); err != nil {
			return nil, 0, err
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, shared.MapDBError(err, nil)
	}
	return txns, total, nil
}

// SalesTotal sums quantity * product price over SALE transactions in [from, to).
func (r *Repository) SalesTotal(ctx context.Context, businessID int64, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(t.quantity * p.price), 0)
FROM transactions t JOIN products p ON p.id = t.product_id
WHERE t.business_id = $1 AND t.type = $2 AND t.created_at >= $3 AND t.created_at < $4`,
		businessID, string(TypeSale), from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, shared.MapDBError(err, nil)
	}
	return total, nil
}

// ExpensesTotal sums expense amounts spent in [from, to).
func (r *Repository) ExpensesTotal(ctx context.Context, businessID int64, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM expenses
WHERE business_id = $1 AND spent_at >= $2 AND spent_at < $3`, businessID, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, shared.MapDBError(err, nil)
	}
	return total, nil
}

// CountTransactions counts ledger rows created in [from, to).
func (r *Repository) CountTransactions(ctx context.Context, businessID int64, from, to time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions
WHERE business_id = $1 AND created_at >= $2 AND created_at < $3`, businessID, from, to).Scan(&count)
	if err != nil {
		return 0, shared.MapDBError(err, nil)
	}
	return count, nil
}

func sortOrder(sortBy, sortDir string) string {
	dir := "DESC"
	if strings.EqualFold(sortDir, "asc") {
		dir = "ASC"
	}
	switch sortBy {
	case "quantity":
		return "quantity " + dir
	case "type":
		return "type " + dir
	default:
		return "created_at " + dir
	}
}
