package warehouses

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/masterdata/shared"
	internalShared "github.com/stockbook/stockbook/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Warehouse, int, error)
	Get(ctx context.Context, businessID, id int64) (Warehouse, error)
	Stock(ctx context.Context, businessID, id int64) ([]StockLine, error)
	Create(ctx context.Context, actor internalShared.Actor, form WarehouseForm) (Warehouse, error)
	Update(ctx context.Context, actor internalShared.Actor, id int64, form WarehouseForm) (Warehouse, error)
	Delete(ctx context.Context, actor internalShared.Actor, id int64) (Warehouse, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, business_id, name, location, created_at, updated_at`

var sortColumns = map[string]string{
	"name":       "name",
	"location":   "location",
	"created_at": "created_at",
}

func scan(row pgx.Row) (Warehouse, error) {
	var w Warehouse
	err := row.Scan(&w.ID, &w.BusinessID, &w.Name, &w.Location, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

// List uses a dynamic query due to filter complexity
func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Warehouse, int, error) {
	q := shared.NewQuery(filters.BusinessID).Search(filters.Search, "name", "location")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM warehouses`+q.Clause(), q.Args()...).Scan(&total); err != nil {
		return nil, 0, internalShared.MapDBError(err, nil)
	}

	page := filters.Page()
	limit, args := q.Paginate(page.Limit, page.Offset)
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM warehouses`+q.Clause()+
		` ORDER BY `+shared.OrderBy(filters.SortBy, sortColumns, "name")+` `+filters.Direction()+`, id`+limit, args...)
	if err != nil {
		return nil, 0, internalShared.MapDBError(err, nil)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Warehouse, error) {
		return scan(row)
	})
	if err != nil {
		return nil, 0, internalShared.MapDBError(err, nil)
	}
	return list, total, nil
}

func (r *repository) Get(ctx context.Context, businessID, id int64) (Warehouse, error) {
	w, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM warehouses WHERE id = $1 AND business_id = $2`, id, businessID))
	return w, internalShared.MapDBError(err, internalShared.ErrNotFound)
}

// Stock lists the items held in the warehouse ordered by product name.
func (r *repository) Stock(ctx context.Context, businessID, id int64) ([]StockLine, error) {
	rows, err := r.pool.Query(ctx, `SELECT wi.id, p.id, p.name, wi.quantity, wi.reserved_qty, wi.last_updated
FROM warehouse_items wi
JOIN warehouses w ON w.id = wi.warehouse_id
JOIN products p ON p.id = wi.product_id
WHERE w.id = $1 AND w.business_id = $2
ORDER BY p.name, wi.id`, id, businessID)
	if err != nil {
		return nil, internalShared.MapDBError(err, nil)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (StockLine, error) {
		var l StockLine
		err := row.Scan(&l.WarehouseItemID, &l.ProductID, &l.ProductName, &l.Quantity, &l.ReservedQty, &l.LastUpdated)
		return l, err
	})
	return lines, internalShared.MapDBError(err, nil)
}

func (r *repository) Create(ctx context.Context, actor internalShared.Actor, form WarehouseForm) (Warehouse, error) {
	change := shared.Change{Model: "Warehouse", Action: internalShared.AuditCreate, Actor: actor}
	return shared.Mutate(ctx, r.pool, change, func(ctx context.Context, q internalShared.DBTX) (Warehouse, int64, error) {
		w, err := scan(q.QueryRow(ctx, `INSERT INTO warehouses (business_id, name, location)
VALUES ($1, $2, $3)
RETURNING `+columns, actor.BusinessID, form.Name, form.Location))
		return w, w.ID, internalShared.MapDBError(err, internalShared.ErrBusinessNotFound)
	})
}

func (r *repository) Update(ctx context.Context, actor internalShared.Actor, id int64, form WarehouseForm) (Warehouse, error) {
	change := shared.Change{Model: "Warehouse", Action: internalShared.AuditUpdate, Actor: actor}
	return shared.Mutate(ctx, r.pool, change, func(ctx context.Context, q internalShared.DBTX) (Warehouse, int64, error) {
		w, err := scan(q.QueryRow(ctx, `UPDATE warehouses SET name = $3, location = $4, updated_at = NOW()
WHERE id = $1 AND business_id = $2
RETURNING `+columns, id, actor.BusinessID, form.Name, form.Location))
		return w, w.ID, internalShared.MapDBError(err, internalShared.ErrNotFound)
	})
}

func (r *repository) Delete(ctx context.Context, actor internalShared.Actor, id int64) (Warehouse, error) {
	change := shared.Change{Model: "Warehouse", Action: internalShared.AuditDelete, Actor: actor}
	return shared.Mutate(ctx, r.pool, change, func(ctx context.Context, q internalShared.DBTX) (Warehouse, int64, error) {
		w, err := scan(q.QueryRow(ctx, `DELETE FROM warehouses WHERE id = $1 AND business_id = $2 RETURNING `+columns, id, actor.BusinessID))
		if err != nil {
			return Warehouse{}, 0, shared.MapDeleteError(err, internalShared.ErrNotFound)
		}
		return w, w.ID, nil
	})
}
