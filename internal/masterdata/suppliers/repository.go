package suppliers

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/masterdata/shared"
	internalShared "github.com/stockbook/stockbook/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, businessID, id int64) (Supplier, error)
	Create(ctx context.Context, actor internalShared.Actor, form SupplierForm) (Supplier, error)
	Update(ctx context.Context, actor internalShared.Actor, id int64, form SupplierForm) (Supplier, error)
	Delete(ctx context.Context, actor internalShared.Actor, id int64) (Supplier, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, business_id, name, email, phone, address, created_at, updated_at`

var sortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
}

func scan(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.BusinessID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	q := shared.NewQuery(filters.BusinessID).Search(filters.Search, "name", "email", "phone")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`+q.Clause(), q.Args()...).Scan(&total); err != nil {
		return nil, 0, internalShared.MapDBError(err, nil)
	}

	page := filters.Page()
	limit, args := q.Paginate(page.Limit, page.Offset)
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM suppliers`+q.Clause()+
		` ORDER BY `+shared.OrderBy(filters.SortBy, sortColumns, "name")+` `+filters.Direction()+`, id`+limit, args...)
	if err != nil {
		return nil, 0, internalShared.MapDBError(err, nil)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Supplier, error) {
		return scan(row)
	})
	if err != nil {
		return nil, 0, internalShared.MapDBError(err, nil)
	}
	return list, total, nil
}

func (r *repository) Get(ctx context.Context, businessID, id int64) (Supplier, error) {
	s, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM suppliers WHERE id = $1 AND business_id = $2`, id, businessID))
	return s, internalShared.MapDBError(err, internalShared.ErrSupplierNotFound)
}

func (r *repository) Create(ctx context.Context, actor internalShared.Actor, form SupplierForm) (Supplier, error) {
	change := shared.Change{Model: "Supplier", Action: internalShared.AuditCreate, Actor: actor}
	return shared.Mutate(ctx, r.pool, change, func(ctx context.Context, q internalShared.DBTX) (Supplier, int64, error) {
		s, err := scan(q.QueryRow(ctx, `INSERT INTO suppliers (business_id, name, email, phone, address)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+columns, actor.BusinessID, form.Name, form.Email, form.Phone, form.Address))
		return s, s.ID, internalShared.MapDBError(err, internalShared.ErrBusinessNotFound)
	})
}

func (r *repository) Update(ctx context.Context, actor internalShared.Actor, id int64, form SupplierForm) (Supplier, error) {
	change := shared.Change{Model: "Supplier", Action: internalShared.AuditUpdate, Actor: actor}
	return shared.Mutate(ctx, r.pool, change, func(ctx context.Context, q internalShared.DBTX) (Supplier, int64, error) {
		s, err := scan(q.QueryRow(ctx, `UPDATE suppliers SET name = $3, email = $4, phone = $5, address = $6, updated_at = NOW()
WHERE id = $1 AND business_id = $2
RETURNING `+columns, id, actor.BusinessID, form.Name, form.Email, form.Phone, form.Address))
		return s, s.ID, internalShared.MapDBError(err, internalShared.ErrSupplierNotFound)
	})
}

func (r *repository) Delete(ctx context.Context, actor internalShared.Actor, id int64) (Supplier, error) {
	change := shared.Change{Model: "Supplier", Action: internalShared.AuditDelete, Actor: actor}
	return shared.Mutate(ctx, r.pool, change, func(ctx context.Context, q internalShared.DBTX) (Supplier, int64, error) {
		s, err := scan(q.QueryRow(ctx, `DELETE FROM suppliers WHERE id = $1 AND business_id = $2 RETURNING `+columns, id, actor.BusinessID))
		if err != nil {
			return Supplier{}, 0, shared.MapDeleteError(err, internalShared.ErrSupplierNotFound)
		}
		return s, s.ID, nil
	})
}
