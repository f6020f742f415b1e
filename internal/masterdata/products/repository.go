package products

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/masterdata/shared"
	internalShared "github.com/stockbook/stockbook/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error)
	Get(ctx context.Context, businessID, id int64) (Product, error)
	Create(ctx context.Context, actor internalShared.Actor, form ProductForm) (Product, error)
	Update(ctx context.Context, actor internalShared.Actor, id int64, form ProductForm) (Product, error)
	Delete(ctx context.Context, actor internalShared.Actor, id int64) (Product, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, business_id, name, COALESCE(sku, ''), price, cost, created_at, updated_at`

var sortColumns = map[string]string{
	"name":       "name",
	"sku":        "sku",
	"price":      "price",
	"cost":       "cost",
	"created_at": "created_at",
}

func scan(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.BusinessID, &p.Name, &p.SKU, &p.Price, &p.Cost, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	q := shared.NewQuery(filters.BusinessID).Search(filters.Search, "name", "sku")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+q.Clause(), q.Args()...).Scan(&total); err != nil {
		return nil, 0, internalShared.MapDBError(err, nil)
	}

	page := filters.Page()
	limit, args := q.Paginate(page.Limit, page.Offset)
	query := `SELECT ` + columns + ` FROM products` + q.Clause() +
		` ORDER BY ` + shared.OrderBy(filters.SortBy, sortColumns, "name") + ` ` + filters.Direction() + `, id` + limit
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, internalShared.MapDBError(err, nil)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, 0, internalShared.MapDBError(err, nil)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, businessID, id int64) (Product, error) {
	p, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM products WHERE id = $1 AND business_id = $2`, id, businessID))
	if err != nil {
		return Product{}, internalShared.MapDBError(err, internalShared.ErrProductNotFound)
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, actor internalShared.Actor, form ProductForm) (Product, error) {
	change := shared.Change{Model: "Product", Action: internalShared.AuditCreate, Actor: actor}
	return shared.Mutate(ctx, r.pool, change, func(ctx context.Context, q internalShared.DBTX) (Product, int64, error) {
		p, err := scan(q.QueryRow(ctx, `INSERT INTO products (business_id, name, sku, price, cost)
VALUES ($1, $2, NULLIF($3, ''), $4, $5)
RETURNING `+columns, actor.BusinessID, form.Name, form.SKU, form.Price, form.Cost))
		if err != nil {
			return Product{}, 0, internalShared.MapDBError(err, internalShared.ErrBusinessNotFound)
		}
		return p, p.ID, nil
	})
}

func (r *repository) Update(ctx context.Context, actor internalShared.Actor, id int64, form ProductForm) (Product, error) {
	change := shared.Change{Model: "Product", Action: internalShared.AuditUpdate, Actor: actor}
	return shared.Mutate(ctx, r.pool, change, func(ctx context.Context, q internalShared.DBTX) (Product, int64, error) {
		p, err := scan(q.QueryRow(ctx, `UPDATE products SET name = $3, sku = NULLIF($4, ''), price = $5, cost = $6, updated_at = NOW()
WHERE id = $1 AND business_id = $2
RETURNING `+columns, id, actor.BusinessID, form.Name, form.SKU, form.Price, form.Cost))
		if err != nil {
			return Product{}, 0, internalShared.MapDBError(err, internalShared.ErrProductNotFound)
		}
		return p, p.ID, nil
	})
}

func (r *repository) Delete(ctx context.Context, actor internalShared.Actor, id int64) (Product, error) {
	change := shared.Change{Model: "Product", Action: internalShared.AuditDelete, Actor: actor}
	return shared.Mutate(ctx, r.pool, change, func(ctx context.Context, q internalShared.DBTX) (Product, int64, error) {
		p, err := scan(q.QueryRow(ctx, `DELETE FROM products WHERE id = $1 AND business_id = $2 RETURNING `+columns, id, actor.BusinessID))
		if err != nil {
			return Product{}, 0, shared.MapDeleteError(err, internalShared.ErrProductNotFound)
		}
		return p, p.ID, nil
	})
}
