package schedules

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/masterdata/shared"
	internalShared "github.com/stockbook/stockbook/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters, window Filters) ([]Schedule, int, error)
	Get(ctx context.Context, businessID, id int64) (Schedule, error)
	Create(ctx context.Context, actor internalShared.Actor, form ScheduleForm) (Schedule, error)
	Update(ctx context.Context, actor internalShared.Actor, id int64, form ScheduleForm) (Schedule, error)
	Delete(ctx context.Context, actor internalShared.Actor, id int64) (Schedule, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const columns = `id, business_id, title, description, starts_at, ends_at, created_by, created_at, updated_at`

var sortColumns = map[string]string{
	"title":      "title",
	"starts_at":  "starts_at",
	"ends_at":    "ends_at",
	"created_at": "created_at",
}

func scan(row pgx.Row) (Schedule, error) {
	var s Schedule
	err := row.Scan(&s.ID, &s.BusinessID, &s.Title, &s.Description, &s.StartsAt, &s.EndsAt, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters, window Filters) ([]Schedule, int, error) {
	q := shared.NewQuery(filters.BusinessID).Search(filters.Search, "title", "description")
	if !window.From.IsZero() {
		q.Where("ends_at > ?", window.From)
	}
	if !window.To.IsZero() {
		q.Where("starts_at < ?", window.To)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM schedules`+q.Clause(), q.Args()...).Scan(&total); err != nil {
		return nil, 0, internalShared.MapDBError(err, nil)
	}

	page := filters.Page()
	limit, args := q.Paginate(page.Limit, page.Offset)
	rows, err := r.pool.Query(ctx, `SELECT `+columns+` FROM schedules`+q.Clause()+
		` ORDER BY `+shared.OrderBy(filters.SortBy, sortColumns, "starts_at")+` `+filters.Direction()+`, id`+limit, args...)
	if err != nil {
		return nil, 0, internalShared.MapDBError(err, nil)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Schedule, error) {
		return scan(row)
	})
	if err != nil {
		return nil, 0, internalShared.MapDBError(err, nil)
	}
	return list, total, nil
}

func (r *repository) Get(ctx context.Context, businessID, id int64) (Schedule, error) {
	s, err := scan(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM schedules WHERE id = $1 AND business_id = $2`, id, businessID))
	return s, internalShared.MapDBError(err, internalShared.ErrNotFound)
}

func (r *repository) Create(ctx context.Context, actor internalShared.Actor, form ScheduleForm) (Schedule, error) {
	change := shared.Change{Model: "Schedule", Action: internalShared.AuditCreate, Actor: actor}
	return shared.Mutate(ctx, r.pool, change, func(ctx context.Context, q internalShared.DBTX) (Schedule, int64, error) {
		s, err := scan(q.QueryRow(ctx, `INSERT INTO schedules (business_id, title, description, starts_at, ends_at, created_by)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+columns, actor.BusinessID, form.Title, form.Description, form.StartsAt, form.EndsAt, actor.UserID))
		return s, s.ID, internalShared.MapDBError(err, internalShared.ErrBusinessNotFound)
	})
}

func (r *repository) Update(ctx context.Context, actor internalShared.Actor, id int64, form ScheduleForm) (Schedule, error) {
	change := shared.Change{Model: "Schedule", Action: internalShared.AuditUpdate, Actor: actor}
	return shared.Mutate(ctx, r.pool, change, func(ctx context.Context, q internalShared.DBTX) (Schedule, int64, error) {
		s, err := scan(q.QueryRow(ctx, `UPDATE schedules SET title = $3, description = $4, starts_at = $5, ends_at = $6, updated_at = NOW()
WHERE id = $1 AND business_id = $2
RETURNING `+columns, id, actor.BusinessID, form.Title, form.Description, form.StartsAt, form.EndsAt))
		return s, s.ID, internalShared.MapDBError(err, internalShared.ErrNotFound)
	})
}

func (r *repository) Delete(ctx context.Context, actor internalShared.Actor, id int64) (Schedule, error) {
	change := shared.Change{Model: "Schedule", Action: internalShared.AuditDelete, Actor: actor}
	return shared.Mutate(ctx, r.pool, change, func(ctx context.Context, q internalShared.DBTX) (Schedule, int64, error) {
		s, err := scan(q.QueryRow(ctx, `DELETE FROM schedules WHERE id = $1 AND business_id = $2 RETURNING `+columns, id, actor.BusinessID))
		if err != nil {
			return Schedule{}, 0, shared.MapDeleteError(err, internalShared.ErrNotFound)
		}
		return s, s.ID, nil
	})
}
