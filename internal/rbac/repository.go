package rbac

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockbook/stockbook/internal/shared"
)

// Repository reads users and role grants from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FindUser loads a user by id.
func (r *Repository) FindUser(ctx context.Context, id int64) (User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `SELECT id, business_id, name, email, role, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.BusinessID, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	if err != nil {
		return User{}, shared.MapDBError(err, shared.ErrUnauthorized)
	}
	return u, nil
}

// RolePermissions returns the permission names granted to role.
func (r *Repository) RolePermissions(ctx context.Context, role string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT permission FROM role_permissions WHERE role = $1 ORDER BY permission`, role)
	if err != nil {
		return nil, shared.MapDBError(err, nil)
	}
	perms, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, shared.MapDBError(err, nil)
	}
	return perms, nil
}

// ListPermissions returns every grant ordered by role.
func (r *Repository) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := r.pool.Query(ctx, `SELECT role, permission FROM role_permissions ORDER BY role, permission`)
	if err != nil {
		return nil, shared.MapDBError(err, nil)
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.Role, &p.Name); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// GrantRole upserts grants for role. Existing grants are kept.
func (r *Repository) GrantRole(ctx context.Context, role string, perms []string) error {
	batch := &pgx.Batch{}
	for _, p := range perms {
		p = strings.TrimSpace(strings.ToLower(p))
		if p == "" {
			continue
		}
		batch.Queue(`INSERT INTO role_permissions (role, permission) VALUES ($1, $2) ON CONFLICT DO NOTHING`, role, p)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}
