package rbac

import (
	"context"
	"strings"

	"github.com/stockbook/stockbook/internal/shared"
)

// Store abstracts persistence for Service.
type Store interface {
	FindUser(ctx context.Context, id int64) (User, error)
	RolePermissions(ctx context.Context, role string) ([]string, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	GrantRole(ctx context.Context, role string, perms []string) error
}

// Service orchestrates RBAC lookups.
type Service struct {
	store Store
}

// NewService constructs a Service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Actor resolves the user and the business they act for.
func (s *Service) Actor(ctx context.Context, userID int64) (shared.Actor, error) {
	if userID <= 0 {
		return shared.Actor{}, shared.ErrUnauthorized
	}
	u, err := s.store.FindUser(ctx, userID)
	if err != nil {
		return shared.Actor{}, err
	}
	return shared.Actor{UserID: u.ID, BusinessID: u.BusinessID, Role: u.Role}, nil
}

// EffectivePermissions returns deduplicated, lower-cased permission names for role.
func (s *Service) EffectivePermissions(ctx context.Context, role string) ([]string, error) {
	if strings.TrimSpace(role) == "" {
		return nil, nil
	}
	rows, err := s.store.RolePermissions(ctx, role)
	if err != nil {
		return nil, err
	}
	return normalizePermissions(rows), nil
}

// ListPermissions returns all role grants.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.store.ListPermissions(ctx)
}

// GrantRole attaches perms to role.
func (s *Service) GrantRole(ctx context.Context, role string, perms []string) error {
	role = strings.TrimSpace(strings.ToUpper(role))
	if role == "" {
		return shared.ErrMissingInput
	}
	return s.store.GrantRole(ctx, role, perms)
}
