package suppliers

import (
	"context"

	"github.com/stockbook/stockbook/internal/masterdata/shared"
	internalShared "github.com/stockbook/stockbook/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, actor internalShared.Actor, filters shared.ListFilters) ([]Supplier, int, error) {
	filters.BusinessID = actor.BusinessID
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, actor internalShared.Actor, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, internalShared.ErrMissingInput
	}
	return s.repo.Get(ctx, actor.BusinessID, id)
}

func (s *Service) Create(ctx context.Context, actor internalShared.Actor, form SupplierForm) (Supplier, error) {
	form, err := s.validate(form)
	if err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, actor, form)
}

func (s *Service) Update(ctx context.Context, actor internalShared.Actor, id int64, form SupplierForm) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, internalShared.ErrMissingInput
	}
	form, err := s.validate(form)
	if err != nil {
		return Supplier{}, err
	}
	return s.repo.Update(ctx, actor, id, form)
}

func (s *Service) Delete(ctx context.Context, actor internalShared.Actor, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, internalShared.ErrMissingInput
	}
	return s.repo.Delete(ctx, actor, id)
}
