package warehouses

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

func (s *Service) List(ctx context.Context, actor internalShared.Actor, filters shared.ListFilters) ([]Warehouse, int, error) {
	filters.BusinessID = actor.BusinessID
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, actor internalShared.Actor, id int64) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, internalShared.ErrMissingInput
	}
	return s.repo.Get(ctx, actor.BusinessID, id)
}

// Stock returns the on-hand lines of a warehouse owned by the actor's business.
func (s *Service) Stock(ctx context.Context, actor internalShared.Actor, id int64) ([]StockLine, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.repo.Stock(ctx, actor.BusinessID, id)
}

func (s *Service) Create(ctx context.Context, actor internalShared.Actor, form WarehouseForm) (Warehouse, error) {
	form, err := s.validate(form)
	if err != nil {
		return Warehouse{}, err
	}
	return s.repo.Create(ctx, actor, form)
}

func (s *Service) Update(ctx context.Context, actor internalShared.Actor, id int64, form WarehouseForm) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, internalShared.ErrMissingInput
	}
	form, err := s.validate(form)
	if err != nil {
		return Warehouse{}, err
	}
	return s.repo.Update(ctx, actor, id, form)
}

func (s *Service) Delete(ctx context.Context, actor internalShared.Actor, id int64) (Warehouse, error) {
	if id <= 0 {
		return Warehouse{}, internalShared.ErrMissingInput
	}
	return s.repo.Delete(ctx, actor, id)
}
