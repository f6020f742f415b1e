package products

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

func (s *Service) List(ctx context.Context, actor internalShared.Actor, filters shared.ListFilters) ([]Product, int, error) {
	filters.BusinessID = actor.BusinessID
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, actor internalShared.Actor, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, internalShared.ErrMissingInput
	}
	return s.repo.Get(ctx, actor.BusinessID, id)
}

func (s *Service) Create(ctx context.Context, actor internalShared.Actor, form ProductForm) (Product, error) {
	form, err := s.validate(form)
	if err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, actor, form)
}

func (s *Service) Update(ctx context.Context, actor internalShared.Actor, id int64, form ProductForm) (Product, error) {
	if id <= 0 {
		return Product{}, internalShared.ErrMissingInput
	}
	form, err := s.validate(form)
	if err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, actor, id, form)
}

// Delete removes the product and returns the deleted row.
func (s *Service) Delete(ctx context.Context, actor internalShared.Actor, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, internalShared.ErrMissingInput
	}
	return s.repo.Delete(ctx, actor, id)
}
