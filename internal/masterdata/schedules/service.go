package schedules

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

// List returns the business schedule, optionally limited to entries overlapping window.
func (s *Service) List(ctx context.Context, actor internalShared.Actor, filters shared.ListFilters, window Filters) ([]Schedule, int, error) {
	if err := validateWindow(window); err != nil {
		return nil, 0, err
	}
	filters.BusinessID = actor.BusinessID
	return s.repo.List(ctx, filters, window)
}

func (s *Service) Get(ctx context.Context, actor internalShared.Actor, id int64) (Schedule, error) {
	if id <= 0 {
		return Schedule{}, internalShared.ErrMissingInput
	}
	return s.repo.Get(ctx, actor.BusinessID, id)
}

func (s *Service) Create(ctx context.Context, actor internalShared.Actor, form ScheduleForm) (Schedule, error) {
	form, err := s.validate(form)
	if err != nil {
		return Schedule{}, err
	}
	return s.repo.Create(ctx, actor, form)
}

func (s *Service) Update(ctx context.Context, actor internalShared.Actor, id int64, form ScheduleForm) (Schedule, error) {
	if id <= 0 {
		return Schedule{}, internalShared.ErrMissingInput
	}
	form, err := s.validate(form)
	if err != nil {
		return Schedule{}, err
	}
	return s.repo.Update(ctx, actor, id, form)
}

func (s *Service) Delete(ctx context.Context, actor internalShared.Actor, id int64) (Schedule, error) {
	if id <= 0 {
		return Schedule{}, internalShared.ErrMissingInput
	}
	return s.repo.Delete(ctx, actor, id)
}
