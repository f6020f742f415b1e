package schedules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockbook/stockbook/internal/masterdata/shared"
	internalShared "github.com/stockbook/stockbook/internal/shared"
)

type recordingRepo struct {
	created []ScheduleForm
	window  Filters
}

func (r *recordingRepo) List(ctx context.Context, filters shared.ListFilters, window Filters) ([]Schedule, int, error) {
	r.window = window
	return []Schedule{}, 0, nil
}

func (r *recordingRepo) Get(ctx context.Context, businessID, id int64) (Schedule, error) {
	return Schedule{}, internalShared.ErrNotFound
}

func (r *recordingRepo) Create(ctx context.Context, actor internalShared.Actor, form ScheduleForm) (Schedule, error) {
	r.created = append(r.created, form)
	return Schedule{ID: 1, BusinessID: actor.BusinessID, Title: form.Title, StartsAt: form.StartsAt, EndsAt: form.EndsAt, CreatedBy: actor.UserID}, nil
}

func (r *recordingRepo) Update(ctx context.Context, actor internalShared.Actor, id int64, form ScheduleForm) (Schedule, error) {
	return Schedule{}, internalShared.ErrNotFound
}

func (r *recordingRepo) Delete(ctx context.Context, actor internalShared.Actor, id int64) (Schedule, error) {
	return Schedule{}, internalShared.ErrNotFound
}

func TestCreateRequiresOrderedWindow(t *testing.T) {
	repo := &recordingRepo{}
	svc := NewService(repo)
	actor := internalShared.Actor{UserID: 3, BusinessID: 10}
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(context.Background(), actor, ScheduleForm{Title: "Stock take", StartsAt: start, EndsAt: start})
	require.ErrorIs(t, err, internalShared.ErrMissingInput)

	_, err = svc.Create(context.Background(), actor, ScheduleForm{Title: "Stock take", StartsAt: start})
	require.ErrorIs(t, err, internalShared.ErrMissingInput)
	require.Empty(t, repo.created)

	s, err := svc.Create(context.Background(), actor, ScheduleForm{Title: " Stock take ", StartsAt: start, EndsAt: start.Add(2 * time.Hour)})
	require.NoError(t, err)
	require.Equal(t, "Stock take", s.Title)
	require.Equal(t, actor.UserID, s.CreatedBy)
}

func TestListRejectsInvertedWindow(t *testing.T) {
	repo := &recordingRepo{}
	svc := NewService(repo)
	now := time.Now()

	_, _, err := svc.List(context.Background(), internalShared.Actor{BusinessID: 1}, shared.ListFilters{}, Filters{From: now, To: now.Add(-time.Hour)})
	require.ErrorIs(t, err, internalShared.ErrMissingInput)

	_, _, err = svc.List(context.Background(), internalShared.Actor{BusinessID: 1}, shared.ListFilters{}, Filters{From: now})
	require.NoError(t, err)
	require.Equal(t, now, repo.window.From)
}
