package schedules

import (
	"strings"

	"github.com/stockbook/stockbook/internal/masterdata/shared"
	internalShared "github.com/stockbook/stockbook/internal/shared"
)

func (s *Service) validate(form ScheduleForm) (ScheduleForm, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	return form, shared.Validate(form)
}

func validateWindow(f Filters) error {
	if !f.From.IsZero() && !f.To.IsZero() && !f.To.After(f.From) {
		return internalShared.ErrMissingInput
	}
	return nil
}
