package suppliers

import (
	"strings"

	"github.com/stockbook/stockbook/internal/masterdata/shared"
)

func (s *Service) validate(form SupplierForm) (SupplierForm, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	form.Phone = strings.TrimSpace(form.Phone)
	form.Address = strings.TrimSpace(form.Address)
	return form, shared.Validate(form)
}
