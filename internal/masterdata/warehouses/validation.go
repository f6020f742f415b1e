package warehouses

import (
	"strings"

	"github.com/stockbook/stockbook/internal/masterdata/shared"
)

func (s *Service) validate(form WarehouseForm) (WarehouseForm, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Location = strings.TrimSpace(form.Location)
	return form, shared.Validate(form)
}
