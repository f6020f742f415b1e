package products

import (
	"strings"

	"github.com/stockbook/stockbook/internal/masterdata/shared"
	internalShared "github.com/stockbook/stockbook/internal/shared"
)

func (s *Service) validate(form ProductForm) (ProductForm, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.SKU = strings.TrimSpace(form.SKU)
	if err := shared.Validate(form); err != nil {
		return form, err
	}
	if form.Price.IsNegative() || form.Cost.IsNegative() {
		return form, internalShared.ErrMissingInput
	}
	return form, nil
}
