package shared

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	internalShared "github.com/stockbook/stockbook/internal/shared"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validate checks struct tags on v. Any failure is reported as MissingInput.
func Validate(v any) error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", internalShared.ErrMissingInput, err)
	}
	return nil
}
