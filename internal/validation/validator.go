// Package validation adapts go-playground/validator to Echo's Validator
// hook so handlers can call c.Validate on bound DTOs.
package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/colegium/campus-api/internal/apperr"
)

// EchoValidator wraps a single validator instance (it caches struct
// metadata, so one per process).
type EchoValidator struct {
	validate *validator.Validate
}

// New builds the validator used by the whole API.
func New() *EchoValidator {
	return &EchoValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator. Violations surface as the Validation
// kind so the error mapping stays uniform with the rest of the taxonomy.
func (ev *EchoValidator) Validate(i interface{}) error {
	if err := ev.validate.Struct(i); err != nil {
		return apperr.Wrap(apperr.Validation(err.Error()), err)
	}
	return nil
}
