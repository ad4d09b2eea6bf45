// Package validation holds request and domain input validation.
package validation

import (
	"fmt"

	domainerrors "upline/internal/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct validates a request struct against its validate tags and folds
// the first failure into a domain validation error.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return domainerrors.Validation("INVALID_FIELD",
			fmt.Sprintf("field %s failed validation on %s", fe.Field(), fe.Tag()))
	}
	return domainerrors.Validation("INVALID_REQUEST", "invalid request")
}
