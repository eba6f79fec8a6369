package service

import (
	"fmt"

	"go-retail-inventory/pkg/apperr"
	"go-retail-inventory/pkg/validator"
)

// firstValidationError converts the first struct-validation failure into a
// typed domain error with the offending field attached.
func firstValidationError(errs []*validator.ErrorResponse) error {
	e := errs[0]
	return apperr.Validation(e.FailedField, fmt.Sprintf("failed on rule %q", e.Tag))
}
