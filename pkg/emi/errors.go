package emi

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for operations referencing an unknown loan or
// transaction id.
var ErrNotFound = errors.New("not found")

// ErrNonConverging is returned when the tenure-reduction simulation does not
// pay the loan off within the iteration cap, meaning the installment no
// longer covers the accruing interest.
var ErrNonConverging = errors.New("schedule does not amortize within the iteration cap")

// ValidationError reports malformed or out-of-range input. No state is
// mutated when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErrorf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
