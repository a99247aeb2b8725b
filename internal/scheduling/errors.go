package scheduling

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers malformed or unacceptable input: unknown
	// service, bad date/time strings, past dates, closed days, missing
	// rejection reasons.
	ErrValidation = errors.New("validation error")

	// ErrInvalidTransition is returned when the lifecycle table forbids
	// the requested status change.
	ErrInvalidTransition = errors.New("invalid status transition")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func validationWrap(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
