package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidEnum  = errors.New("value not allowed")
	ErrOutOfRange   = errors.New("value out of range")
	ErrInvalidState = errors.New("invalid state")
)

// NewInvalidEnumError rejects a value that is not in the allow-list for field.
func NewInvalidEnumError(field, value string, allowed []string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidEnum,
		Details:    fmt.Sprintf("%s %q is not one of: %s", field, value, strings.Join(allowed, ", ")),
		Field:      field,
	}
}

// NewOutOfRangeError rejects a numeric value outside [min, max].
func NewOutOfRangeError(field string, value, min, max int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrOutOfRange,
		Details:    fmt.Sprintf("%s must be between %d and %d, got %d", field, min, max, value),
		Field:      field,
	}
}

// NewBelowMinimumError rejects a value below a lower bound with no upper bound.
func NewBelowMinimumError(field string, value, min float64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrOutOfRange,
		Details:    fmt.Sprintf("%s must be >= %g, got %g", field, min, value),
		Field:      field,
	}
}

func NewInvalidStateError(message string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidState,
		Details:    message,
	}
}

func IsInvalidEnumError(err error) bool {
	return errors.Is(err, ErrInvalidEnum)
}

func IsOutOfRangeError(err error) bool {
	return errors.Is(err, ErrOutOfRange)
}

func IsInvalidStateError(err error) bool {
	return errors.Is(err, ErrInvalidState)
}
