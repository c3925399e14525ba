package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrForbidden = errors.New("operation not allowed")
	ErrNotFound  = errors.New("not found")
)

// ApiErr is an error that knows its HTTP status. The wrapped sentinel is
// what errors.Is matches; Field names the offending input for 4xx errors.
type ApiErr struct {
	StatusCode int
	err        error
	Details    string
	Field      string
	Cause      error
}

func (e *ApiErr) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.err.Error(), e.Details)
	}
	return e.err.Error()
}

// GetFullError joins the message with the chain of causes.
func (e *ApiErr) GetFullError() string {
	if e.Cause == nil {
		return e.Error()
	}
	if inner, ok := e.Cause.(*ApiErr); ok {
		return e.Error() + " -> " + inner.GetFullError()
	}
	return e.Error() + " -> " + e.Cause.Error()
}

func (e *ApiErr) Unwrap() error {
	return e.err
}

// As returns the *ApiErr carried by err, if any.
func As(err error) (*ApiErr, bool) {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func NewBadRequestError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: errors.New(message)}
}

func NewBadRequestErrorWithField(message, field, details string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        errors.New(message),
		Field:      field,
		Details:    details,
	}
}

func NewForbiddenError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusForbidden, err: fmt.Errorf("%w: %s", ErrForbidden, message)}
}

// NewNotFound reports a missing (or soft-deleted) entity.
func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
