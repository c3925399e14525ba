package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
	ErrDatabaseTimeout    = errors.New("database timeout")
)

// storeFailure maps a driver message fragment onto a status and sentinel.
// Both the Postgres and SQLite spellings are listed.
type storeFailure struct {
	fragments []string
	status    int
	sentinel  error
}

var storeFailures = []storeFailure{
	{[]string{"duplicate key", "UNIQUE constraint failed"}, http.StatusConflict, ErrAlreadyExists},
	{[]string{"foreign key constraint", "FOREIGN KEY constraint failed"}, http.StatusBadRequest, ErrInvalidReference},
	{[]string{"record not found"}, http.StatusNotFound, ErrNotFound},
	{[]string{"connection", "database is closed"}, http.StatusServiceUnavailable, ErrDatabaseConnection},
}

// NewDatabaseError turns a store failure during operation on entity into an
// ApiErr. The cause is kept so it still shows in logs and error bodies. A
// failed listing query always surfaces here; it is never an empty page.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	apiErr := &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    fmt.Sprintf("Failed to %s %s", operation, entity),
		Cause:      cause,
	}
	if cause == nil {
		return apiErr
	}

	if errors.Is(cause, context.DeadlineExceeded) {
		apiErr.StatusCode = http.StatusGatewayTimeout
		apiErr.err = ErrDatabaseTimeout
		return apiErr
	}

	msg := cause.Error()
	for _, f := range storeFailures {
		for _, fragment := range f.fragments {
			if strings.Contains(msg, fragment) {
				apiErr.StatusCode = f.status
				apiErr.err = fmt.Errorf("%s %w", entity, f.sentinel)
				return apiErr
			}
		}
	}
	return apiErr
}

func IsDatabaseConnectionError(err error) bool {
	return errors.Is(err, ErrDatabaseConnection)
}
