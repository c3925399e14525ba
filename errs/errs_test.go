package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNewDatabaseError(t *testing.T) {
	tests := []struct {
		name       string
		cause      error
		wantStatus int
		wantIs     error
	}{
		{"postgres duplicate", errors.New(`ERROR: duplicate key value violates unique constraint "idx_gigs_slug"`), http.StatusConflict, ErrAlreadyExists},
		{"sqlite duplicate", errors.New("UNIQUE constraint failed: gigs.slug"), http.StatusConflict, ErrAlreadyExists},
		{"foreign key", errors.New("FOREIGN KEY constraint failed"), http.StatusBadRequest, ErrInvalidReference},
		{"not found", errors.New("record not found"), http.StatusNotFound, ErrNotFound},
		{"closed pool", errors.New("sql: database is closed"), http.StatusServiceUnavailable, ErrDatabaseConnection},
		{"timeout", fmt.Errorf("count gigs: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrDatabaseTimeout},
		{"anything else", errors.New("syntax error at or near"), http.StatusInternalServerError, ErrDatabaseQuery},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("list", "gigs", tt.cause)
			if err.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", err.StatusCode, tt.wantStatus)
			}
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantIs)
			}
			if !errors.Is(err.Cause, tt.cause) {
				t.Errorf("cause not kept: %v", err.Cause)
			}
		})
	}

	if !IsDatabaseConnectionError(NewDatabaseError("find", "gig", errors.New("database is closed"))) {
		t.Error("expected a connection error")
	}
}

func TestGetFullError(t *testing.T) {
	inner := NewUpstreamError("s3", errors.New("access denied"))
	outer := &ApiErr{StatusCode: http.StatusBadGateway, err: ErrUpstream, Details: "presign", Cause: inner}

	want := "upstream service error: presign -> upstream service error: s3 request failed -> access denied"
	if got := outer.GetFullError(); got != want {
		t.Errorf("GetFullError() = %q, want %q", got, want)
	}
}

func TestAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("update gig: %w", NewOutOfRangeError("basic_delivery_days", 120, 1, 90))
	apiErr, ok := As(wrapped)
	if !ok {
		t.Fatal("expected an ApiErr")
	}
	if apiErr.Field != "basic_delivery_days" || !IsOutOfRangeError(wrapped) {
		t.Errorf("got %+v", apiErr)
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Error("plain error reported as ApiErr")
	}
}
