package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Optional integrations: object storage, search, broker, cache.
var (
	ErrUpstream        = errors.New("upstream service error")
	ErrFeatureDisabled = errors.New("feature disabled")
)

func NewUpstreamError(service string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUpstream,
		Details:    fmt.Sprintf("%s request failed", service),
		Cause:      cause,
	}
}

// NewFeatureDisabledError is returned by routes whose backing service was not configured.
func NewFeatureDisabledError(feature string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotImplemented,
		err:        ErrFeatureDisabled,
		Details:    fmt.Sprintf("%s is not enabled on this server", feature),
	}
}

func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstream)
}
