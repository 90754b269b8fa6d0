package client

import (
	"errors"
	"fmt"
)

// UpstreamError represents a failed required fetch: either a transport
// failure (StatusCode 0, Err set) or a non-2xx response from the catalog API.
// It propagates to the caller; there is no automatic retry.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("upstream %s: status %d", e.Endpoint, e.StatusCode)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstreamError reports whether err is (or wraps) an *UpstreamError.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
