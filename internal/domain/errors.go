package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials is returned when Amazon API credentials are absent at startup
	ErrMissingCredentials = errors.New("amazon api credentials missing")

	// ErrInvalidASIN is returned when an identifier is not a 10-character alphanumeric ASIN
	ErrInvalidASIN = errors.New("invalid ASIN")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when the Amazon API signals throttling
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrAuthFailed is returned when the Amazon API rejects the request signature.
	// Surfaced distinctly from transient failures so callers can alert on signing
	// regressions instead of retrying.
	ErrAuthFailed = errors.New("amazon api rejected request signature")

	// ErrProductNotFound is returned when a well-formed response carries no items
	ErrProductNotFound = errors.New("product not found")

	// ErrUpstreamFormat is returned when the Amazon API response has an unexpected shape
	ErrUpstreamFormat = errors.New("unexpected amazon api response shape")

	// ErrTransient is returned on timeouts, connection failures, and 5xx responses.
	// Retry-eligible; retry policy belongs to the caller.
	ErrTransient = errors.New("transient amazon api failure")
)

// APIError carries the classification of a failed Amazon API call along with
// the originating HTTP status and raw body for diagnostics. It unwraps to one
// of the sentinel errors above, so callers classify with errors.Is.
type APIError struct {
	Err        error
	Message    string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v: %s (status %d)", e.Err, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Message)
}

// Unwrap returns the sentinel error classifying this failure.
func (e *APIError) Unwrap() error {
	return e.Err
}
