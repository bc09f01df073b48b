package mydata

import (
	"errors"
	"fmt"
)

// Common fetch errors
var (
	// ErrMissingCredentials is returned when the myDATA user id or
	// subscription key is not configured.
	ErrMissingCredentials = errors.New("missing myDATA credentials")

	// ErrAuthFailed is returned when the API rejects the configured
	// credentials (HTTP 401/403).
	ErrAuthFailed = errors.New("myDATA authentication failed")

	// ErrRequestFailed is returned when a page request fails at the
	// transport level or with a non-success HTTP status.
	ErrRequestFailed = errors.New("myDATA request failed")

	// ErrMalformedResponse is returned when a response page is not a
	// well-formed RequestedDoc document.
	ErrMalformedResponse = errors.New("malformed myDATA response")
)

// FetchError wraps errors with context about which page request failed.
type FetchError struct {
	// Op is the operation that failed (e.g., "FetchInvoices").
	Op string

	// Page is the 1-based page number of the failing request.
	Page int

	// Err is the underlying error.
	Err error

	// Details provides additional context, such as a response body excerpt.
	Details string
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("mydata: %s failed on page %d: %s: %v", e.Op, e.Page, e.Details, e.Err)
	}
	return fmt.Sprintf("mydata: %s failed on page %d: %v", e.Op, e.Page, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *FetchError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewFetchError creates a FetchError for the given operation and page.
func NewFetchError(op string, page int, err error, details string) *FetchError {
	return &FetchError{
		Op:      op,
		Page:    page,
		Err:     err,
		Details: details,
	}
}
