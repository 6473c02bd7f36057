package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned when the input is not an absolute http(s) URL
	ErrInvalidURL = errors.New("please enter a valid URL")

	// ErrFetchTimeout is returned when the page fetch exceeds its time budget
	ErrFetchTimeout = errors.New("website took too long to respond")

	// ErrNetwork is returned when the host cannot be reached (DNS, connection, TLS)
	ErrNetwork = errors.New("could not reach website")

	// ErrUpstream is returned when the website responds with a non-success status
	ErrUpstream = errors.New("website returned an error")

	// ErrExtractionFailed is returned when no strategy recovered a title or price
	ErrExtractionFailed = errors.New("could not find product information on this page")

	// ErrPurchaseNotFound is returned when a purchase does not exist
	ErrPurchaseNotFound = errors.New("purchase not found")

	// ErrInvalidPurchase is returned when purchase input fails validation
	ErrInvalidPurchase = errors.New("invalid purchase")
)

// ExtractionError is the failure returned by link extraction. Error() is safe to
// show to an end user; the internal cause is only reachable through errors.Is/As.
type ExtractionError struct {
	Kind       error
	StatusCode int
	Cause      error
}

// NewExtractionError builds an ExtractionError of the given kind.
func NewExtractionError(kind error, cause error) *ExtractionError {
	return &ExtractionError{Kind: kind, Cause: cause}
}

func (e *ExtractionError) Error() string {
	if e.Kind == ErrUpstream && e.StatusCode != 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Kind.Error(), e.StatusCode)
	}
	return e.Kind.Error()
}

func (e *ExtractionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
