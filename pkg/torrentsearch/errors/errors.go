// Package errors defines the error types surfaced by torrent searches.
// SearchError carries a type so callers can tell a bad request from an
// indexer that could not be reached.
package errors

import (
	"errors"
	"fmt"
)

// Error type constants
const (
	ErrorTypeRequestInvalid  = "REQUEST_INVALID"
	ErrorTypeTransportFailed = "TRANSPORT_FAILED"
)

// SearchError represents errors that occur while searching indexers
type SearchError struct {
	Type    string
	Message string
	Cause   error
}

func (e *SearchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *SearchError) Unwrap() error {
	return e.Cause
}

// NewSearchError creates a new SearchError
func NewSearchError(errorType, message string, cause error) *SearchError {
	return &SearchError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewRequestError creates an error for an unusable search request.
// It is never retried.
func NewRequestError(message string, cause error) *SearchError {
	return NewSearchError(ErrorTypeRequestInvalid, message, cause)
}

// NewTransportError creates an error for a failed feed or page fetch.
func NewTransportError(message string, cause error) *SearchError {
	return NewSearchError(ErrorTypeTransportFailed, message, cause)
}

// IsRequestError reports whether err (or anything it wraps) is a request error.
func IsRequestError(err error) bool {
	return hasType(err, ErrorTypeRequestInvalid)
}

// IsTransportError reports whether err (or anything it wraps) is a transport error.
func IsTransportError(err error) bool {
	return hasType(err, ErrorTypeTransportFailed)
}

func hasType(err error, errorType string) bool {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Type == errorType
	}
	return false
}
