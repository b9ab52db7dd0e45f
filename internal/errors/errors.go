// Package errors defines stable error codes for all unimoddb failure modes.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ModNotFound indicates a name, identifier, or mass-window lookup matched zero rows
	ModNotFound ErrorCode = "MOD_NOT_FOUND"
	// InvalidMassType indicates a mass type other than "mono" or "avg"
	InvalidMassType ErrorCode = "INVALID_MASS_TYPE"
	// MalformedFeed indicates the external feed is missing a required field on a record
	MalformedFeed ErrorCode = "MALFORMED_FEED"
	// StorageError indicates an underlying database failure
	StorageError ErrorCode = "STORAGE_ERROR"
)

// UnimodError represents a unimoddb error with a stable code and message
type UnimodError struct {
	Code    ErrorCode
	Message string
	cause   error // Underlying error (not part of the public surface)
}

// New creates a new UnimodError
func New(code ErrorCode, message string) *UnimodError {
	return &UnimodError{Code: code, Message: message}
}

// Newf creates a new UnimodError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *UnimodError {
	return &UnimodError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new UnimodError wrapping an underlying cause
func Wrap(code ErrorCode, message string, cause error) *UnimodError {
	return &UnimodError{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *UnimodError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *UnimodError) Unwrap() error {
	return e.cause
}

// IsCode reports whether err carries the given error code anywhere in its chain
func IsCode(err error, code ErrorCode) bool {
	var ue *UnimodError
	if stderrors.As(err, &ue) {
		return ue.Code == code
	}
	return false
}
