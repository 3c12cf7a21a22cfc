// Package errs defines the application error taxonomy. Every operation
// surfaces one of these codes alongside its payload, independent of the
// transport status code.
package errs

import (
	"errors"
	"fmt"
)

// Code identifies a class of application error.
type Code string

const (
	CodeNotFound        Code = "not_found"
	CodeConflict        Code = "conflict"
	CodeValidation      Code = "validation"
	CodeUnauthenticated Code = "unauthenticated"
	CodeUnauthorized    Code = "unauthorized"
	// CodeIndexPending means the authoritative record-store write committed
	// but the search index upsert did not. The catalog entry exists and will
	// become searchable after a re-sync.
	CodeIndexPending Code = "index_pending"
	CodeInternal     Code = "internal"
)

// Error carries an application error code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error with the given code and message around a cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func NotFound(message string) *Error        { return New(CodeNotFound, message) }
func Conflict(message string) *Error        { return New(CodeConflict, message) }
func Validation(message string) *Error      { return New(CodeValidation, message) }
func Unauthenticated(message string) *Error { return New(CodeUnauthenticated, message) }
func Unauthorized(message string) *Error    { return New(CodeUnauthorized, message) }

// IndexPending wraps an index synchronization failure. Callers treat it as a
// warning: the primary write succeeded.
func IndexPending(err error) *Error {
	return Wrap(CodeIndexPending, "catalog updated, index pending", err)
}

// Internal wraps an unexpected storage or infrastructure failure.
func Internal(err error) *Error {
	return Wrap(CodeInternal, "internal error", err)
}

// CodeOf extracts the application code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given application code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
