// Package errors provides the coded errors shared by the CLI, the HTTP API
// and the build pipeline.
//
// Every error that crosses a package boundary carries a [Code]. The HTTP
// API derives its status from the code and the CLI prints the message.
// Codes group by prefix:
//
//   - INVALID_*: the input was rejected (document, settings, paths)
//   - *NOT_FOUND: a file, build or template does not exist
//   - STORAGE, TIMEOUT: a cache or store backend failed
//   - INTERNAL_ERROR, UNSUPPORTED: a broken invariant or missing backend
//
// Usage:
//
//	err := errors.Wrap(errors.ErrCodeStorage, cause, "persist template %s", name)
//	if errors.Is(err, errors.ErrCodeStorage) {
//	    // roll back
//	}
//
// Validation collects all problems of one input in [ValidationErrors]
// before failing.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidSettings Code = "INVALID_SETTINGS"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
	ErrCodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"

	// Backend errors
	ErrCodeStorage Code = "STORAGE"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error formats as "CODE: message" followed by ": cause" when set.
func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error caused by cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether any *Error in the chain of err has code. A storage
// failure that wraps a missing file matches both codes.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the code of the outermost *Error in the chain of err,
// or "" if there is none.
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its
// code and cause, or err.Error() for other errors.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// ValidationErrors collects every problem found while validating one input,
// so callers can report all of them at once instead of failing on the first.
type ValidationErrors struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	switch len(e.Problems) {
	case 0:
		return "no problems"
	case 1:
		return e.Problems[0]
	default:
		return fmt.Sprintf("%s (and %d more)", e.Problems[0], len(e.Problems)-1)
	}
}

// Add records a formatted problem.
func (e *ValidationErrors) Add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

// Err returns nil when no problem was recorded. Otherwise it returns an
// *Error with the given code and message whose cause is e, so the full
// problem list stays reachable through errors.As.
func (e *ValidationErrors) Err(code Code, message string) error {
	if len(e.Problems) == 0 {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: e}
}
