// Package errors provides structured error types for scopeplot.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (malformed batches, bad config)
//   - *_CURSOR, REFERENCE_CYCLE: Illegal cursor graph operations
//   - NOT_*: Resource not found or not yet available
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidBatch, "expected %d channels, got %d", want, got)
//	if errors.Is(err, errors.ErrCodeInvalidBatch) {
//	    // discard or re-shape the batch
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "decode %s", path)
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
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidBatch  Code = "INVALID_BATCH"
	ErrCodeInvalidAxis   Code = "INVALID_AXIS"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidMode   Code = "INVALID_MODE"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Cursor graph errors
	ErrCodeInvalidCursor   Code = "INVALID_CURSOR"
	ErrCodeDuplicateCursor Code = "DUPLICATE_CURSOR"
	ErrCodeCursorNotFound  Code = "CURSOR_NOT_FOUND"
	ErrCodeReferenceCycle  Code = "REFERENCE_CYCLE"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNotReady Code = "NOT_READY"
	ErrCodeNetwork  Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the HTTP status the server reports for it.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidBatch, ErrCodeInvalidAxis, ErrCodeInvalidConfig,
		ErrCodeInvalidMode, ErrCodeInvalidName, ErrCodeInvalidFormat, ErrCodeInvalidCursor:
		return 400
	case ErrCodeNotFound, ErrCodeCursorNotFound:
		return 404
	case ErrCodeDuplicateCursor, ErrCodeReferenceCycle:
		return 409
	case ErrCodeNotReady:
		return 503
	case ErrCodeUnsupported:
		return 501
	default:
		return 500
	}
}
