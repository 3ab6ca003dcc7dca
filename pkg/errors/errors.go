// Package errors provides structured error types for tastopo.
//
// This package defines error codes and types that enable:
//   - Consistent error handling from the CLI down to the API clients
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every failure mode in the generator maps to one code:
//   - LOOKUP_FAILED: a place name could not be resolved
//   - PARSE_ERROR: malformed user input (geo URI, translate offsets)
//   - CONFIG_ERROR: unrecognized paper size, invalid scale, bad config file
//   - NETWORK_ERROR: a request to an external service failed
//   - RENDER_ERROR: fetched map content could not be decoded or composed
//   - UNSUPPORTED_FORMAT: an export format other than SVG or PDF
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConfig, "unrecognized paper size %q", size)
//	if errors.Is(err, errors.ErrCodeConfig) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "fetching %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for each failure category.
const (
	// ErrCodeLookup indicates a place-name lookup found no match.
	ErrCodeLookup Code = "LOOKUP_FAILED"

	// ErrCodeParse indicates malformed user input, such as a bad geo URI
	// or non-integer translate offsets.
	ErrCodeParse Code = "PARSE_ERROR"

	// ErrCodeConfig indicates invalid configuration: unknown paper size,
	// non-positive scale, or an unreadable config file.
	ErrCodeConfig Code = "CONFIG_ERROR"

	// ErrCodeNetwork indicates a failed request to an external service.
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// ErrCodeRender indicates map content that could not be decoded or
	// composed into the sheet.
	ErrCodeRender Code = "RENDER_ERROR"

	// ErrCodeUnsupportedFormat indicates an export format other than
	// SVG or PDF.
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Is reports whether err carries the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	for ; err != nil; err = errors.Unwrap(err) {
		var e *Error
		if errors.As(err, &e) && e.Code == code {
			return true
		}
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
