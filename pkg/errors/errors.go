// Package errors provides structured error types for mavenfetch.
//
// Every failure the resolver can report carries a machine-readable [Code].
// Most of them are contained at the coordinate level: the driver logs them,
// records the coordinate as skipped and keeps walking the graph. Only
// malformed input and unrecoverable collaborator failures abort a run.
//
// # Error Codes
//
//   - MALFORMED_COORDINATE: a coordinate string is not group:artifact:version
//   - METADATA_UNAVAILABLE: no repository returned a POM for a coordinate
//   - VERSION_CONFLICT: one group:artifact resolved to two versions
//   - TRANSPORT_FAILURE: network-level error against one repository
//   - PERSISTENCE_FAILURE: a package could not be written to the output directory
//   - CYCLIC_DEFINITION: a parent chain or property refers back to itself
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedCoordinate, "invalid coordinate %q", s)
//	if errors.Is(err, errors.ErrCodeMalformedCoordinate) {
//	    // reject input
//	}
//
//	err := errors.Wrap(errors.ErrCodeTransport, origErr, "GET %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput        Code = "INVALID_INPUT"
	ErrCodeInvalidPath         Code = "INVALID_PATH"
	ErrCodeInvalidConfig       Code = "INVALID_CONFIG"
	ErrCodeMalformedCoordinate Code = "MALFORMED_COORDINATE"

	// Resolution errors
	ErrCodeMetadataUnavailable Code = "METADATA_UNAVAILABLE"
	ErrCodeVersionConflict     Code = "VERSION_CONFLICT"
	ErrCodeCyclicDefinition    Code = "CYCLIC_DEFINITION"

	// I/O errors
	ErrCodeTransport    Code = "TRANSPORT_FAILURE"
	ErrCodePersistence  Code = "PERSISTENCE_FAILURE"
	ErrCodeNoRepository Code = "NO_REPOSITORY"

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
