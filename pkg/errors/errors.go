// Package errors provides structured error types for conceptmap.
//
// Errors carry a machine-readable [Code] alongside a human-readable message,
// so the CLI can print a friendly line while scripts and tests can branch on
// the category.
//
// # Error Codes
//
// Codes follow a prefix convention:
//   - INVALID_*: the caller supplied something unusable
//   - *NOT_FOUND: a concept, file or cache entry does not exist
//   - NETWORK_ERROR, TIMEOUT: a remote backend (redis) misbehaved
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConcept, "duplicate concept id %q", id)
//	if errors.Is(err, errors.ErrCodeInvalidConcept) {
//	    // report and skip
//	}
//
//	err = errors.Wrap(errors.ErrCodeNetwork, cause, "redis get %s", key)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidGraph   Code = "INVALID_GRAPH"
	ErrCodeInvalidConcept Code = "INVALID_CONCEPT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Missing resources
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeConceptNotFound Code = "CONCEPT_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Remote backends
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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
// Only the outermost *Error in the chain is consulted.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, or "" if err carries none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error values,
// and err.Error() otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ExitCode maps an error to a process exit status: 2 for invalid input of any
// kind, 3 for missing resources, 1 for everything else.
func ExitCode(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidGraph, ErrCodeInvalidConcept,
		ErrCodeInvalidFormat, ErrCodeInvalidConfig, ErrCodeInvalidPath:
		return 2
	case ErrCodeNotFound, ErrCodeConceptNotFound, ErrCodeFileNotFound:
		return 3
	default:
		return 1
	}
}
