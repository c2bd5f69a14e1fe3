// Package errors provides structured error types for the swapbench application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and benchmark pipeline
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - UNKNOWN_*: Lookup failures against static registries
//   - ENGINE_*: Constraint engine invocation failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPermutation, "value %d out of range", v)
//	if errors.Is(err, errors.ErrCodeInvalidPermutation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeEngineCrash, origErr, "minizinc exited early")
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
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidPermutation Code = "INVALID_PERMUTATION"
	ErrCodeInvalidPlan        Code = "INVALID_PLAN"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"

	// Registry lookup errors
	ErrCodeUnknownStrategy Code = "UNKNOWN_STRATEGY"
	ErrCodeUnknownEngine   Code = "UNKNOWN_ENGINE"

	// Engine invocation errors
	ErrCodeEngineTimeout   Code = "ENGINE_TIMEOUT"
	ErrCodeEngineCrash     Code = "ENGINE_CRASH"
	ErrCodeMalformedOutput Code = "MALFORMED_OUTPUT"

	// Internal errors
	ErrCodeConsistency Code = "CONSISTENCY_VIOLATION"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
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

// ConsistencyError reports a solution returned by an engine that fails
// verification. It always indicates a bug in an engine adapter or in the
// engine itself, never a property of the input.
type ConsistencyError struct {
	Strategy string // strategy that produced the solution
	K        int    // plan length that was requested
	Detail   string // which check failed
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	if e.Strategy != "" {
		return fmt.Sprintf("inconsistent solution from strategy %q at k=%d: %s", e.Strategy, e.K, e.Detail)
	}
	return fmt.Sprintf("inconsistent solution at k=%d: %s", e.K, e.Detail)
}

// Code returns the error code for this error type.
func (e *ConsistencyError) Code() Code {
	return ErrCodeConsistency
}
