// Package errors provides structured error types for the canvas engine.
//
// This package defines error codes and types that enable:
//   - Typed failures from every pure domain service (CRUD, membership, layout)
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages in the CLI and editor status line
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes are grouped by the invariant family they protect:
//   - graph structure: INVALID_*, NODE_*, EDGE_*
//   - area policy: AREA_*, FOCUSED_*, CROSS_AREA_*, MODE_MISMATCH
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNodeNotFound, "node %q not found", id)
//	if errors.Is(err, errors.ErrCodeNodeNotFound) {
//	    // Handle missing node
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidScript, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Graph structure errors.
const (
	ErrCodeInvalidNodeID         Code = "INVALID_NODE_ID"
	ErrCodeInvalidNodeBounds     Code = "INVALID_NODE_BOUNDS"
	ErrCodeNodeAlreadyExists     Code = "NODE_ALREADY_EXISTS"
	ErrCodeNodeNotFound          Code = "NODE_NOT_FOUND"
	ErrCodeInvalidEdgeID         Code = "INVALID_EDGE_ID"
	ErrCodeEdgeEndpointNotFound  Code = "EDGE_ENDPOINT_NOT_FOUND"
	ErrCodeEdgeAlreadyExists     Code = "EDGE_ALREADY_EXISTS"
	ErrCodeEdgeNotFound          Code = "EDGE_NOT_FOUND"
	ErrCodeInvalidSnapshot       Code = "INVALID_SNAPSHOT"
	ErrCodeInvalidScript         Code = "INVALID_SCRIPT"
	ErrCodeInvalidConfig         Code = "INVALID_CONFIG"
	ErrCodeUnknownCommand        Code = "UNKNOWN_COMMAND"
	ErrCodeSessionNotFound       Code = "SESSION_NOT_FOUND"
	ErrCodeSessionAlreadyExists  Code = "SESSION_ALREADY_EXISTS"
	ErrCodeUnsupportedExportType Code = "UNSUPPORTED_EXPORT_TYPE"
)

// Area policy errors.
const (
	ErrCodeAreaDataMissing               Code = "AREA_DATA_MISSING"
	ErrCodeNodeWithoutArea               Code = "NODE_WITHOUT_AREA"
	ErrCodeNodeAssignedToMultipleAreas   Code = "NODE_ASSIGNED_TO_MULTIPLE_AREAS"
	ErrCodeAreaContainsMissingNode       Code = "AREA_CONTAINS_MISSING_NODE"
	ErrCodeFocusedNodeNotFound           Code = "FOCUSED_NODE_NOT_FOUND"
	ErrCodeFocusedNodeNotAssignedToArea  Code = "FOCUSED_NODE_NOT_ASSIGNED_TO_AREA"
	ErrCodeModeMismatch                  Code = "MODE_MISMATCH"
	ErrCodeCrossAreaEdgeForbidden        Code = "CROSS_AREA_EDGE_FORBIDDEN"
	ErrCodeAreaAlreadyExists             Code = "AREA_ALREADY_EXISTS"
	ErrCodeAreaNotFound                  Code = "AREA_NOT_FOUND"
	ErrCodeInvalidAreaID                 Code = "INVALID_AREA_ID"
)

// Internal errors.
const (
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

// IsAreaPolicy reports whether err carries one of the area policy codes.
// The editor uses this to show policy violations differently from
// structural failures.
func IsAreaPolicy(err error) bool {
	switch GetCode(err) {
	case ErrCodeAreaDataMissing, ErrCodeNodeWithoutArea, ErrCodeNodeAssignedToMultipleAreas,
		ErrCodeAreaContainsMissingNode, ErrCodeFocusedNodeNotFound, ErrCodeFocusedNodeNotAssignedToArea,
		ErrCodeModeMismatch, ErrCodeCrossAreaEdgeForbidden, ErrCodeAreaAlreadyExists,
		ErrCodeAreaNotFound, ErrCodeInvalidAreaID:
		return true
	}
	return false
}
