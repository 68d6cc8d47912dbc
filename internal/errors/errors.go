package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a ghost error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"    // 400
	ErrIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE" // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"          // 404
	ErrFileNotFound    ErrorCode = "FILE_NOT_FOUND"     // 404
	ErrConflict        ErrorCode = "CONFLICT"           // 409
	ErrInternal        ErrorCode = "INTERNAL"           // 500
)

// GhostError represents a structured error with code, status, and details.
type GhostError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *GhostError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
// Empty command/description on add or edit surfaces as this code.
func NewInvalidRequest(msg string) *GhostError {
	return &GhostError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewIndexOutOfRange creates a 400 error for a stale or invalid positional index.
func NewIndexOutOfRange(index, length int) *GhostError {
	return &GhostError{
		Code:    ErrIndexOutOfRange,
		Status:  400,
		Message: fmt.Sprintf("index %d out of range (collection has %d entries)", index, length),
		Details: map[string]any{"index": index, "length": length},
	}
}

// NewNotFound creates a 404 error for an unknown record id or category.
func NewNotFound(identifier string) *GhostError {
	return &GhostError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *GhostError {
	return &GhostError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *GhostError {
	return &GhostError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *GhostError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &GhostError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a GhostError with the given code.
func Is(err error, code ErrorCode) bool {
	var gErr *GhostError
	if stderrors.As(err, &gErr) {
		return gErr.Code == code
	}
	return false
}

// As unwraps err into a GhostError, converting anything else to INTERNAL.
func As(err error) *GhostError {
	var gErr *GhostError
	if stderrors.As(err, &gErr) {
		return gErr
	}
	return NewInternal(err)
}
