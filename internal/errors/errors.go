package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a nudge error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrUniqueConstraint ErrorCode = "UNIQUE_CONSTRAINT" // 409
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// NudgeError represents a structured error with code, status, and details.
type NudgeError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *NudgeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *NudgeError {
	return &NudgeError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a record that does not exist.
// kind names the record type ("user", "habit").
func NewNotFound(kind, identifier string) *NudgeError {
	return &NudgeError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", kind, identifier),
		Details: map[string]any{"kind": kind, "identifier": identifier},
	}
}

// NewUniqueConstraint creates a 409 error for an insert that collided with
// an existing row.
func NewUniqueConstraint(msg string) *NudgeError {
	return &NudgeError{
		Code:    ErrUniqueConstraint,
		Status:  409,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *NudgeError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &NudgeError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if err, or any error it wraps, is a NudgeError with the given code.
func Is(err error, code ErrorCode) bool {
	var nErr *NudgeError
	if stderrors.As(err, &nErr) {
		return nErr.Code == code
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 500 for errors that
// are not NudgeErrors.
func StatusOf(err error) int {
	var nErr *NudgeError
	if stderrors.As(err, &nErr) && nErr.Status != 0 {
		return nErr.Status
	}
	return 500
}
