package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrValidation ErrorCode = iota + 1000
	ErrConflict
	ErrNotFound
	ErrUnauthorized
	ErrInternal
)

// Error constructors
func Validation(message string) *AppError {
	return &AppError{Code: ErrValidation, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Code: ErrConflict, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Unauthorized(message string) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: message}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}

// Storage wraps an unanticipated persistence failure. Unique-constraint
// violations are translated to Conflict before they reach this constructor.
func Storage(op string, err error) *AppError {
	return &AppError{Code: ErrInternal, Message: fmt.Sprintf("storage failure during %s", op), Err: err}
}

// CodeOf returns the classified code of err, ErrInternal for plain errors.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

func IsValidation(err error) bool   { return CodeOf(err) == ErrValidation }
func IsConflict(err error) bool     { return CodeOf(err) == ErrConflict }
func IsNotFound(err error) bool     { return CodeOf(err) == ErrNotFound }
func IsUnauthorized(err error) bool { return CodeOf(err) == ErrUnauthorized }
