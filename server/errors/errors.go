// Package errors carries application errors with HTTP status and context.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError an application error with HTTP status and context
type AppError struct {
	Code    int    `json:"status_code"`
	Message string `json:"message"` // user-facing message
	Err     error  `json:"-"`       // internal error for logs, never serialized
	Context string `json:"-"`       // extra context (function, parameters)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code
func (e *AppError) StatusCode() int {
	return e.Code
}

// WithContext attaches context to the error
func (e *AppError) WithContext(context string) *AppError {
	e.Context = context
	return e
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a 400 Bad Request error
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a 500 Internal Server Error. The user sees a
// generic message; details go to the logs only.
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "Internal server error",
		Err:     errors.Join(errors.New(message), err),
	}
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
		Err:     err,
	}
}

// NewServiceUnavailableError creates a 503 Service Unavailable error
func NewServiceUnavailableError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusServiceUnavailable,
		Message: message,
		Err:     err,
	}
}

// WrapError wraps an existing error with context. An AppError passes
// through with the context attached; anything else becomes an internal
// error.
func WrapError(err error, context string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.WithContext(context)
	}
	return NewInternalError(context, err)
}
