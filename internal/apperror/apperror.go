// Package apperror defines the domain error taxonomy shared by all layers.
//
// Services return these errors; the HTTP layer maps them to status codes
// (see handler/response.go). Sentinel errors + errors.Is keep the service
// layer free of any HTTP knowledge.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a sentinel (for errors.Is matching) plus a human-readable
// message safe to return to API clients.
type AppError struct {
	Err     error  // sentinel category
	Message string // human-readable, client-safe
	Field   string // optional: field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthorized returns an AppError for failed authentication.
// Login deliberately reuses one message for every failure cause (missing
// fields, unknown email, wrong password) so responses never reveal whether
// an email is registered.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
