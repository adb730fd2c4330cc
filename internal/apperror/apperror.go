// Package apperror defines the typed errors that cross layer boundaries.
//
// Repositories and services return these; only the HTTP layer decides which
// status code each one becomes. Anything that is not an *AppError is treated
// as a datastore failure and never shown to the caller.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

type AppError struct {
	Err     error  // sentinel, one of the Err* values above
	Message string // safe to return to the client
	Field   string // optional: request field that caused the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing resource. The id is kept out of the message so
// the client sees the same text for every id, e.g. "Model not found".
func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s %v", ErrNotFound, resource, id),
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func MethodNotAllowed(method string) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s", ErrMethodNotAllowed, method),
		Message: "Method not allowed",
	}
}
