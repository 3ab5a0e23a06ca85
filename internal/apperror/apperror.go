// Package apperror defines the domain errors shared by every layer.
//
// SENTINEL ERRORS + WRAPPING:
// Each error category has a sentinel (ErrNotFound, ErrValidation, ...).
// Constructors return an *AppError that wraps the sentinel, so callers can
// classify with errors.Is(err, ErrNotFound) while still carrying a
// human-readable message (and, for validation errors, the offending field).
//
// The service layer returns these; only the handler layer translates them
// into HTTP status codes. That keeps business logic protocol-agnostic.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError is a domain error with a category (Err), a human-readable
// message, and optionally the name of the field that caused it.
type AppError struct {
	Err     error  // sentinel category, checked with errors.Is
	Message string // human-readable description
	Field   string // optional: the field that failed validation
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes the sentinel so errors.Is can walk the chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that no record of the given resource exists with that id.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports that a field failed validation. The field name is
// carried separately so handlers can tell clients WHICH field was rejected.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports that a write collides with an existing record
// (e.g. a username that's already taken).
func Conflict(resource, detail string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict: %s", resource, detail),
	}
}

// Forbidden reports that the requester is known but lacks permission.
// HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized reports that the request carries no valid identity.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
