package services

import (
	"errors"
	"fmt"
)

// Failure kinds. Every service error wraps exactly one of these so handlers
// can map it to an HTTP status with errors.Is.
var (
	ErrValidation   = errors.New("validation")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error pairs a failure kind with a caller-facing message.
type Error struct {
	kind    error
	message string
}

func (e *Error) Error() string { return e.message }
func (e *Error) Unwrap() error { return e.kind }

func invalid(format string, args ...any) error {
	return &Error{kind: ErrValidation, message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) error {
	return &Error{kind: ErrNotFound, message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &Error{kind: ErrConflict, message: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...any) error {
	return &Error{kind: ErrForbidden, message: fmt.Sprintf(format, args...)}
}

func unauthorized(format string, args ...any) error {
	return &Error{kind: ErrUnauthorized, message: fmt.Sprintf(format, args...)}
}
