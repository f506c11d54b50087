// Package common defines shared constants and sentinel errors used across
// client and server layers of the SKD tracker. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrorMalformedRow = errors.New("malformed row")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors. Every specific validation sentinel below is reported
	// wrapped together with ErrValidation, see Invalid.
	ErrValidation       = errors.New("validation error")
	ErrEmptyField       = errors.New("required field is empty")
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrUsernameTaken    = errors.New("username taken")
	ErrNegativeScore    = errors.New("score components must not be negative")
	ErrInvalidMode      = errors.New("invalid selection mode")

	// Multi-step confirmation errors.
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrConfirmationPhrase   = errors.New("confirmation phrase does not match")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// validationError carries a specific validation sentinel and a field name while
// still matching ErrValidation.
type validationError struct {
	field string
	err   error
}

func (e *validationError) Error() string {
	if e.field == "" {
		return e.err.Error()
	}
	return fmt.Sprintf("%s: %s", e.field, e.err.Error())
}

func (e *validationError) Unwrap() []error {
	return []error{ErrValidation, e.err}
}

// Invalid reports a validation failure of field. The returned error matches
// both ErrValidation and cause with errors.Is.
func Invalid(field string, cause error) error {
	return &validationError{field: field, err: cause}
}
