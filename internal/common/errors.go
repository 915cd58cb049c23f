// Package common defines shared constants and sentinel errors used across
// the server and the CLI client. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"strings"
)

var (
	// Repository-level errors.
	ErrNotFound            = errors.New("not found")
	ErrDuplicateIdentifier = errors.New("identifier already registered")

	// Service-level errors.
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")

	// Auth errors. Every token failure matches ErrUnauthorized as well.
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNoToken               = errors.New("no token")
	ErrTokenMalformed        = &tokenError{msg: "token malformed"}
	ErrTokenInvalidSignature = &tokenError{msg: "token signature is invalid"}
	ErrTokenExpired          = &tokenError{msg: "token expired"}
)

type tokenError struct {
	msg string
}

func (e *tokenError) Error() string { return e.msg }

func (e *tokenError) Is(target error) bool { return target == ErrUnauthorized }

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when client input is missing or malformed.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	if len(parts) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
