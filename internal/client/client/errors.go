package client

import "errors"

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("email already registered")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
)
