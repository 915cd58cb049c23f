// Package client talks to the sociopedia HTTP API on behalf of the CLI.
//
// HTTPClient implements Client. Failures are reported as sentinel errors
// (ErrUnavailable, ErrUnauthorized, ErrInvalidCredentials, ErrAlreadyExists,
// ErrNotFound, ErrValidation) that callers match with errors.Is.
// The client holds no session state; the caller passes the access token.
package client
