// Package common defines shared constants and sentinel errors used across
// the SafeVault server and client. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration errors. Messages are shown to callers as-is.
	ErrorMissingField    = errors.New("all fields are required")
	ErrorWeakPassword    = errors.New("password must be at least 8 characters and include uppercase, lowercase, digit, and special character")
	ErrorPasswordTooLong = errors.New("password must not exceed 72 bytes")
	ErrorFieldTooLong    = errors.New("field is too long")
	ErrorUsernameTaken   = errors.New("username is already taken")
	ErrorEmailTaken      = errors.New("email is already registered")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
