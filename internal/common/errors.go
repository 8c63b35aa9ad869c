// Package common defines shared constants and sentinel errors used across
// the Wayfarer server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token). Expired tokens and type
	// mismatches surface as ErrInvalidToken as well.
	ErrInvalidToken = errors.New("invalid token")

	// Refresh token lifecycle errors.
	ErrTokenRevoked = errors.New("token revoked")
	ErrTokenReuse   = errors.New("Token reuse detected")
)
