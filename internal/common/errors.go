// Package common defines shared constants and sentinel errors used across
// the Revline client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable = errors.New("server unavailable")

	// Auth errors.
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrUnknownUserType  = errors.New("unknown user type")
	ErrMissingToken     = errors.New("login response carried no token")
	ErrSessionNotFound  = errors.New("no persisted session")
	ErrSessionCorrupted = errors.New("persisted session unreadable")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
