// Package common defines shared constants and sentinel errors used across
// the server and client layers of gophauth. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Store failure hidden behind the service boundary.
	ErrorInternal = errors.New("internal error")

	// Input rejection: checked before any store access.
	ErrMissingFields         = errors.New("missing fields")
	ErrInvalidEmailFormat    = errors.New("invalid email format")
	ErrInvalidPasswordLength = errors.New("password must be between 8-20 characters")
	ErrMissingAuthHeader     = errors.New("authorization header missing")
	ErrMissingToken          = errors.New("token missing")

	// Business rejection: requires a store round-trip.
	ErrEmailTaken           = errors.New("email is already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	// Token rejection (invalid signature, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
