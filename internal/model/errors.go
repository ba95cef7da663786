// Package model defines the domain types shared by repositories, services
// and handlers, and the sentinel errors that make up the error taxonomy.
// Callers match them with errors.Is; services add detail with %w wrapping.
package model

import "errors"

var (
	// Registration and lookup.
	ErrDuplicateEmail = errors.New("email already exists")
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation error")
	ErrConflict       = errors.New("conflict")

	// ErrProfileMissing is returned when profile data is needed for a user
	// whose profile row has not been linked yet.
	ErrProfileMissing = errors.New("profile not ready")

	// Credentials and sessions.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("inactive user")
	ErrInvalidUser        = errors.New("invalid user")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// Authorization.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")

	// ErrHashing signals an entropy or resource failure in the hasher.
	ErrHashing = errors.New("hashing failed")
)
