// Package common defines shared constants and sentinel errors used across
// the document library. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// Validation errors.
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyContent = errors.New("empty content")

	// Auth errors. ErrUnauthorized deliberately carries no detail:
	// a missing user and a wrong password must be indistinguishable.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")

	// Extraction capability error (missing parser for a format).
	ErrUnsupportedFormat = errors.New("unsupported format")

	// Generic internal failure surfaced instead of raw storage errors.
	ErrInternal = errors.New("internal error")
)
