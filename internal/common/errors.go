// Package common defines shared constants and sentinel errors used across
// client and server layers of fintrack. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal   = errors.New("internal error")
	ErrValidation = errors.New("validation error")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrTokenExpired = errors.New("token expired")

	// Sync-specific errors.
	ErrUnavailable    = errors.New("server unavailable")
	ErrConflict       = errors.New("record already exists remotely")
	ErrSyncInProgress = errors.New("sync already in progress")
)
