// Package common defines shared constants and sentinel errors used across
// the dailyword server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Scripture provider errors.
	ErrAuthentication      = errors.New("provider authentication failed")
	ErrUpstreamUnavailable = errors.New("provider unavailable")

	// Version errors.
	ErrUnlicensedVersion    = errors.New("version is not licensed")
	ErrMisconfiguredDefault = errors.New("configured default version is not licensed")
	ErrNoAuthorizedVersions = errors.New("no authorized versions")
	ErrNoDefaultVersion     = errors.New("no version could be resolved")

	// ErrPrecondition marks a caller bug, e.g. resolving a passage for an
	// unresolved version.
	ErrPrecondition = errors.New("precondition violated")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
