package ratelimiter

import "errors"

// Package-level error definitions for rate limiter operations.
var (
	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStoreRequired indicates that no store was given to the limiter.
	ErrStoreRequired = errors.New("store is required")

	// ErrKeyRequired indicates an empty identifier.
	ErrKeyRequired = errors.New("identifier is required")

	// ErrStoreUnavailable indicates that the store backend is unavailable.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrTooManyConflicts indicates that an optimistic update kept losing races.
	ErrTooManyConflicts = errors.New("too many concurrent updates")
)
