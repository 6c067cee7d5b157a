package ratelimiter

import "context"

// UpdateFunc mutates a record in place and reports whether it must be saved.
type UpdateFunc func(rec *Record) (bool, error)

// Store defines the interface for rate limit storage backends.
type Store interface {
	// Update loads the record for key (empty if missing), passes it to fn and
	// saves it when fn asks for it, all as one atomic step. A record left
	// empty by fn is removed.
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// Delete clears the rate limit state for the given key.
	Delete(ctx context.Context, key string) error
}
