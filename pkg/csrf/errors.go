package csrf

import "errors"

var (
	ErrTokenGeneration = errors.New("csrf: failed to generate token")
	ErrTokenMissing    = errors.New("csrf: token missing")
	ErrTokenMismatch   = errors.New("csrf: token mismatch")
)
