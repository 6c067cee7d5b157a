package validator

import "errors"

var (
	// ErrValidationFailed is returned when validation fails but no specific error is provided.
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnknownField is returned when a field has no registered validator.
	ErrUnknownField = errors.New("unknown form field")
)
