package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ValidationError represents a single validation error with translation support.
type ValidationError struct {
	Field             string
	Reason            string
	Message           string
	TranslationKey    string
	TranslationValues map[string]any
}

// ValidationErrors represents a collection of validation errors.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := lo.Map(ve, func(err ValidationError, _ int) string {
		return fmt.Sprintf("%s: %s", err.Field, err.Message)
	})
	return "validation failed: " + strings.Join(parts, "; ")
}

func (ve *ValidationErrors) Add(err ValidationError) {
	*ve = append(*ve, err)
}

func (ve ValidationErrors) Has(field string) bool {
	return lo.ContainsBy(ve, func(err ValidationError) bool {
		return err.Field == field
	})
}

// HasReason reports whether the field failed with the given reason.
func (ve ValidationErrors) HasReason(field, reason string) bool {
	return lo.ContainsBy(ve, func(err ValidationError) bool {
		return err.Field == field && err.Reason == reason
	})
}

func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// First returns the earliest error recorded for field.
func (ve ValidationErrors) First(field string) (ValidationError, bool) {
	return lo.Find(ve, func(err ValidationError) bool {
		return err.Field == field
	})
}

func (ve ValidationErrors) Fields() []string {
	return lo.Uniq(lo.Map(ve, func(err ValidationError, _ int) string {
		return err.Field
	}))
}

func (ve ValidationErrors) IsEmpty() bool {
	return len(ve) == 0
}

// Rule represents a single validation rule.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply executes multiple validation rules and returns any validation errors.
// Failures keep the order in which the rules were given.
func Apply(rules ...Rule) error {
	var errors ValidationErrors

	for _, rule := range rules {
		if !rule.Check() {
			errors = append(errors, rule.Error)
		}
	}

	if errors.IsEmpty() {
		return nil
	}

	return errors
}

// ExtractValidationErrors extracts ValidationErrors from an error.
func ExtractValidationErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}

	var validationErr ValidationErrors
	if errors.As(err, &validationErr) {
		return validationErr
	}

	return nil
}

func IsValidationError(err error) bool {
	if err == nil {
		return false
	}

	var validationErr ValidationErrors
	return errors.As(err, &validationErr)
}
