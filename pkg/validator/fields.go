package validator

import (
	"fmt"

	"github.com/electroredes/contactguard/pkg/sanitizer"
)

// Contact form field names.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

// FieldResult is the outcome of validating one form field.
type FieldResult struct {
	Sanitized string
	Valid     bool
	Errors    ValidationErrors
}

// First returns the first failing rule, which is the one shown to the user.
func (r FieldResult) First() (ValidationError, bool) {
	if len(r.Errors) == 0 {
		return ValidationError{}, false
	}
	return r.Errors[0], true
}

func newFieldResult(sanitized string, rules ...Rule) FieldResult {
	errs := ExtractValidationErrors(Apply(rules...))
	return FieldResult{
		Sanitized: sanitized,
		Valid:     errs.IsEmpty(),
		Errors:    errs,
	}
}

// ValidateName sanitizes and validates a person's name.
func ValidateName(raw string) FieldResult {
	name := sanitizer.SanitizeName(raw)

	return newFieldResult(name,
		RuneLength(FieldName, name, 2, sanitizer.MaxNameLength),
		OnlyRunes(FieldName, name, isNameRune),
		NotBlank(FieldName, name, 1),
		Excludes(FieldName, ReasonExcessive, name, "   "),
	)
}

// ValidateEmail sanitizes and validates an email address.
func ValidateEmail(raw string) FieldResult {
	email := sanitizer.SanitizeEmail(raw)

	return newFieldResult(email,
		EmailFormat(FieldEmail, email),
		RuneLength(FieldEmail, email, 5, sanitizer.MaxEmailLength),
		EmailDomain(FieldEmail, email),
		Excludes(FieldEmail, ReasonDots, email, ".."),
		NoLeading(FieldEmail, ReasonStart, email, ".", "@"),
	)
}

// ValidateMessage sanitizes and validates the free-text message body.
func ValidateMessage(raw string) FieldResult {
	msg := sanitizer.SanitizeMessage(raw)

	return newFieldResult(msg,
		RuneLength(FieldMessage, msg, 10, sanitizer.MaxMessageLength),
		NotBlank(FieldMessage, msg, 10),
		NotRepeated(FieldMessage, msg, 10),
	)
}

// Validate dispatches to the validator registered for field.
func Validate(field, raw string) (FieldResult, error) {
	switch field {
	case FieldName:
		return ValidateName(raw), nil
	case FieldEmail:
		return ValidateEmail(raw), nil
	case FieldMessage:
		return ValidateMessage(raw), nil
	default:
		return FieldResult{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return true
	case sanitizer.IsSpace(r):
		return true
	}
	switch r {
	case 'á', 'é', 'í', 'ó', 'ú', 'Á', 'É', 'Í', 'Ó', 'Ú', 'ñ', 'Ñ':
		return true
	}
	return false
}
