package contact

import (
	"github.com/electroredes/contactguard/pkg/sanitizer"
	"github.com/electroredes/contactguard/pkg/validator"
)

// Form is the raw contact form as submitted.
type Form struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Message  string `json:"message" form:"message"`
	Honeypot string `json:"honeypot" form:"honeypot"`
}

// Data holds the sanitised field values.
type Data struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Result is the outcome of SanitizeAndValidate. Data is always filled, so a
// caller can repopulate the form even when Valid is false.
type Result struct {
	Valid bool `json:"isValid"`
	Data  Data `json:"sanitizedData"`
	// Errors maps each invalid field to its first message.
	Errors map[string]string `json:"errors"`
	// Failures keeps the first structured error per field for translation.
	Failures map[string]validator.ValidationError `json:"-"`
}

// SanitizeAndValidate runs the injection filter chain and the field
// validator on name, email and message. Every field is checked even after
// an earlier one fails.
func SanitizeAndValidate(f Form) Result {
	res := Result{
		Valid:    true,
		Errors:   make(map[string]string),
		Failures: make(map[string]validator.ValidationError),
	}

	fields := []struct {
		name     string
		raw      string
		validate func(string) validator.FieldResult
		dst      *string
	}{
		{validator.FieldName, f.Name, validator.ValidateName, &res.Data.Name},
		{validator.FieldEmail, f.Email, validator.ValidateEmail, &res.Data.Email},
		{validator.FieldMessage, f.Message, validator.ValidateMessage, &res.Data.Message},
	}

	for _, fd := range fields {
		fr := fd.validate(sanitizer.FormChain(fd.raw))
		*fd.dst = fr.Sanitized
		if fr.Valid {
			continue
		}
		res.Valid = false
		if first, ok := fr.First(); ok {
			res.Errors[fd.name] = first.Message
			res.Failures[fd.name] = first
		}
	}

	return res
}

// InputFilter applies the light per-keystroke filter of field to value.
func InputFilter(field, value string) (string, error) {
	switch field {
	case validator.FieldName:
		return sanitizer.FilterNameInput(value), nil
	case validator.FieldEmail:
		return sanitizer.FilterEmailInput(value), nil
	case validator.FieldMessage:
		return sanitizer.FilterMessageInput(value), nil
	default:
		return "", validator.ErrUnknownField
	}
}
