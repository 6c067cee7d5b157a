// Package validator sanitizes and validates the fields of the contact form.
//
// Validation is declarative: each check is a Rule pairing a boolean Check
// function with translation-friendly error metadata, and Apply evaluates a
// list of rules into a ValidationErrors slice that satisfies the error
// interface. Failures keep the order in which rules were declared, so the
// first entry for a field is the message shown to the user.
//
// # Field validators
//
// ValidateName, ValidateEmail and ValidateMessage each run the matching
// sanitizer first and then check the sanitized value:
//
//	name     length, chars, spaces, excessive
//	email    format, length, domain, dots, start
//	message  length, spaces, content
//
// Every ValidationError carries the field, the failing reason, a Spanish
// default message and a translation key of the form
// "validation.<field>.<reason>". Lengths are counted in runes.
//
// # Usage
//
//	res := validator.ValidateEmail(input)
//	if !res.Valid {
//	    first, _ := res.First()
//	    fmt.Println(first.Message)
//	}
//
// Custom rule sets can be built from the same primitives:
//
//	err := validator.Apply(
//	    validator.RuneLength("subject", subject, 3, 80),
//	    validator.Excludes("subject", "dots", subject, ".."),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs != nil {
//	    // handle field errors
//	}
//
// All functions are pure and safe for concurrent use.
package validator
