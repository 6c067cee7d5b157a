// Package messages renders user-facing texts in Spanish or English.
//
// The catalog is a YAML file embedded in the binary. Top-level keys are
// language codes; nested keys are flattened with dots, so
// validation.email.format and error.rate_limited address single templates.
// Templates use %{name} placeholders.
//
//	cat := messages.Default()
//	lang := cat.Match(r.Header.Get("Accept-Language"))
//	text := cat.T(lang, "error.rate_limited", map[string]any{"seconds": 42})
//
// Match negotiates with golang.org/x/text/language and falls back to
// Spanish.
package messages
