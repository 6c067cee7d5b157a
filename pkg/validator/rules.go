package validator

import (
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/electroredes/contactguard/pkg/sanitizer"
)

// Failure reasons reported by the contact field rules.
const (
	ReasonLength    = "length"
	ReasonChars     = "chars"
	ReasonSpaces    = "spaces"
	ReasonExcessive = "excessive"
	ReasonFormat    = "format"
	ReasonDomain    = "domain"
	ReasonDots      = "dots"
	ReasonStart     = "start"
	ReasonContent   = "content"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?@[a-zA-Z0-9]([a-zA-Z0-9.-]*[a-zA-Z0-9])?\.[a-zA-Z]{2,}$`)

func fieldError(field, reason string, values map[string]any) ValidationError {
	key := "validation." + field + "." + reason
	tv := map[string]any{"field": field}
	for k, v := range values {
		tv[k] = v
	}
	return ValidationError{
		Field:             field,
		Reason:            reason,
		Message:           DefaultMessage(key),
		TranslationKey:    key,
		TranslationValues: tv,
	}
}

// RuneLength checks that value holds between min and max runes.
func RuneLength(field, value string, min, max int) Rule {
	return Rule{
		Check: func() bool {
			n := sanitizer.RuneCount(value)
			return n >= min && n <= max
		},
		Error: fieldError(field, ReasonLength, map[string]any{"min": min, "max": max}),
	}
}

// OnlyRunes checks that value is non-empty and every rune satisfies allowed.
func OnlyRunes(field, value string, allowed func(rune) bool) Rule {
	return Rule{
		Check: func() bool {
			return value != "" && lo.EveryBy([]rune(value), allowed)
		},
		Error: fieldError(field, ReasonChars, nil),
	}
}

// NotBlank checks that value keeps at least min runes once surrounding
// whitespace is removed.
func NotBlank(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return sanitizer.RuneCount(sanitizer.Trim(value)) >= min
		},
		Error: fieldError(field, ReasonSpaces, map[string]any{"min": min}),
	}
}

// Excludes fails when value contains substr.
func Excludes(field, reason, value, substr string) Rule {
	return Rule{
		Check: func() bool {
			return !strings.Contains(value, substr)
		},
		Error: fieldError(field, reason, nil),
	}
}

// NoLeading fails when value starts with any of prefixes.
func NoLeading(field, reason, value string, prefixes ...string) Rule {
	return Rule{
		Check: func() bool {
			return !lo.SomeBy(prefixes, func(p string) bool {
				return strings.HasPrefix(value, p)
			})
		},
		Error: fieldError(field, reason, nil),
	}
}

// EmailFormat checks the strict local@domain.tld shape.
func EmailFormat(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return emailRegex.MatchString(value)
		},
		Error: fieldError(field, ReasonFormat, nil),
	}
}

// EmailDomain checks that value contains a dot and does not end with one.
func EmailDomain(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.Contains(value, ".") && !strings.HasSuffix(value, ".")
		},
		Error: fieldError(field, ReasonDomain, nil),
	}
}

// NotRepeated fails when the whole value is a single character repeated at
// least min times. Line terminators never count as the repeated character.
func NotRepeated(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return !isRepeatedRun(value, min)
		},
		Error: fieldError(field, ReasonContent, map[string]any{"min": min}),
	}
}

func isRepeatedRun(s string, min int) bool {
	runes := []rune(s)
	if len(runes) < min {
		return false
	}
	first := runes[0]
	if isLineTerminator(first) {
		return false
	}
	return lo.EveryBy(runes[1:], func(r rune) bool { return r == first })
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x2028 || r == 0x2029
}
