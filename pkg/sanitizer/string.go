package sanitizer

import (
	"strings"
	"unicode/utf8"
)

// Trim removes leading and trailing whitespace, including non-breaking
// spaces, line separators and the byte order mark.
func Trim(s string) string {
	return strings.TrimFunc(s, IsSpace)
}

// ToLower converts a string to lowercase.
func ToLower(s string) string {
	return strings.ToLower(s)
}

// NormalizeWhitespace collapses every run of whitespace into a single space.
func NormalizeWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllLiteralString(s, " ")
}

// LimitLength truncates s to at most maxLength runes.
func LimitLength(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}

	return string(runes[:maxLength])
}

// RuneCount returns the length of s in runes, the unit every cap in this
// package is expressed in.
func RuneCount(s string) int {
	return utf8.RuneCountInString(s)
}

// IsSpace reports whether r belongs to the whitespace set shared by every filter.
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}
