package sanitizer

// SanitizeName keeps ASCII letters, Spanish accented vowels, ñ/Ñ and
// whitespace, collapses whitespace runs and trims.
func SanitizeName(s string) string {
	if s == "" {
		return ""
	}

	result := SanitizeText(s)
	result = nameDisallowedRegex.ReplaceAllLiteralString(result, "")
	result = NormalizeWhitespace(result)
	result = Trim(result)

	return LimitLength(result, MaxNameLength)
}

// SanitizeEmail lowercases and keeps only characters valid in a plain address.
func SanitizeEmail(s string) string {
	if s == "" {
		return ""
	}

	result := ToLower(SanitizeText(s))
	result = emailDisallowedRegex.ReplaceAllLiteralString(result, "")

	return LimitLength(result, MaxEmailLength)
}

// SanitizeMessage drops any remaining angle brackets and trims.
func SanitizeMessage(s string) string {
	if s == "" {
		return ""
	}

	result := angleBracketRegex.ReplaceAllLiteralString(SanitizeText(s), "")
	result = Trim(result)

	return LimitLength(result, MaxMessageLength)
}

// FilterNameInput is the lightweight per-keystroke filter for the name field.
func FilterNameInput(s string) string {
	return LimitLength(nameDisallowedRegex.ReplaceAllLiteralString(s, ""), MaxNameLength)
}

// FilterEmailInput is the lightweight per-keystroke filter for the email field.
func FilterEmailInput(s string) string {
	return LimitLength(emailDisallowedRegex.ReplaceAllLiteralString(ToLower(s), ""), MaxEmailLength)
}

// FilterMessageInput is the lightweight per-keystroke filter for the message field.
func FilterMessageInput(s string) string {
	return LimitLength(angleBracketRegex.ReplaceAllLiteralString(s, ""), MaxMessageLength)
}
