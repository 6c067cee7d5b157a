package sanitizer

// Length caps, in runes.
const (
	MaxTextLength    = 1000
	MaxNameLength    = 100
	MaxEmailLength   = 254
	MaxMessageLength = 2000
)

// SanitizeText is the base filter every field goes through. It strips
// script-capable blocks (script, iframe, object, embed, link, meta, style),
// inline event handler prefixes, javascript:/vbscript:/data: schemes and
// control characters other than tab, LF and CR, then caps the result at
// MaxTextLength runes.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}

	result := removeAll(s, dangerousBlockRegexes)
	result = eventHandlerRegex.ReplaceAllLiteralString(result, "")
	result = removeAll(result, protocolRegexes)
	result = controlCharRegex.ReplaceAllLiteralString(result, "")

	return LimitLength(result, MaxTextLength)
}

// StripSQLTokens removes quote characters, comment markers and a fixed list of
// SQL keywords, case-insensitively. Each token is removed in a single pass in
// list order, so tokens re-formed by an earlier removal are left in place
// ("SELSELECTECT" becomes "SELECT").
func StripSQLTokens(s string) string {
	if s == "" {
		return ""
	}
	return removeAll(s, sqlTokenRegexes)
}

// PreventSSTI removes template expressions ({{ }}, {% %}, ${ }, <% %>, #{ }).
// A match extends to the last closing delimiter on the same line, so text
// between two expressions on one line is removed with them.
func PreventSSTI(s string) string {
	if s == "" {
		return ""
	}
	return removeAll(s, templateRegexes)
}

// PreventFileInclusion removes directory traversal sequences and well-known
// Unix and Windows system path fragments.
func PreventFileInclusion(s string) string {
	if s == "" {
		return ""
	}
	return removeAll(s, fileInclusionRegexes)
}

// FormChain is the injection filter chain applied to every form field before
// the field sanitizer: SQL tokens, then template expressions, then file paths.
var FormChain = Compose(StripSQLTokens, PreventSSTI, PreventFileInclusion)
