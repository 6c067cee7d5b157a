package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

// spaceClass matches the whitespace set used by the browser form: ASCII
// whitespace, Unicode space separators, line/paragraph separators and BOM.
const spaceClass = `\t\n\x0B\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}`

// lineChar matches any rune except a line terminator.
const lineChar = `[^\n\r\x{2028}\x{2029}]`

// Pre-compiled regular expressions, applied in declaration order.
var (
	dangerousBlockRegexes = blockRegexes("script", "iframe", "object", "embed", "link", "meta", "style")

	eventHandlerRegex = regexp.MustCompile(asciiFold("on") + `\w+[` + spaceClass + `]*=`)

	protocolRegexes = literalRegexes(true, "javascript:", "vbscript:", "data:")

	controlCharRegex = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	whitespaceRegex = regexp.MustCompile(`[` + spaceClass + `]+`)

	nameDisallowedRegex  = regexp.MustCompile(`[^a-zA-ZáéíóúÁÉÍÓÚñÑ` + spaceClass + `]`)
	emailDisallowedRegex = regexp.MustCompile(`[^a-z0-9@._-]`)
	angleBracketRegex    = regexp.MustCompile(`[<>]`)

	sqlTokenRegexes = literalRegexes(true,
		"'", `"`, ";", "--", "/*", "*/", "xp_", "sp_",
		"UNION", "SELECT", "INSERT", "UPDATE", "DELETE",
		"DROP", "CREATE", "ALTER", "EXEC", "EXECUTE",
	)

	// Greedy on purpose: a match runs to the last closing delimiter on the line.
	templateRegexes = []*regexp.Regexp{
		regexp.MustCompile(`\{\{` + lineChar + `*\}\}`),
		regexp.MustCompile(`\{%` + lineChar + `*%\}`),
		regexp.MustCompile(`\$\{` + lineChar + `*\}`),
		regexp.MustCompile(`<%` + lineChar + `*%>`),
		regexp.MustCompile(`\{\{` + lineChar + `*\}\}`),
		regexp.MustCompile(`#\{` + lineChar + `*\}`),
	}

	fileInclusionRegexes = append(
		literalRegexes(false, "../", `..\`),
		literalRegexes(true,
			"/etc/", "/proc/", "/sys/", "/dev/", "/tmp/", "/var/", "/usr/",
			"/bin/", "/sbin/", "/boot/", "/root/", "/home/", "/opt/", "/mnt/",
			"/media/", `c:\`, `d:\`, `e:\`, `windows\`, `system32\`,
			"program files", "documents and settings", `users\`, `appdata\`,
			`temp\`, `inetpub\`, `wwwroot\`,
		)...,
	)
)

// blockRegexes builds one expression per tag matching the opening tag through
// the nearest closing tag of the same name.
func blockRegexes(tags ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(tags))
	for _, tag := range tags {
		res = append(res, regexp.MustCompile(`(?s)<`+asciiFold(tag)+`\b.*?</`+asciiFold(tag)+`>`))
	}
	return res
}

func literalRegexes(ignoreCase bool, literals ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(literals))
	for _, lit := range literals {
		pattern := regexp.QuoteMeta(lit)
		if ignoreCase {
			pattern = asciiFold(pattern)
		}
		res = append(res, regexp.MustCompile(pattern))
	}
	return res
}

// asciiFold makes every ASCII letter of pattern match both cases. Unlike
// (?i) it does not fold non-ASCII runes such as U+017F (ſ) onto 's' or
// U+212A (Kelvin) onto 'k'. pattern must not contain character classes.
func asciiFold(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern) * 4)
	for _, r := range pattern {
		lower, upper := unicode.ToLower(r), unicode.ToUpper(r)
		if r > unicode.MaxASCII || lower == upper {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('[')
		b.WriteRune(lower)
		b.WriteRune(upper)
		b.WriteByte(']')
	}
	return b.String()
}

// removeAll applies each expression in turn, every pass working on the output
// of the previous one.
func removeAll(s string, res []*regexp.Regexp) string {
	for _, re := range res {
		s = re.ReplaceAllLiteralString(s, "")
	}
	return s
}
