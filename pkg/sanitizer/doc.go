// Package sanitizer provides the text filters used to clean contact form input
// before it is validated and relayed.
//
// The filters are grouped in three layers:
//
//   - Base – SanitizeText strips script-capable markup blocks, inline event
//     handler prefixes, dangerous URI schemes and control characters, and caps
//     the text at MaxTextLength runes.
//
//   - Injection – StripSQLTokens, PreventSSTI and PreventFileInclusion remove
//     SQL tokens, template expressions and file-system path fragments. They
//     are plain ordered substring removals; FormChain composes them in the
//     order the form pipeline requires.
//
//   - Field – SanitizeName, SanitizeEmail and SanitizeMessage apply the base
//     filter followed by a per-field character whitelist and length cap.
//
// Every filter is a func(string) string, so they combine with Apply and
// Compose:
//
//	clean := sanitizer.Compose(
//	    sanitizer.FormChain,
//	    sanitizer.SanitizeMessage,
//	)
//
//	safe := clean("hola {{7*7}} <script>x</script>mundo") // "hola  mundo"
//
// Removed fragments leave the surrounding spaces in place; only the ends are
// trimmed.
//
// # Limitations
//
// The injection filters are not a parser. A single ordered pass can leave a
// token that was re-formed by an earlier removal, and template expressions are
// matched greedily to the last closing delimiter on a line. Both behaviours
// are kept as is; callers needing server-grade protection must use
// parameterised queries and context-aware escaping instead.
//
// Lengths are counted in runes. Case-insensitive patterns fold ASCII letters
// only, so lookalikes such as U+017F (ſ) are not treated as 's'.
//
// # Error handling
//
// None of the helpers returns an error. An empty input always yields an empty
// output.
//
// All regular expressions are compiled once at package initialisation and the
// helpers hold no state, so they are safe for concurrent use.
package sanitizer
