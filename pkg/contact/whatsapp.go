package contact

import (
	"strings"
	"unicode"
)

// DefaultGreeting names the business in the WhatsApp message.
const DefaultGreeting = "ElectroRedes Medellín"

// WhatsAppText builds the pre-filled message from the raw form values.
// Empty fields are replaced by placeholders.
func WhatsAppText(greeting string, f Form) string {
	if greeting == "" {
		greeting = DefaultGreeting
	}
	var b strings.Builder
	b.WriteString("Hola ")
	b.WriteString(greeting)
	b.WriteString(",\n\nMi nombre es: ")
	b.WriteString(orPlaceholder(f.Name, "[Tu nombre]"))
	b.WriteString("\nMi email es: ")
	b.WriteString(orPlaceholder(f.Email, "[Tu email]"))
	b.WriteString("\n\nMensaje:\n")
	b.WriteString(orPlaceholder(f.Message, "[Tu mensaje]"))
	return b.String()
}

// WhatsAppLink returns a wa.me deep link for phone carrying WhatsAppText.
// Non-digits are dropped from phone.
func WhatsAppLink(phone, greeting string, f Form) string {
	digits := strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	return "https://wa.me/" + digits + "?text=" + encodeURIComponent(WhatsAppText(greeting, f))
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}

// encodeURIComponent percent-encodes every byte except A-Z a-z 0-9 and
// - _ . ! ~ * ' ( ).
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
