package validator

// defaultMessages holds the Spanish texts shown when no translation is available.
var defaultMessages = map[string]string{
	"validation.name.length":    "Nombre debe tener entre 2 y 100 caracteres",
	"validation.name.chars":     "Nombre solo puede contener letras y espacios",
	"validation.name.spaces":    "Nombre no puede estar vacío",
	"validation.name.excessive": "Nombre no puede tener espacios excesivos",

	"validation.email.format": "Formato de email inválido",
	"validation.email.length": "Email debe tener entre 5 y 254 caracteres",
	"validation.email.domain": "Dominio de email inválido",
	"validation.email.dots":   "Email no puede tener puntos consecutivos",
	"validation.email.start":  "Email no puede empezar con punto o @",

	"validation.message.length":  "Mensaje debe tener entre 10 y 2000 caracteres",
	"validation.message.spaces":  "Mensaje no puede estar vacío o solo espacios",
	"validation.message.content": "Mensaje no puede ser solo caracteres repetidos",
}

// DefaultMessage returns the built-in text for a translation key, or the key
// itself when none is registered.
func DefaultMessage(key string) string {
	if msg, ok := defaultMessages[key]; ok {
		return msg
	}
	return key
}
