package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const minSecretLength = 32

// Config holds cookie defaults loaded from the environment.
type Config struct {
	Secrets  []string `env:"COOKIE_SECRETS" envSeparator:","`
	Domain   string   `env:"COOKIE_DOMAIN"`
	Secure   bool     `env:"COOKIE_SECURE" envDefault:"true"`
	SameSite string   `env:"COOKIE_SAME_SITE" envDefault:"strict"`
}

// Manager writes and reads cookies with shared defaults. Signing is
// available when at least one secret is configured; the first secret signs,
// every secret verifies.
type Manager struct {
	secrets  []string
	template http.Cookie
}

// New creates a manager from cfg.
func New(cfg Config) (*Manager, error) {
	secrets := make([]string, 0, len(cfg.Secrets))
	for i, s := range cfg.Secrets {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
		secrets = append(secrets, s)
	}

	return &Manager{
		secrets: secrets,
		template: http.Cookie{
			Path:     "/",
			Domain:   cfg.Domain,
			Secure:   cfg.Secure,
			HttpOnly: true,
			SameSite: parseSameSite(cfg.SameSite),
		},
	}, nil
}

// CanSign reports whether the manager has a signing secret.
func (m *Manager) CanSign() bool {
	return len(m.secrets) > 0
}

// Set writes a plain cookie that lives for maxAge.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	c := m.template
	c.Name = name
	c.Value = value
	c.MaxAge = int(maxAge / time.Second)
	http.SetCookie(w, &c)
}

// Get returns the raw value of a cookie.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrCookieNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Delete expires a cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	c := m.template
	c.Name = name
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, &c)
}

// SetSigned writes value with an HMAC so tampering is detected on read.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge time.Duration) error {
	if !m.CanSign() {
		return ErrNoSecret
	}
	m.Set(w, name, base64.RawURLEncoding.EncodeToString([]byte(value))+"."+m.mac(m.secrets[0], value), maxAge)
	return nil
}

// GetSigned returns the verified value of a signed cookie.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if !m.CanSign() {
		return "", ErrNoSecret
	}

	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	encoded, sig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrInvalidFormat
	}
	value, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, secret := range m.secrets {
		if subtle.ConstantTimeCompare([]byte(sig), []byte(m.mac(secret, string(value)))) == 1 {
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}

func (m *Manager) mac(secret, value string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}
