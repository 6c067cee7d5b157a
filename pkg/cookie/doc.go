// Package cookie writes and reads HTTP cookies with shared defaults.
//
// Cookies are HttpOnly and scoped to "/" with the configured domain, Secure
// flag and SameSite mode. When secrets are configured, SetSigned and
// GetSigned append and verify an HMAC-SHA256 tag so a client cannot forge a
// value such as a CSRF token. The first secret signs; all secrets verify,
// which allows key rotation.
//
//	m, err := cookie.New(cookie.Config{Secrets: []string{secret}, Secure: true})
//	if err != nil {
//		return err
//	}
//	_ = m.SetSigned(w, "contact_csrf", token, time.Hour)
//	token, err := m.GetSigned(r, "contact_csrf")
package cookie
