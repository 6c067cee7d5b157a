// Package csrf issues and checks anti-forgery tokens for the contact form.
//
// Tokens are 32 random bytes in hex. The server stores one in a cookie and
// the page echoes it in a request header; ValidateToken compares the two in
// constant time.
//
//	token, err := csrf.GenerateToken()
//	...
//	if !csrf.ValidateToken(r.Header.Get("X-CSRF-Token"), cookieValue) {
//		// reject
//	}
//
// NewIdentifier creates opaque per-client identifiers usable as rate limit
// keys when no client address is available.
package csrf
