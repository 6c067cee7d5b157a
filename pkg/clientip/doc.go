// Package clientip resolves the originating client IP of an HTTP request.
//
// The address is the identifier the contact rate limiter counts attempts
// against, so only headers set by a trusted proxy should be consulted. A
// Resolver checks its configured headers in order and falls back to the TCP
// peer address:
//
//	res := clientip.NewResolver(clientip.HeaderCloudflare, clientip.HeaderForwardedFor)
//	router.Use(res.Middleware)
//
//	// later, in a handler
//	ip := clientip.GetIPFromContext(r.Context())
//
// GetIP and Middleware use DefaultHeaders (Cloudflare, DigitalOcean,
// X-Forwarded-For, X-Real-IP). NewResolver() with no headers trusts
// RemoteAddr only; contactd builds its resolver from Config
// (CLIENTIP_TRUSTED_HEADERS), which is empty by default.
//
// GetIP never returns an error. If no valid address is found an empty string
// is returned so callers can decide how to proceed.
package clientip
