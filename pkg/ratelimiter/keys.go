package ratelimiter

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"

	"github.com/electroredes/contactguard/pkg/clientip"
)

// maxKeyLength is the maximum allowed length for a rate limit key
// to prevent excessively long storage keys.
const maxKeyLength = 64

// KeyFunc extracts an identifier from the request.
type KeyFunc func(r *http.Request) string

var remoteAddrOnly = clientip.NewResolver()

// IPKey identifies the caller by the IP stored by clientip middleware,
// falling back to RemoteAddr. It never reads proxy headers itself.
func IPKey(r *http.Request) string {
	return ResolverKey(remoteAddrOnly)(r)
}

// ResolverKey identifies the caller by the IP stored in the context by
// res.Middleware, or resolves it with res when the middleware did not run.
func ResolverKey(res *clientip.Resolver) KeyFunc {
	return func(r *http.Request) string {
		if ip := clientip.GetIPFromContext(r.Context()); ip != "" {
			return ip
		}
		return res.GetIP(r)
	}
}

// HeaderKey identifies the caller by the value of a request header.
func HeaderKey(name string) KeyFunc {
	return func(r *http.Request) string {
		return strings.TrimSpace(r.Header.Get(name))
	}
}

// Composite combines multiple key functions into one.
// Long keys (>64 chars) are hashed using FNV-1a for storage efficiency.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}

		if len(parts) == 0 {
			return ""
		}

		if len(parts) == 1 && len(parts[0]) <= maxKeyLength {
			return parts[0]
		}

		combined := strings.Join(parts, ":")

		if len(combined) > maxKeyLength {
			h := fnv.New64a()
			h.Write([]byte(combined))
			// Base36 keeps the key around 13 chars
			return strconv.FormatUint(h.Sum64(), 36)
		}

		return combined
	}
}
