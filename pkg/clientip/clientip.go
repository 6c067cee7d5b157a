package clientip

import (
	"net"
	"net/http"
	"net/textproto"
	"strings"
)

// Proxy headers understood by the resolver, in default priority order.
const (
	HeaderCloudflare   = "CF-Connecting-IP"
	HeaderDigitalOcean = "DO-Connecting-IP"
	HeaderForwardedFor = "X-Forwarded-For"
	HeaderRealIP       = "X-Real-IP"
)

// DefaultHeaders is the header order used by GetIP.
var DefaultHeaders = []string{HeaderCloudflare, HeaderDigitalOcean, HeaderForwardedFor, HeaderRealIP}

// Config lists the proxy headers a deployment trusts. Leave it empty unless
// a proxy in front of the server overwrites these headers, since clients can
// set them freely.
type Config struct {
	TrustedHeaders []string `env:"CLIENTIP_TRUSTED_HEADERS" envSeparator:","`
}

// NewResolverFromConfig creates a resolver trusting cfg.TrustedHeaders.
func NewResolverFromConfig(cfg Config) *Resolver {
	return NewResolver(cfg.TrustedHeaders...)
}

// Resolver extracts client IPs, trusting only the configured proxy headers.
// With no headers only RemoteAddr is used.
type Resolver struct {
	headers []string
}

// NewResolver creates a resolver that checks headers in the given order
// before falling back to RemoteAddr.
func NewResolver(headers ...string) *Resolver {
	canon := make([]string, 0, len(headers))
	for _, h := range headers {
		if h = strings.TrimSpace(h); h != "" {
			canon = append(canon, textproto.CanonicalMIMEHeaderKey(h))
		}
	}
	return &Resolver{headers: canon}
}

var defaultResolver = NewResolver(DefaultHeaders...)

// GetIP returns the client IP using DefaultHeaders.
func GetIP(r *http.Request) string {
	return defaultResolver.GetIP(r)
}

// GetIP returns the client's IP address or an empty string if none is valid.
func (res *Resolver) GetIP(r *http.Request) string {
	for _, name := range res.headers {
		value := r.Header.Get(name)
		if value == "" {
			continue
		}

		if name == HeaderForwardedFor {
			// The list can hold several hops; the first valid one is the client.
			for ip := range strings.SplitSeq(value, ",") {
				if parsed := parseIP(ip); parsed != "" {
					return parsed
				}
			}
			continue
		}

		if parsed := parseIP(value); parsed != "" {
			return parsed
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// parseIP validates and normalizes an IP address string.
func parseIP(ipStr string) string {
	ipStr = strings.TrimSpace(ipStr)
	if ipStr == "" {
		return ""
	}

	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}

	return ip.String()
}
