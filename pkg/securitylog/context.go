package securitylog

import (
	"context"
	"net/http"
)

// Request is the client metadata attached to every event.
type Request struct {
	UserAgent string
	URL       string
}

type requestKey struct{}

func WithRequest(ctx context.Context, r Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

func RequestFromContext(ctx context.Context) (Request, bool) {
	r, ok := ctx.Value(requestKey{}).(Request)
	return r, ok
}

// Middleware stores the request user agent and page URL in the context.
// The page URL is the Referer when present, since the form lives there,
// and the request URL otherwise.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := Request{
			UserAgent: r.UserAgent(),
			URL:       r.Referer(),
		}
		if meta.URL == "" {
			meta.URL = requestURL(r)
		}
		next.ServeHTTP(w, r.WithContext(WithRequest(r.Context(), meta)))
	})
}

func requestURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	} else if p := r.Header.Get("X-Forwarded-Proto"); p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
