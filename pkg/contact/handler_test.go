package contact_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electroredes/contactguard/pkg/clientip"
	"github.com/electroredes/contactguard/pkg/contact"
	"github.com/electroredes/contactguard/pkg/cookie"
	"github.com/electroredes/contactguard/pkg/environment"
	"github.com/electroredes/contactguard/pkg/ratelimiter"
	"github.com/electroredes/contactguard/pkg/securitylog"
)

type response struct {
	Data  map[string]string    `json:"data"`
	Error *contact.ErrorDetail `json:"error"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var res response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	return res
}

func newTestHandler(t *testing.T, sink contact.Sink, store ratelimiter.Store, opts ...contact.HandlerOption) http.Handler {
	t.Helper()

	if store == nil {
		store = ratelimiter.NewMemoryStore()
	}
	limiter, err := ratelimiter.New(store, testLimits, ratelimiter.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	if sink == nil {
		sink = &recordingSink{}
	}
	svc, err := contact.NewService(limiter, sink, securitylog.New())
	require.NoError(t, err)

	return contact.NewHandler(svc, opts...).Routes()
}

func postJSON(t *testing.T, h http.Handler, path string, body any, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	for _, m := range mutate {
		m(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Submit(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		sink := &recordingSink{}
		h := newTestHandler(t, sink, nil)

		rec := postJSON(t, h, "/", validForm, func(r *http.Request) {
			r.Header.Set("User-Agent", "test-agent")
		})
		require.Equal(t, http.StatusOK, rec.Code)
		res := decodeResponse(t, rec)
		assert.Equal(t, "success", res.Data["status"])
		assert.Equal(t, "¡Mensaje enviado exitosamente!", res.Data["message"])

		require.Len(t, sink.subs, 1)
		assert.Equal(t, "test-agent", sink.subs[0].UserAgent)
	})

	t.Run("urlencoded form", func(t *testing.T) {
		t.Parallel()
		sink := &recordingSink{}
		h := newTestHandler(t, sink, nil)

		form := url.Values{
			"name":    {validForm.Name},
			"email":   {validForm.Email},
			"message": {validForm.Message},
		}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, sink.subs, 1)
		assert.Equal(t, "user@example.com", sink.subs[0].Email)
	})

	t.Run("honeypot looks like success", func(t *testing.T) {
		t.Parallel()
		sink := &recordingSink{}
		h := newTestHandler(t, sink, nil)

		f := validForm
		f.Honeypot = "bot"
		rec := postJSON(t, h, "/", f)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", decodeResponse(t, rec).Data["status"])
		assert.Zero(t, sink.calls)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t, nil, nil)

		for _, tc := range []struct{ contentType, body string }{
			{"application/json", "{"},
			{"application/json", `{"name":"Ana","phone":"1"}`},
			{"text/plain", "name=Ana"},
			{"", "name=Ana"},
		} {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, tc.body)
			assert.Equal(t, contact.CodeBadRequest, decodeResponse(t, rec).Error.Code)
		}
	})

	t.Run("validation errors are localised", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t, nil, nil)

		rec := postJSON(t, h, "/", contact.Form{Name: "J", Email: "user@example.com", Message: "short"},
			func(r *http.Request) { r.Header.Set("Accept-Language", "en-US,en;q=0.9") })
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		res := decodeResponse(t, rec)
		require.NotNil(t, res.Error)
		assert.Equal(t, contact.CodeValidation, res.Error.Code)
		assert.Equal(t, "Check the highlighted fields and try again.", res.Error.Message)
		assert.Equal(t, map[string]string{
			"name":    "Name must be between 2 and 100 characters",
			"message": "Message must be between 10 and 2000 characters",
		}, res.Error.Details)
	})

	t.Run("rate limited then blocked", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t, nil, nil)

		for range testLimits.MaxAttempts {
			rec := postJSON(t, h, "/", contact.Form{Name: "J"})
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		}

		rec := postJSON(t, h, "/", validForm)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "300", rec.Header().Get("Retry-After"))
		res := decodeResponse(t, rec)
		assert.Equal(t, contact.CodeRateLimited, res.Error.Code)
		assert.Equal(t, "Demasiados intentos. Espera 300 segundos.", res.Error.Message)

		rec = postJSON(t, h, "/", validForm, func(r *http.Request) { r.Header.Set("Accept-Language", "en") })
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		res = decodeResponse(t, rec)
		assert.Equal(t, contact.CodeBlocked, res.Error.Code)
		assert.Equal(t, "Temporarily blocked. Try again in 5 minutes.", res.Error.Message)

		// A different client address has its own budget.
		rec = postJSON(t, h, "/", validForm, func(r *http.Request) { r.RemoteAddr = "198.51.100.9:4000" })
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("relay failure", func(t *testing.T) {
		t.Parallel()
		sink := &recordingSink{err: &contact.SubmissionError{StatusCode: http.StatusBadGateway}}
		h := newTestHandler(t, sink, nil)

		rec := postJSON(t, h, "/", validForm)
		require.Equal(t, http.StatusBadGateway, rec.Code)
		res := decodeResponse(t, rec)
		assert.Equal(t, contact.CodeSubmission, res.Error.Code)
		assert.Equal(t, "HTTP 502", res.Error.Details["cause"])

		rec = postJSON(t, h, "/", validForm, func(r *http.Request) {
			*r = *r.WithContext(environment.WithContext(r.Context(), environment.Production))
		})
		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Empty(t, decodeResponse(t, rec).Error.Details)
	})

	t.Run("limiter unavailable", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t, nil, brokenStore{})

		rec := postJSON(t, h, "/", validForm)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, contact.CodeUnavailable, decodeResponse(t, rec).Error.Code)
	})

	t.Run("unexpected sink error", func(t *testing.T) {
		t.Parallel()
		sink := contact.SinkFunc(func(context.Context, contact.Submission) error {
			return errors.New("boom")
		})
		h := newTestHandler(t, sink, nil)

		rec := postJSON(t, h, "/", validForm)
		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "boom", decodeResponse(t, rec).Error.Details["cause"])
	})

	t.Run("custom identifier", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t, nil, nil, contact.WithIdentifier(ratelimiter.HeaderKey("X-Client")))

		for range testLimits.MaxAttempts {
			postJSON(t, h, "/", contact.Form{}, func(r *http.Request) { r.Header.Set("X-Client", "a") })
		}
		rec := postJSON(t, h, "/", validForm, func(r *http.Request) { r.Header.Set("X-Client", "a") })
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)

		rec = postJSON(t, h, "/", validForm, func(r *http.Request) { r.Header.Set("X-Client", "b") })
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing custom identifier falls back to client ip", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t, nil, nil, contact.WithIdentifier(ratelimiter.HeaderKey("X-Client")))

		for range testLimits.MaxAttempts {
			rec := postJSON(t, h, "/", contact.Form{})
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		}
		rec := postJSON(t, h, "/", validForm)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("no identifier at all", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t, nil, nil)

		rec := postJSON(t, h, "/", validForm, func(r *http.Request) { r.RemoteAddr = "" })
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, contact.CodeBadRequest, decodeResponse(t, rec).Error.Code)
	})

	t.Run("body over the configured limit", func(t *testing.T) {
		t.Parallel()
		sink := &recordingSink{}
		h := newTestHandler(t, sink, nil, contact.WithMaxBodyBytes(32))

		rec := postJSON(t, h, "/", validForm)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, contact.CodeBadRequest, decodeResponse(t, rec).Error.Code)
		assert.Empty(t, sink.subs)
	})
}

func TestHandler_ForwardedForRotation(t *testing.T) {
	t.Parallel()

	post := func(t *testing.T, h http.Handler, i int) int {
		rec := postJSON(t, h, "/", contact.Form{Name: "J"}, func(r *http.Request) {
			r.RemoteAddr = "203.0.113.7:40000"
			r.Header.Set(clientip.HeaderForwardedFor, fmt.Sprintf("198.51.100.%d", i+1))
		})
		return rec.Code
	}

	t.Run("untrusted header keeps one budget", func(t *testing.T) {
		t.Parallel()
		h := clientip.NewResolver().Middleware(newTestHandler(t, nil, nil))

		codes := make([]int, 0, 6)
		for i := range 6 {
			codes = append(codes, post(t, h, i))
		}
		assert.Equal(t, []int{422, 422, 422, 429, 429, 429}, codes)
	})

	t.Run("trusted header separates clients", func(t *testing.T) {
		t.Parallel()
		h := clientip.NewResolver(clientip.HeaderForwardedFor).Middleware(newTestHandler(t, nil, nil))

		for i := range 6 {
			assert.Equal(t, http.StatusUnprocessableEntity, post(t, h, i))
		}
	})
}

func TestHandler_CSRF(t *testing.T) {
	t.Parallel()

	for _, secrets := range [][]string{nil, {"0123456789abcdef0123456789abcdef"}} {
		m, err := cookie.New(cookie.Config{Secrets: secrets})
		require.NoError(t, err)
		h := newTestHandler(t, nil, nil, contact.WithCSRF(m))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/csrf", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		token := decodeResponse(t, rec).Data["token"]
		require.Len(t, token, 64)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, contact.CSRFCookie, cookies[0].Name)

		withCookie := func(r *http.Request) { r.AddCookie(cookies[0]) }

		rec = postJSON(t, h, "/", validForm, withCookie)
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, contact.CodeCSRF, decodeResponse(t, rec).Error.Code)

		rec = postJSON(t, h, "/", validForm, withCookie, func(r *http.Request) {
			r.Header.Set(contact.CSRFHeader, strings.Repeat("0", 64))
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = postJSON(t, h, "/", validForm, func(r *http.Request) {
			r.Header.Set(contact.CSRFHeader, token)
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = postJSON(t, h, "/", validForm, withCookie, func(r *http.Request) {
			r.Header.Set(contact.CSRFHeader, token)
		})
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestHandler_Preview(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, nil, nil)

	rec := postJSON(t, h, "/preview", map[string]string{"field": "name", "value": "Jo$é 1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"name": "Joé "}, decodeResponse(t, rec).Data)

	rec = postJSON(t, h, "/preview", contact.Form{Name: "Ana9", Email: "A@B.co ", Message: "<hola>"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{
		"name":    "Ana",
		"email":   "a@b.co",
		"message": "hola",
	}, decodeResponse(t, rec).Data)

	rec = postJSON(t, h, "/preview", map[string]string{"field": "phone", "value": "1"},
		func(r *http.Request) { r.Header.Set("Accept-Language", "en") })
	require.Equal(t, http.StatusBadRequest, rec.Code)
	res := decodeResponse(t, rec)
	assert.Equal(t, contact.CodeUnknownField, res.Error.Code)
	assert.Equal(t, "Unknown field: phone", res.Error.Message)
}

func TestHandler_WhatsApp(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, nil, nil, contact.WithWhatsApp("+57 300 123 4567", ""))

	req := httptest.NewRequest(http.MethodGet, "/whatsapp?name=Ana&message=Hola", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	want := contact.WhatsAppLink("573001234567", "", contact.Form{Name: "Ana", Message: "Hola"})
	assert.Equal(t, want, rec.Header().Get("Location"))

	disabled := newTestHandler(t, nil, nil)
	rec = httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whatsapp", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
