package contact

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/electroredes/contactguard/pkg/binder"
	"github.com/electroredes/contactguard/pkg/cookie"
	"github.com/electroredes/contactguard/pkg/csrf"
	"github.com/electroredes/contactguard/pkg/environment"
	"github.com/electroredes/contactguard/pkg/logger"
	"github.com/electroredes/contactguard/pkg/messages"
	"github.com/electroredes/contactguard/pkg/ratelimiter"
	"github.com/electroredes/contactguard/pkg/validator"
)

const (
	CSRFCookie = "contact_csrf"
	CSRFHeader = "X-CSRF-Token"

	csrfTTL             = 2 * time.Hour
	defaultMaxBodyBytes = 64 << 10
)

// Handler serves the contact endpoints.
type Handler struct {
	service      *Service
	catalog      *messages.Catalog
	cookies      *cookie.Manager
	csrfEnabled  bool
	identify     ratelimiter.KeyFunc
	phone        string
	greeting     string
	maxBodyBytes int64
	logger       *slog.Logger
}

type HandlerOption func(*Handler)

// WithCSRF requires the X-CSRF-Token header to match the contact_csrf
// cookie on submissions. The cookie is signed when m has a secret.
func WithCSRF(m *cookie.Manager) HandlerOption {
	return func(h *Handler) {
		if m != nil {
			h.cookies = m
			h.csrfEnabled = true
		}
	}
}

func WithCatalog(c *messages.Catalog) HandlerOption {
	return func(h *Handler) {
		if c != nil {
			h.catalog = c
		}
	}
}

// WithIdentifier sets how requests map to rate-limit identifiers. When fn
// returns "" the client IP is used instead.
func WithIdentifier(fn ratelimiter.KeyFunc) HandlerOption {
	return func(h *Handler) {
		if fn != nil {
			h.identify = fn
		}
	}
}

func WithWhatsApp(phone, greeting string) HandlerOption {
	return func(h *Handler) {
		h.phone = phone
		h.greeting = greeting
	}
}

// WithMaxBodyBytes caps request bodies; larger bodies get 400.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

func NewHandler(svc *Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		service:      svc,
		catalog:      messages.Default(),
		identify:     ratelimiter.IPKey,
		greeting:     DefaultGreeting,
		maxBodyBytes: defaultMaxBodyBytes,
		logger:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the contact router, meant to be mounted under /contact.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/csrf", h.issueToken)
	r.Post("/", h.submit)
	r.Post("/preview", h.preview)
	if h.phone != "" {
		r.Get("/whatsapp", h.whatsapp)
	}
	return r
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	token, err := csrf.GenerateToken()
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	if h.cookies != nil {
		if h.cookies.CanSign() {
			err = h.cookies.SetSigned(w, CSRFCookie, token, csrfTTL)
		} else {
			h.cookies.Set(w, CSRFCookie, token, csrfTTL)
		}
		if err != nil {
			h.fail(w, r, http.StatusInternalServerError, CodeInternal, err)
			return
		}
	}
	writeData(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	lang := h.catalog.Match(r.Header.Get("Accept-Language"))

	if h.csrfEnabled && !h.validCSRF(r) {
		writeError(w, http.StatusForbidden, &ErrorDetail{
			Code:    CodeCSRF,
			Message: h.catalog.T(lang, "error.csrf", nil),
		})
		return
	}

	form, err := h.decode(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, &ErrorDetail{
			Code:    CodeBadRequest,
			Message: h.catalog.T(lang, "error.bad_request", nil),
		})
		return
	}

	identifier := h.identify(r)
	if identifier == "" {
		identifier = ratelimiter.IPKey(r)
	}
	if identifier == "" {
		writeError(w, http.StatusBadRequest, &ErrorDetail{
			Code:    CodeBadRequest,
			Message: h.catalog.T(lang, "error.bad_request", nil),
		})
		return
	}

	outcome, err := h.service.Submit(r.Context(), identifier, form, Meta{UserAgent: r.UserAgent()})
	if err == nil {
		writeData(w, http.StatusOK, map[string]string{
			"status":  string(outcome.Status),
			"message": h.catalog.T(lang, "contact.success", nil),
		})
		return
	}

	var (
		valErr  *ValidationError
		rateErr *RateLimitError
		subErr  *SubmissionError
	)
	switch {
	case errors.As(err, &valErr):
		details := make(map[string]string, len(valErr.Result.Failures))
		for field, fe := range valErr.Result.Failures {
			details[field] = h.catalog.Validation(lang, fe)
		}
		writeError(w, http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    CodeValidation,
			Message: h.catalog.T(lang, "error.validation", nil),
			Details: details,
		})
	case errors.As(err, &rateErr):
		w.Header().Set("Retry-After", strconv.Itoa(rateErr.TimeRemaining))
		code, key := CodeRateLimited, "error.rate_limited"
		if rateErr.Reason == ratelimiter.ReasonBlocked {
			code, key = CodeBlocked, "error.blocked"
		}
		writeError(w, http.StatusTooManyRequests, &ErrorDetail{
			Code: code,
			Message: h.catalog.T(lang, key, map[string]any{
				"seconds": rateErr.TimeRemaining,
				"minutes": rateErr.Minutes(),
			}),
		})
	case errors.As(err, &subErr):
		detail := &ErrorDetail{Code: CodeSubmission, Message: h.catalog.T(lang, "error.submission", nil)}
		if !environment.FromContext(r.Context()).IsProduction() {
			detail.Details = map[string]string{"cause": subErr.Cause()}
		}
		writeError(w, http.StatusBadGateway, detail)
	default:
		// ErrLimiterUnavailable is the only untyped error Submit returns.
		h.logger.ErrorContext(r.Context(), "rate limiter unavailable", logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, &ErrorDetail{
			Code:    CodeUnavailable,
			Message: h.catalog.T(lang, "error.unavailable", nil),
		})
	}
}

type previewRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// preview applies the per-keystroke filters. It accepts either a single
// {field, value} pair or a full form.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	lang := h.catalog.Match(r.Header.Get("Accept-Language"))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, &ErrorDetail{Code: CodeBadRequest, Message: h.catalog.T(lang, "error.bad_request", nil)})
		return
	}

	var single previewRequest
	if err := json.Unmarshal(body, &single); err == nil && single.Field != "" {
		filtered, err := InputFilter(single.Field, single.Value)
		if err != nil {
			writeError(w, http.StatusBadRequest, &ErrorDetail{
				Code:    CodeUnknownField,
				Message: h.catalog.T(lang, "error.unknown_field", map[string]any{"field": single.Field}),
			})
			return
		}
		writeData(w, http.StatusOK, map[string]string{single.Field: filtered})
		return
	}

	var form Form
	if err := json.Unmarshal(body, &form); err != nil {
		writeError(w, http.StatusBadRequest, &ErrorDetail{Code: CodeBadRequest, Message: h.catalog.T(lang, "error.bad_request", nil)})
		return
	}
	out := make(map[string]string, 3)
	for field, v := range map[string]string{
		validator.FieldName:    form.Name,
		validator.FieldEmail:   form.Email,
		validator.FieldMessage: form.Message,
	} {
		out[field], _ = InputFilter(field, v)
	}
	writeData(w, http.StatusOK, out)
}

func (h *Handler) whatsapp(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	link := WhatsAppLink(h.phone, h.greeting, Form{
		Name:    q.Get("name"),
		Email:   q.Get("email"),
		Message: q.Get("message"),
	})
	http.Redirect(w, r, link, http.StatusFound)
}

func (h *Handler) validCSRF(r *http.Request) bool {
	header := r.Header.Get(CSRFHeader)
	var (
		stored string
		err    error
	)
	if h.cookies.CanSign() {
		stored, err = h.cookies.GetSigned(r, CSRFCookie)
	} else {
		stored, err = h.cookies.Get(r, CSRFCookie)
	}
	if err != nil {
		return false
	}
	return csrf.ValidateToken(header, stored)
}

func (h *Handler) decode(r *http.Request) (Form, error) {
	var f Form
	if err := binder.Body(h.maxBodyBytes)(r, &f); err != nil {
		return Form{}, err
	}
	return f, nil
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	h.logger.ErrorContext(r.Context(), "contact request failed", logger.Status(status), logger.Error(err))
	lang := h.catalog.Match(r.Header.Get("Accept-Language"))
	writeError(w, status, &ErrorDetail{Code: code, Message: h.catalog.T(lang, "error.internal", nil)})
}
