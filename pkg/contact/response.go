package contact

import (
	"encoding/json"
	"net/http"
)

// envelope is the JSON body of every contact endpoint.
type envelope struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request. Details maps field names to
// messages.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes returned to clients.
const (
	CodeBadRequest   = "bad_request"
	CodeCSRF         = "csrf"
	CodeValidation   = "validation"
	CodeRateLimited  = "rate_limited"
	CodeBlocked      = "blocked"
	CodeSubmission   = "submission"
	CodeUnavailable  = "unavailable"
	CodeUnknownField = "unknown_field"
	CodeInternal     = "internal"
)

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, detail *ErrorDetail) {
	writeJSON(w, status, envelope{Error: detail})
}
