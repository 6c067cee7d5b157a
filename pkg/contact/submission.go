package contact

import (
	"time"

	"github.com/electroredes/contactguard/pkg/ratelimiter"
	"github.com/electroredes/contactguard/pkg/sanitizer"
)

const (
	DefaultSubject     = "Nuevo mensaje de contacto - ElectroRedes Medellín"
	DefaultFormVersion = "2.0"

	maxSubmissionUserAgent = 100

	// isoMillis matches JavaScript's Date.toISOString.
	isoMillis = "2006-01-02T15:04:05.000Z07:00"
)

// Submission is the JSON body posted to the form relay.
type Submission struct {
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Message          string           `json:"message"`
	Subject          string           `json:"_subject"`
	Timestamp        string           `json:"timestamp"`
	UserAgent        string           `json:"userAgent"`
	SecurityMetadata SecurityMetadata `json:"securityMetadata"`
}

type SecurityMetadata struct {
	RateLimit   ratelimiter.Decision `json:"rateLimit"`
	FormVersion string               `json:"formVersion"`
	Sanitized   bool                 `json:"sanitized"`
}

func newSubmission(d Data, subject, version, userAgent string, decision ratelimiter.Decision, now time.Time) Submission {
	return Submission{
		Name:      d.Name,
		Email:     d.Email,
		Message:   d.Message,
		Subject:   subject,
		Timestamp: formatTimestamp(now),
		UserAgent: sanitizer.LimitLength(userAgent, maxSubmissionUserAgent),
		SecurityMetadata: SecurityMetadata{
			RateLimit:   decision,
			FormVersion: version,
			Sanitized:   true,
		},
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(isoMillis)
}
