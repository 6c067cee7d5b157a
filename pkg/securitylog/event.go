package securitylog

import (
	"context"
	"time"
)

// Event names emitted by the contact flow.
const (
	FormValidationFailed      = "form_validation_failed"
	BotDetected               = "bot_detected"
	RateLimitExceeded         = "rate_limit_exceeded"
	FormSubmittedSuccessfully = "form_submitted_successfully"
	FormSubmissionError       = "form_submission_error"
)

const (
	maxUserAgentLength = 200
	maxURLLength       = 2048
)

// Event is one security log entry.
type Event struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Event     string         `json:"event"`
	Data      map[string]any `json:"data"`
	UserAgent string         `json:"userAgent"`
	URL       string         `json:"url"`
	RequestID string         `json:"requestId,omitempty"`
	ClientIP  string         `json:"clientIp,omitempty"`
}

// Sink receives recorded events.
type Sink interface {
	Write(ctx context.Context, e Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Event) error

func (f SinkFunc) Write(ctx context.Context, e Event) error { return f(ctx, e) }
