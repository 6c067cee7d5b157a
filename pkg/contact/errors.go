package contact

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/electroredes/contactguard/pkg/ratelimiter"
)

var (
	ErrLimiterUnavailable = errors.New("rate limiter unavailable")
	ErrSinkRequired       = errors.New("submission sink is required")
	ErrLimiterRequired    = errors.New("rate limiter is required")
	ErrRelayURLRequired   = errors.New("relay URL is required")
)

// ValidationError reports a form with at least one invalid field.
type ValidationError struct {
	Fields map[string]string
	Result Result
}

func (e *ValidationError) Error() string {
	fields := lo.Keys(e.Fields)
	slices.Sort(fields)
	return "contact form invalid: " + strings.Join(fields, ", ")
}

// RateLimitError reports an attempt refused by the limiter.
type RateLimitError struct {
	Reason        ratelimiter.Reason
	TimeRemaining int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("contact rate limit: %s, retry in %ds", e.Reason, e.TimeRemaining)
}

// RetryAfter returns the remaining cool-down.
func (e *RateLimitError) RetryAfter() time.Duration {
	return time.Duration(e.TimeRemaining) * time.Second
}

// Minutes is the cool-down rounded up to whole minutes.
func (e *RateLimitError) Minutes() int {
	return (e.TimeRemaining + 59) / 60
}

// SubmissionError reports a failed delivery to the sink. StatusCode is zero
// for network failures.
type SubmissionError struct {
	StatusCode int
	Err        error
}

func (e *SubmissionError) Error() string {
	return "contact submission failed: " + e.Cause()
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Cause is the short failure description recorded in the security log.
func (e *SubmissionError) Cause() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}
