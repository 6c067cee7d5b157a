package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/electroredes/contactguard/pkg/logger"
	"github.com/electroredes/contactguard/pkg/ratelimiter"
	"github.com/electroredes/contactguard/pkg/sanitizer"
	"github.com/electroredes/contactguard/pkg/securitylog"
)

// Sink delivers an accepted submission.
type Sink interface {
	Deliver(ctx context.Context, s Submission) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, s Submission) error

func (f SinkFunc) Deliver(ctx context.Context, s Submission) error { return f(ctx, s) }

// Recorder records security events.
type Recorder interface {
	Record(ctx context.Context, name string, data map[string]any) securitylog.Event
}

type Status string

const StatusSuccess Status = "success"

// Outcome is what the caller reports to the client. Simulated is set when a
// bot was detected; the client still sees a success.
type Outcome struct {
	Status    Status
	Simulated bool
}

// Meta carries request details copied into the submission.
type Meta struct {
	UserAgent string
}

// Service runs the submission flow: honeypot, rate limit, validation,
// delivery.
type Service struct {
	limiter     *ratelimiter.Limiter
	sink        Sink
	events      Recorder
	subject     string
	formVersion string
	now         func() time.Time
	logger      *slog.Logger
}

type Option func(*Service)

func WithSubject(subject string) Option {
	return func(s *Service) {
		if subject != "" {
			s.subject = subject
		}
	}
}

func WithFormVersion(v string) Option {
	return func(s *Service) {
		if v != "" {
			s.formVersion = v
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService wires the flow. A nil events recorder drops events.
func NewService(limiter *ratelimiter.Limiter, sink Sink, events Recorder, opts ...Option) (*Service, error) {
	if limiter == nil {
		return nil, ErrLimiterRequired
	}
	if sink == nil {
		return nil, ErrSinkRequired
	}
	if events == nil {
		events = securitylog.New()
	}

	s := &Service{
		limiter:     limiter,
		sink:        sink,
		events:      events,
		subject:     DefaultSubject,
		formVersion: DefaultFormVersion,
		now:         time.Now,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Submit processes one form submission from identifier.
//
// A filled honeypot returns a simulated success without touching the limiter
// or the sink. Otherwise the attempt is counted before validation, so
// invalid submissions also use up attempts. The error is one of
// *RateLimitError, *ValidationError, *SubmissionError or a wrapped
// ErrLimiterUnavailable.
func (s *Service) Submit(ctx context.Context, identifier string, f Form, meta Meta) (Outcome, error) {
	if f.Honeypot != "" {
		s.events.Record(ctx, securitylog.BotDetected, map[string]any{"honeypot": f.Honeypot})
		return Outcome{Status: StatusSuccess, Simulated: true}, nil
	}

	decision, err := s.limiter.Allow(ctx, identifier)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrLimiterUnavailable, err)
	}
	if !decision.Allowed {
		s.events.Record(ctx, securitylog.RateLimitExceeded, map[string]any{
			"reason":        string(decision.Reason),
			"timeRemaining": decision.TimeRemaining,
		})
		return Outcome{}, &RateLimitError{Reason: decision.Reason, TimeRemaining: decision.TimeRemaining}
	}

	res := SanitizeAndValidate(f)
	if !res.Valid {
		s.events.Record(ctx, securitylog.FormValidationFailed, map[string]any{
			"errors": res.Errors,
			"formData": map[string]any{
				"nameLength":    sanitizer.RuneCount(f.Name),
				"emailLength":   sanitizer.RuneCount(f.Email),
				"messageLength": sanitizer.RuneCount(f.Message),
			},
		})
		return Outcome{}, &ValidationError{Fields: res.Errors, Result: res}
	}

	sub := newSubmission(res.Data, s.subject, s.formVersion, meta.UserAgent, decision, s.now())
	if err := s.sink.Deliver(ctx, sub); err != nil {
		var subErr *SubmissionError
		if !errors.As(err, &subErr) {
			subErr = &SubmissionError{Err: err}
		}
		s.logger.ErrorContext(ctx, "contact submission failed", logger.Error(err))
		s.events.Record(ctx, securitylog.FormSubmissionError, map[string]any{
			"error":     subErr.Cause(),
			"timestamp": formatTimestamp(s.now()),
		})
		return Outcome{}, subErr
	}

	if err := s.limiter.Reset(ctx, identifier); err != nil {
		s.logger.WarnContext(ctx, "rate limit reset failed", logger.Error(err))
	}

	domain := ""
	if _, after, ok := strings.Cut(res.Data.Email, "@"); ok {
		domain = after
	}
	s.events.Record(ctx, securitylog.FormSubmittedSuccessfully, map[string]any{
		"nameLength":    sanitizer.RuneCount(res.Data.Name),
		"emailDomain":   domain,
		"messageLength": sanitizer.RuneCount(res.Data.Message),
	})
	return Outcome{Status: StatusSuccess}, nil
}

// Limits exposes the limiter configuration.
func (s *Service) Limits() ratelimiter.Config {
	return s.limiter.Config()
}
