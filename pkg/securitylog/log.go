package securitylog

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/electroredes/contactguard/pkg/logger"
	"github.com/electroredes/contactguard/pkg/sanitizer"
)

// contextExtractor reads an optional string from a request context.
type contextExtractor func(context.Context) (string, bool)

// Log builds security events and fans them out to its sinks.
type Log struct {
	sinks     []Sink
	logger    *slog.Logger
	now       func() time.Time
	policy    *bluemonday.Policy
	requestID contextExtractor
	clientIP  contextExtractor
}

type Option func(*Log)

// WithSink adds sinks. Nil sinks are skipped.
func WithSink(sinks ...Sink) Option {
	return func(l *Log) {
		for _, s := range sinks {
			if s != nil {
				l.sinks = append(l.sinks, s)
			}
		}
	}
}

// WithLogger sets where sink failures are reported.
func WithLogger(log *slog.Logger) Option {
	return func(l *Log) {
		if log != nil {
			l.logger = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

func WithRequestIDExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *Log) { l.requestID = fn }
}

func WithIPExtractor(fn func(context.Context) (string, bool)) Option {
	return func(l *Log) { l.clientIP = fn }
}

// New returns a Log. Without sinks, events are built and dropped.
func New(opts ...Option) *Log {
	l := &Log{
		logger: logger.Discard(),
		now:    time.Now,
		policy: bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record builds an event from name, data and the request metadata in ctx,
// then writes it to every sink. Sink failures are logged and never returned.
func (l *Log) Record(ctx context.Context, name string, data map[string]any) Event {
	e := l.build(ctx, name, data)
	if err := l.dispatch(ctx, e); err != nil {
		l.logger.ErrorContext(ctx, "security event not delivered",
			logger.Event(e.Event),
			logger.Error(err),
		)
	}
	return e
}

func (l *Log) build(ctx context.Context, name string, data map[string]any) Event {
	e := Event{
		ID:        uuid.NewString(),
		Timestamp: l.now().UTC().Truncate(time.Millisecond),
		Event:     name,
		Data:      l.scrubMap(data),
	}
	if req, ok := RequestFromContext(ctx); ok {
		e.UserAgent = l.scrub(sanitizer.LimitLength(req.UserAgent, maxUserAgentLength))
		e.URL = sanitizer.LimitLength(req.URL, maxURLLength)
	}
	if l.requestID != nil {
		e.RequestID, _ = l.requestID(ctx)
	}
	if l.clientIP != nil {
		e.ClientIP, _ = l.clientIP(ctx)
	}
	return e
}

func (l *Log) dispatch(ctx context.Context, e Event) error {
	if e.Event == "" {
		return ErrEmptyEventName
	}
	var errs []error
	for i, s := range l.sinks {
		if err := s.Write(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// scrub strips markup and decodes the entities the policy escaped, so the
// stored value is plain text and never longer than s.
func (l *Log) scrub(s string) string {
	return html.UnescapeString(l.policy.Sanitize(s))
}

func (l *Log) scrubMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = l.scrubValue(v)
	}
	return out
}

func (l *Log) scrubValue(v any) any {
	switch val := v.(type) {
	case string:
		return l.scrub(val)
	case map[string]any:
		return l.scrubMap(val)
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, s := range val {
			out[k] = l.scrub(s)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = l.scrub(s)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = l.scrubValue(item)
		}
		return out
	case error:
		return l.scrub(val.Error())
	default:
		return v
	}
}
