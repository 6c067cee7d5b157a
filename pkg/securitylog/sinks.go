package securitylog

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/electroredes/contactguard/pkg/logger"
	"github.com/electroredes/contactguard/pkg/webhook"
)

// SlogSink writes each event as a warning.
type SlogSink struct {
	log *slog.Logger
}

func NewSlogSink(log *slog.Logger) *SlogSink {
	if log == nil {
		log = slog.Default()
	}
	return &SlogSink{log: log}
}

func (s *SlogSink) Write(ctx context.Context, e Event) error {
	attrs := make([]slog.Attr, 0, len(e.Data))
	for k, v := range e.Data {
		attrs = append(attrs, slog.Any(k, v))
	}
	s.log.LogAttrs(ctx, slog.LevelWarn, "security event",
		logger.Event(e.Event),
		logger.Group("data", attrs...),
		slog.String("user_agent", e.UserAgent),
		slog.String("url", e.URL),
		logger.RequestID(e.RequestID),
		logger.ClientIP(e.ClientIP),
	)
	return nil
}

// MemorySink keeps the most recent events up to its capacity.
type MemorySink struct {
	mu       sync.RWMutex
	capacity int
	events   []Event
}

// NewMemorySink returns a sink holding at most capacity events.
// A non-positive capacity defaults to 1000.
func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemorySink{capacity: capacity}
}

func (m *MemorySink) Write(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == m.capacity {
		m.events = slices.Delete(m.events, 0, 1)
	}
	m.events = append(m.events, e)
	return nil
}

// Events returns the stored events, oldest first.
func (m *MemorySink) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.events)
}

// Names returns the event names in order.
func (m *MemorySink) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.events))
	for i, e := range m.events {
		names[i] = e.Event
	}
	return names
}

// ForwardSink posts events as JSON to a remote collector.
type ForwardSink struct {
	sender *webhook.Sender
	url    string
	opts   []webhook.SendOption
}

// NewForwardSink forwards to url with three retries and a circuit breaker
// unless opts override them.
func NewForwardSink(sender *webhook.Sender, url string, opts ...webhook.SendOption) *ForwardSink {
	if sender == nil {
		sender = webhook.NewSender()
	}
	defaults := []webhook.SendOption{
		webhook.WithMaxRetries(3),
		webhook.WithTimeout(5 * time.Second),
		webhook.WithCircuitBreaker(webhook.NewCircuitBreaker(5, 2, 30*time.Second)),
	}
	return &ForwardSink{sender: sender, url: url, opts: append(defaults, opts...)}
}

func (f *ForwardSink) Write(ctx context.Context, e Event) error {
	return f.sender.Send(ctx, f.url, e, f.opts...)
}

// AsyncSink hands events to a background worker so that slow sinks do not
// hold up the request. Events arriving while the buffer is full are rejected
// with ErrBufferFull.
type AsyncSink struct {
	next    Sink
	timeout time.Duration
	log     *slog.Logger
	events  chan Event
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAsyncSink starts the worker. Each write to next is bounded by timeout.
func NewAsyncSink(next Sink, buffer int, timeout time.Duration, log *slog.Logger) *AsyncSink {
	if buffer <= 0 {
		buffer = 256
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Discard()
	}
	a := &AsyncSink{
		next:    next,
		timeout: timeout,
		log:     log,
		events:  make(chan Event, buffer),
		done:    make(chan struct{}),
	}
	go a.worker()
	return a
}

func (a *AsyncSink) Write(_ context.Context, e Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrSinkClosed
	}
	select {
	case a.events <- e:
		return nil
	default:
		return ErrBufferFull
	}
}

func (a *AsyncSink) worker() {
	defer close(a.done)
	for e := range a.events {
		a.deliver(e)
	}
}

func (a *AsyncSink) deliver(e Event) {
	// request contexts are gone by now
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	if err := a.next.Write(ctx, e); err != nil {
		a.log.ErrorContext(ctx, "async security event delivery failed",
			logger.Event(e.Event),
			logger.Error(err),
		)
	}
}

// Close stops accepting events and waits for the queue to drain or ctx to
// end, whichever comes first.
func (a *AsyncSink) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.events)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
