package contact_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electroredes/contactguard/pkg/contact"
	"github.com/electroredes/contactguard/pkg/ratelimiter"
	"github.com/electroredes/contactguard/pkg/securitylog"
)

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

var testLimits = ratelimiter.Config{
	MaxAttempts:   3,
	Window:        time.Minute,
	BlockDuration: 5 * time.Minute,
}

// recordingSink captures delivered submissions and returns err when set.
type recordingSink struct {
	mu    sync.Mutex
	subs  []contact.Submission
	err   error
	calls int
}

func (s *recordingSink) Deliver(_ context.Context, sub contact.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.subs = append(s.subs, sub)
	return nil
}

type brokenStore struct{}

func (brokenStore) Update(context.Context, string, ratelimiter.UpdateFunc) error {
	return errors.New("connection refused")
}

func (brokenStore) Delete(context.Context, string) error { return nil }

type fixture struct {
	svc    *contact.Service
	store  *ratelimiter.MemoryStore
	sink   *recordingSink
	events *securitylog.MemorySink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := ratelimiter.NewMemoryStore()
	limiter, err := ratelimiter.New(store, testLimits, ratelimiter.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	events := securitylog.NewMemorySink(0)
	sink := &recordingSink{}
	svc, err := contact.NewService(limiter, sink, securitylog.New(securitylog.WithSink(events)),
		contact.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	return &fixture{svc: svc, store: store, sink: sink, events: events}
}

func TestNewService(t *testing.T) {
	t.Parallel()

	limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), testLimits)
	require.NoError(t, err)

	_, err = contact.NewService(nil, &recordingSink{}, nil)
	assert.ErrorIs(t, err, contact.ErrLimiterRequired)

	_, err = contact.NewService(limiter, nil, nil)
	assert.ErrorIs(t, err, contact.ErrSinkRequired)

	svc, err := contact.NewService(limiter, &recordingSink{}, nil)
	require.NoError(t, err)
	assert.Equal(t, testLimits, svc.Limits())
}

func TestService_Submit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("honeypot simulates success", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)

		f := validForm
		f.Honeypot = "http://spam.example"
		out, err := fx.svc.Submit(ctx, "203.0.113.7", f, contact.Meta{})
		require.NoError(t, err)
		assert.Equal(t, contact.Outcome{Status: contact.StatusSuccess, Simulated: true}, out)

		assert.Zero(t, fx.store.Len())
		assert.Zero(t, fx.sink.calls)
		assert.Equal(t, []string{securitylog.BotDetected}, fx.events.Names())
	})

	t.Run("delivers a clean submission", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)

		out, err := fx.svc.Submit(ctx, "203.0.113.7", validForm, contact.Meta{UserAgent: "Mozilla/5.0"})
		require.NoError(t, err)
		assert.Equal(t, contact.StatusSuccess, out.Status)
		assert.False(t, out.Simulated)

		require.Len(t, fx.sink.subs, 1)
		sub := fx.sink.subs[0]
		assert.Equal(t, "Juan Pérez", sub.Name)
		assert.Equal(t, "user@example.com", sub.Email)
		assert.Equal(t, contact.DefaultSubject, sub.Subject)
		assert.Equal(t, "2025-03-14T15:09:26.000Z", sub.Timestamp)
		assert.Equal(t, "Mozilla/5.0", sub.UserAgent)
		assert.Equal(t, contact.DefaultFormVersion, sub.SecurityMetadata.FormVersion)
		assert.True(t, sub.SecurityMetadata.Sanitized)
		assert.Equal(t, ratelimiter.Decision{Allowed: true, AttemptsRemaining: 2}, sub.SecurityMetadata.RateLimit)

		// Success clears the attempt history.
		assert.Zero(t, fx.store.Len())

		events := fx.events.Events()
		require.Len(t, events, 1)
		assert.Equal(t, securitylog.FormSubmittedSuccessfully, events[0].Event)
		assert.Equal(t, "example.com", events[0].Data["emailDomain"])
		assert.Equal(t, 10, events[0].Data["nameLength"])
	})

	t.Run("long user agent is truncated", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)

		ua := make([]rune, 150)
		for i := range ua {
			ua[i] = 'u'
		}
		_, err := fx.svc.Submit(ctx, "ip", validForm, contact.Meta{UserAgent: string(ua)})
		require.NoError(t, err)
		assert.Len(t, fx.sink.subs[0].UserAgent, 100)
	})

	t.Run("validation failure counts as an attempt", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)

		_, err := fx.svc.Submit(ctx, "ip", contact.Form{Name: "J", Email: "bad", Message: "short"}, contact.Meta{})
		var valErr *contact.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Len(t, valErr.Fields, 3)
		assert.Equal(t, "contact form invalid: email, message, name", valErr.Error())

		assert.Equal(t, 1, fx.store.Len())
		assert.Zero(t, fx.sink.calls)

		events := fx.events.Events()
		require.Len(t, events, 1)
		assert.Equal(t, securitylog.FormValidationFailed, events[0].Event)
		assert.Contains(t, events[0].Data, "errors")
		assert.Equal(t, map[string]any{
			"nameLength":    1,
			"emailLength":   3,
			"messageLength": 5,
		}, events[0].Data["formData"])
	})

	t.Run("limit then block", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)

		bad := contact.Form{Name: "J"}
		for range testLimits.MaxAttempts {
			_, err := fx.svc.Submit(ctx, "ip", bad, contact.Meta{})
			var valErr *contact.ValidationError
			require.ErrorAs(t, err, &valErr)
		}

		_, err := fx.svc.Submit(ctx, "ip", validForm, contact.Meta{})
		var rateErr *contact.RateLimitError
		require.ErrorAs(t, err, &rateErr)
		assert.Equal(t, ratelimiter.ReasonRateLimited, rateErr.Reason)
		assert.Equal(t, 300, rateErr.TimeRemaining)
		assert.Equal(t, 5*time.Minute, rateErr.RetryAfter())

		_, err = fx.svc.Submit(ctx, "ip", validForm, contact.Meta{})
		require.ErrorAs(t, err, &rateErr)
		assert.Equal(t, ratelimiter.ReasonBlocked, rateErr.Reason)
		assert.Equal(t, 5, rateErr.Minutes())

		assert.Zero(t, fx.sink.calls)

		// Another identifier is unaffected.
		_, err = fx.svc.Submit(ctx, "other", validForm, contact.Meta{})
		require.NoError(t, err)

		names := fx.events.Names()
		assert.Equal(t, securitylog.RateLimitExceeded, names[3])
		assert.Equal(t, securitylog.RateLimitExceeded, names[4])
	})

	t.Run("sink failure", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.sink.err = &contact.SubmissionError{StatusCode: 500, Err: errors.New("relay down")}

		_, err := fx.svc.Submit(ctx, "ip", validForm, contact.Meta{})
		var subErr *contact.SubmissionError
		require.ErrorAs(t, err, &subErr)
		assert.Equal(t, "HTTP 500", subErr.Cause())

		// The attempt stays recorded.
		assert.Equal(t, 1, fx.store.Len())

		events := fx.events.Events()
		require.Len(t, events, 1)
		assert.Equal(t, securitylog.FormSubmissionError, events[0].Event)
		assert.Equal(t, "HTTP 500", events[0].Data["error"])
		assert.Equal(t, "2025-03-14T15:09:26.000Z", events[0].Data["timestamp"])
	})

	t.Run("plain sink error is wrapped", func(t *testing.T) {
		t.Parallel()
		fx := newFixture(t)
		fx.sink.err = errors.New("dial tcp: refused")

		_, err := fx.svc.Submit(ctx, "ip", validForm, contact.Meta{})
		var subErr *contact.SubmissionError
		require.ErrorAs(t, err, &subErr)
		assert.Zero(t, subErr.StatusCode)
		assert.Equal(t, "dial tcp: refused", subErr.Cause())
	})

	t.Run("limiter failure", func(t *testing.T) {
		t.Parallel()

		limiter, err := ratelimiter.New(brokenStore{}, testLimits)
		require.NoError(t, err)
		sink := &recordingSink{}
		svc, err := contact.NewService(limiter, sink, nil)
		require.NoError(t, err)

		_, err = svc.Submit(ctx, "ip", validForm, contact.Meta{})
		assert.ErrorIs(t, err, contact.ErrLimiterUnavailable)
		assert.Zero(t, sink.calls)
	})
}
