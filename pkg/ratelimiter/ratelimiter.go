package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
)

// Limiter tracks attempts per identifier inside a sliding window and blocks
// identifiers that exceed the limit for a fixed cool-down.
type Limiter struct {
	store  Store
	config Config
	now    func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock replaces the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a limiter backed by store.
func New(store Store, config Config, opts ...Option) (*Limiter, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	l := &Limiter{
		store:  store,
		config: config,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Config returns the limits the limiter was built with.
func (l *Limiter) Config() Config {
	return l.config
}

// Allow checks whether identifier may make another attempt and records it
// when allowed. The check and the update happen atomically in the store.
func (l *Limiter) Allow(ctx context.Context, identifier string) (Decision, error) {
	if identifier == "" {
		return Decision{}, ErrKeyRequired
	}

	var decision Decision
	err := l.store.Update(ctx, identifier, func(rec *Record) (bool, error) {
		now := l.now()

		if !rec.BlockedUntil.IsZero() {
			if now.Before(rec.BlockedUntil) {
				decision = Decision{
					Reason:        ReasonBlocked,
					TimeRemaining: ceilSeconds(rec.BlockedUntil.Sub(now)),
				}
				return false, nil
			}
			// Block expired: start over as a fresh identifier.
			*rec = Record{}
		}

		recent := lo.Filter(rec.Attempts, func(ts time.Time, _ int) bool {
			return now.Sub(ts) < l.config.Window
		})
		rec.Attempts = recent

		if len(recent) >= l.config.MaxAttempts {
			rec.BlockedUntil = now.Add(l.config.BlockDuration)
			decision = Decision{
				Reason:        ReasonRateLimited,
				TimeRemaining: ceilSeconds(l.config.BlockDuration),
			}
			return true, nil
		}

		rec.Attempts = append(rec.Attempts, now)
		decision = Decision{
			Allowed:           true,
			AttemptsRemaining: l.config.MaxAttempts - len(rec.Attempts),
		}
		return true, nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit %q: %w", identifier, err)
	}

	return decision, nil
}

// Reset clears attempt history and any block for identifier.
func (l *Limiter) Reset(ctx context.Context, identifier string) error {
	if identifier == "" {
		return ErrKeyRequired
	}

	if err := l.store.Delete(ctx, identifier); err != nil {
		return fmt.Errorf("reset %q: %w", identifier, err)
	}
	return nil
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func (c Config) validate() error {
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("%w: max attempts must be positive, got %d", ErrInvalidConfig, c.MaxAttempts)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, c.Window)
	}
	if c.BlockDuration <= 0 {
		return fmt.Errorf("%w: block duration must be positive, got %v", ErrInvalidConfig, c.BlockDuration)
	}
	return nil
}
