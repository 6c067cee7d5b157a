package ratelimiter

import "time"

// Reason explains why an attempt was refused.
type Reason string

const (
	// ReasonBlocked means a cool-down from an earlier violation is still running.
	ReasonBlocked Reason = "blocked"
	// ReasonRateLimited means this attempt tripped the limit and started a block.
	ReasonRateLimited Reason = "rate_limited"
)

// Decision is the outcome of a single attempt check.
type Decision struct {
	Allowed           bool   `json:"allowed"`
	Reason            Reason `json:"reason,omitempty"`
	TimeRemaining     int    `json:"timeRemaining,omitempty"` // seconds, rounded up
	AttemptsRemaining int    `json:"attemptsRemaining"`
}

// RetryAfter returns how long the caller should wait before trying again.
func (d Decision) RetryAfter() time.Duration {
	if d.Allowed {
		return 0
	}
	return time.Duration(d.TimeRemaining) * time.Second
}

// Config defines the attempt limits.
type Config struct {
	MaxAttempts   int           `env:"RATE_LIMIT_MAX_ATTEMPTS" envDefault:"3"`     // Attempts allowed inside one window
	Window        time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`          // Length of the sliding window
	BlockDuration time.Duration `env:"RATE_LIMIT_BLOCK_DURATION" envDefault:"5m"` // Cool-down once the limit is hit
}

// Record is the persisted state for one identifier.
type Record struct {
	Attempts     []time.Time `json:"attempts,omitempty"`
	BlockedUntil time.Time   `json:"blockedUntil,omitzero"`
}

// IsEmpty reports whether the record carries no state and can be dropped.
func (r *Record) IsEmpty() bool {
	return len(r.Attempts) == 0 && r.BlockedUntil.IsZero()
}
