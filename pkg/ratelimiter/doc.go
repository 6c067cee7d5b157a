// Package ratelimiter limits how often an identifier may attempt an action.
//
// Each identifier gets a sliding window of recent attempt timestamps. Once the
// number of attempts inside the window reaches the configured maximum, the
// next attempt is refused with ReasonRateLimited and the identifier is blocked
// for BlockDuration. While blocked every attempt is refused with
// ReasonBlocked. When the block expires the identifier starts over with an
// empty history. Expiry is evaluated lazily at call time; nothing runs in the
// background.
//
// # Basic Usage
//
//	limiter, err := ratelimiter.New(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//		MaxAttempts:   3,
//		Window:        time.Minute,
//		BlockDuration: 5 * time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//
//	decision, err := limiter.Allow(ctx, clientIP)
//	if err != nil {
//		return err
//	}
//	if !decision.Allowed {
//		// decision.Reason is "blocked" or "rate_limited",
//		// decision.TimeRemaining is in whole seconds
//	}
//
//	// after a successful action
//	_ = limiter.Reset(ctx, clientIP)
//
// # Storage
//
// Store implementations run the whole read-check-write sequence atomically,
// so concurrent callers with the same identifier never exceed the limit.
// MemoryStore guards a map with a single mutex. RedisStore keeps one JSON
// record per identifier and updates it inside a WATCH/MULTI transaction,
// retrying on conflicts:
//
//	store := ratelimiter.NewRedisStore(client,
//		ratelimiter.WithKeyPrefix("contact:rl:"),
//		ratelimiter.WithRecordTTL(5*time.Minute),
//	)
//
// # Identifiers
//
// KeyFunc values derive identifiers from HTTP requests. IPKey uses the IP
// stored by clientip middleware or RemoteAddr; ResolverKey resolves through a
// clientip.Resolver with its own trusted proxy headers. Composite joins
// several keys and hashes results longer than 64 bytes with FNV-1a:
//
//	key := ratelimiter.Composite(ratelimiter.IPKey, ratelimiter.HeaderKey("X-Client-ID"))
//
// # Error Handling
//
// An empty identifier returns ErrKeyRequired. Invalid limits return
// ErrInvalidConfig. Store failures are wrapped with ErrStoreUnavailable, and
// RedisStore returns ErrTooManyConflicts when its retries run out.
package ratelimiter
