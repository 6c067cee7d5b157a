package ratelimiter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix  = "contactguard:ratelimit:"
	defaultRedisTTL     = 10 * time.Minute
	defaultRedisRetries = 5
)

// RedisStore implements Store on top of Redis so several instances share
// limiter state. Each record is a JSON document updated inside an optimistic
// WATCH/MULTI transaction.
type RedisStore struct {
	client     redis.UniversalClient
	prefix     string
	ttl        time.Duration
	maxRetries int
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix sets the prefix prepended to every Redis key.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		rs.prefix = prefix
	}
}

// WithRecordTTL sets the expiry applied to each saved record. It should cover
// the longer of the window and the block duration.
func WithRecordTTL(ttl time.Duration) RedisStoreOption {
	return func(rs *RedisStore) {
		if ttl > 0 {
			rs.ttl = ttl
		}
	}
}

// WithMaxRetries sets how many times a conflicting transaction is retried.
func WithMaxRetries(n int) RedisStoreOption {
	return func(rs *RedisStore) {
		if n > 0 {
			rs.maxRetries = n
		}
	}
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	rs := &RedisStore{
		client:     client,
		prefix:     defaultRedisPrefix,
		ttl:        defaultRedisTTL,
		maxRetries: defaultRedisRetries,
	}

	for _, opt := range opts {
		opt(rs)
	}

	return rs
}

// Update reads, mutates and writes the record in one transaction, retrying
// when another client modified the key in between.
func (rs *RedisStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	redisKey := rs.prefix + key

	txf := func(tx *redis.Tx) error {
		var rec Record

		data, err := tx.Get(ctx, redisKey).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		default:
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("decode record %q: %w", key, err)
			}
		}

		save, err := fn(&rec)
		if err != nil || !save {
			return err
		}

		if rec.IsEmpty() {
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, redisKey)
				return nil
			})
			return err
		}

		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode record %q: %w", key, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisKey, payload, rs.ttl)
			return nil
		})
		return err
	}

	for range rs.maxRetries {
		err := rs.client.Watch(ctx, txf, redisKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	return fmt.Errorf("%w: key %q", ErrTooManyConflicts, key)
}

func (rs *RedisStore) Delete(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.prefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}
