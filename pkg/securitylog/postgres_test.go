package securitylog_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electroredes/contactguard/pkg/pg"
	"github.com/electroredes/contactguard/pkg/securitylog"
)

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("PG_CONN_URL")
	if url == "" {
		t.Skip("PG_CONN_URL not set")
	}

	ctx := context.Background()
	cfg := pg.Config{ConnectionString: url, RetryAttempts: 1}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, pg.Migrate(ctx, pool, securitylog.Migrations, securitylog.MigrationsDir, cfg, nil))
	_, err = pool.Exec(ctx, "TRUNCATE security_events")
	require.NoError(t, err)

	store := securitylog.NewPostgresStore(pool)
	require.NoError(t, store.Ping(ctx))

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	log := securitylog.New(
		securitylog.WithSink(store),
		securitylog.WithClock(func() time.Time { now = now.Add(time.Second); return now }),
	)
	log.Record(ctx, securitylog.BotDetected, map[string]any{"honeypot": "x"})
	log.Record(ctx, securitylog.RateLimitExceeded, map[string]any{"reason": "blocked", "timeRemaining": 300})
	last := log.Record(ctx, securitylog.BotDetected, map[string]any{"honeypot": "y"})

	events, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, last.ID, events[0].ID)
	assert.Equal(t, last.Timestamp, events[0].Timestamp)
	assert.Equal(t, "y", events[0].Data["honeypot"])
	assert.InDelta(t, 300, events[1].Data["timeRemaining"], 0)

	bots, err := store.Recent(ctx, 10, securitylog.BotDetected)
	require.NoError(t, err)
	assert.Len(t, bots, 2)

	counts, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{securitylog.BotDetected: 2, securitylog.RateLimitExceeded: 1}, counts)
}
