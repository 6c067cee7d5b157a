package securitylog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrations holds the goose migrations for PostgresStore, under "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations that holds the SQL files.
const MigrationsDir = "migrations"

// Store is a sink that can also be queried.
type Store interface {
	Sink
	Recent(ctx context.Context, limit int, names ...string) ([]Event, error)
	Count(ctx context.Context) (map[string]int, error)
	Ping(ctx context.Context) error
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)

// PostgresStore persists events in PostgreSQL. The schema comes from
// Migrations; the pool is owned by the caller.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Write(ctx context.Context, e Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO security_events (id, timestamp, event, data, user_agent, url, request_id, client_ip)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Timestamp.UTC(), e.Event, data, e.UserAgent, e.URL, e.RequestID, e.ClientIP,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return nil
}

// Recent returns up to limit events, newest first, optionally filtered by name.
func (s *PostgresStore) Recent(ctx context.Context, limit int, names ...string) ([]Event, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	query := `SELECT id::text, timestamp, event, data, user_agent, url, request_id, client_ip
		FROM security_events`
	args := []any{limit}
	if len(names) > 0 {
		query += ` WHERE event = ANY($2)`
		args = append(args, names)
	}
	query += ` ORDER BY seq DESC LIMIT $1`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreQuery, err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Event, error) {
		var (
			e    Event
			data []byte
		)
		if err := row.Scan(&e.ID, &e.Timestamp, &e.Event, &data, &e.UserAgent, &e.URL, &e.RequestID, &e.ClientIP); err != nil {
			return Event{}, err
		}
		e.Timestamp = e.Timestamp.UTC()
		if err := json.Unmarshal(data, &e.Data); err != nil {
			return Event{}, fmt.Errorf("data: %w", err)
		}
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreQuery, err)
	}
	return events, nil
}

// Count returns the number of stored events per name.
func (s *PostgresStore) Count(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT event, COUNT(*) FROM security_events GROUP BY event`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreQuery, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			name string
			n    int64
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreQuery, err)
		}
		counts[name] = int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreQuery, err)
	}
	return counts, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
