package securitylog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	// pure Go driver registered as "sqlite"
	_ "modernc.org/sqlite"
)

// defaultRecentLimit applies when Recent is called with a non-positive limit.
const defaultRecentLimit = 50

const schema = `
CREATE TABLE IF NOT EXISTS security_events (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	timestamp  TEXT NOT NULL,
	event      TEXT NOT NULL,
	data       TEXT NOT NULL,
	user_agent TEXT NOT NULL DEFAULT '',
	url        TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT '',
	client_ip  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_security_events_event ON security_events (event);
`

// SQLiteStore persists events in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies the schema.
// The connection runs in WAL mode with a single writer.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrStoreOpen)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreOpen, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrStoreOpen, p, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: schema: %w", ErrStoreOpen, err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Write(ctx context.Context, e Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO security_events (id, timestamp, event, data, user_agent, url, request_id, client_ip)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.UTC().Format(time.RFC3339Nano), e.Event, string(data),
		e.UserAgent, e.URL, e.RequestID, e.ClientIP,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return nil
}

// Recent returns up to limit events, newest first. When names are given only
// those events are returned.
func (s *SQLiteStore) Recent(ctx context.Context, limit int, names ...string) ([]Event, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT id, timestamp, event, data, user_agent, url, request_id, client_ip FROM security_events`)
	if len(names) > 0 {
		query.WriteString(` WHERE event IN (?` + strings.Repeat(", ?", len(names)-1) + `)`)
		for _, n := range names {
			args = append(args, n)
		}
	}
	query.WriteString(` ORDER BY seq DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreQuery, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e        Event
			ts, data string
		)
		if err := rows.Scan(&e.ID, &ts, &e.Event, &data, &e.UserAgent, &e.URL, &e.RequestID, &e.ClientIP); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreQuery, err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("%w: timestamp %q: %w", ErrStoreQuery, ts, err)
		}
		if err := json.Unmarshal([]byte(data), &e.Data); err != nil {
			return nil, fmt.Errorf("%w: data: %w", ErrStoreQuery, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreQuery, err)
	}
	return events, nil
}

// Count returns the number of stored events per name.
func (s *SQLiteStore) Count(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT event, COUNT(*) FROM security_events GROUP BY event`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreQuery, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreQuery, err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

// Ping is the readiness probe for the store.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
