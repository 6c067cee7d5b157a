package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/samber/lo"
	"github.com/urfave/cli/v3"

	"github.com/electroredes/contactguard/pkg/pg"
	"github.com/electroredes/contactguard/pkg/securitylog"
)

var errNoEventStore = errors.New("one of --db or --pg is required")

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "print recent security events from the SQLite or PostgreSQL log",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Usage:   "path to the SQLite security event database",
				Sources: cli.EnvVars("SECURITY_LOG_DB"),
			},
			&cli.StringFlag{
				Name:    "pg",
				Usage:   "PostgreSQL connection URL, used instead of --db",
				Sources: cli.EnvVars("PG_CONN_URL"),
			},
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum number of events"},
			&cli.StringSliceFlag{Name: "event", Usage: "only show these event names"},
			&cli.BoolFlag{Name: "summary", Usage: "print counts per event name instead"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store, closeStore, err := openStore(ctx, cmd.String("db"), cmd.String("pg"))
			if err != nil {
				return err
			}
			defer closeStore()

			if cmd.Bool("summary") {
				return printSummary(ctx, store, os.Stdout)
			}
			return printEvents(ctx, store, os.Stdout, cmd.Int("limit"), cmd.StringSlice("event"))
		},
	}
}

func openStore(ctx context.Context, path, pgURL string) (securitylog.Store, func(), error) {
	switch {
	case pgURL != "":
		pool, err := pg.Connect(ctx, pg.Config{ConnectionString: pgURL, RetryAttempts: 1})
		if err != nil {
			return nil, nil, err
		}
		return securitylog.NewPostgresStore(pool), pool.Close, nil
	case path != "":
		store, err := securitylog.OpenSQLite(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, errNoEventStore
	}
}

// printEvents writes one JSON object per line, newest first.
func printEvents(ctx context.Context, store securitylog.Store, out io.Writer, limit int, names []string) error {
	events, err := store.Recent(ctx, limit, names...)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	for _, e := range events {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(ctx context.Context, store securitylog.Store, out io.Writer) error {
	counts, err := store.Count(ctx)
	if err != nil {
		return err
	}
	names := lo.Keys(counts)
	slices.Sort(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(out, "%-30s %d\n", name, counts[name]); err != nil {
			return err
		}
	}
	return nil
}
