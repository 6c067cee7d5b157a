// Package pg connects to PostgreSQL with pgx and applies goose migrations.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, securitylog.Migrations, "migrations", cfg, log); err != nil {
//		return err
//	}
//
// Connect retries RetryAttempts times, waiting RetryInterval multiplied by the
// attempt number between tries. Healthcheck returns a probe suitable for
// httpserver.ReadinessHandler.
package pg
