package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/urfave/cli/v3"

	"github.com/electroredes/contactguard/pkg/clientip"
	"github.com/electroredes/contactguard/pkg/config"
	"github.com/electroredes/contactguard/pkg/contact"
	"github.com/electroredes/contactguard/pkg/cookie"
	"github.com/electroredes/contactguard/pkg/email"
	"github.com/electroredes/contactguard/pkg/environment"
	"github.com/electroredes/contactguard/pkg/httpserver"
	"github.com/electroredes/contactguard/pkg/logger"
	"github.com/electroredes/contactguard/pkg/messages"
	"github.com/electroredes/contactguard/pkg/pg"
	"github.com/electroredes/contactguard/pkg/ratelimiter"
	"github.com/electroredes/contactguard/pkg/redis"
	"github.com/electroredes/contactguard/pkg/requestid"
	"github.com/electroredes/contactguard/pkg/securitylog"
	"github.com/electroredes/contactguard/pkg/webhook"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server",
		Action: func(ctx context.Context, _ *cli.Command) error {
			var cfg Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg Config) error {
	env := environment.Parse(cfg.AppEnv)

	logOpts := []logger.Option{
		logger.WithEnvironment(env, cfg.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientIPExtractor),
	}
	if cfg.LogLevel != "" {
		logOpts = append(logOpts, logger.WithLevelName(cfg.LogLevel))
	}
	if cfg.LogFile != "" {
		logOpts = append(logOpts, logger.WithFile(cfg.LogFile, cfg.LogRotation))
	}
	log, closeLog := logger.NewWithCloser(logOpts...)
	defer func() { _ = closeLog() }()
	logger.SetAsDefault(log)

	var (
		store    ratelimiter.Store
		checks   []httpserver.Check
		cleanups []func(context.Context) error
	)

	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		cleanups = append(cleanups, func(context.Context) error { return client.Close() })
		checks = append(checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		store = ratelimiter.NewRedisStore(client, ratelimiter.WithRecordTTL(recordTTL(cfg.RateLimit)))
		log.InfoContext(ctx, "rate limiter using redis")
	} else {
		store = ratelimiter.NewMemoryStore()
		log.InfoContext(ctx, "rate limiter using process memory")
	}

	limiter, err := ratelimiter.New(store, cfg.RateLimit)
	if err != nil {
		return err
	}

	sinks := []securitylog.Sink{securitylog.NewSlogSink(log.With(logger.Component("securitylog")))}
	if cfg.SecurityLogDB != "" {
		db, err := securitylog.OpenSQLite(ctx, cfg.SecurityLogDB)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, func(context.Context) error { return db.Close() })
		checks = append(checks, httpserver.Check{Name: "security_log", Fn: db.Ping})
		sinks = append(sinks, db)
	}
	if cfg.Postgres.Enabled() {
		pool, err := pg.Connect(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, func(context.Context) error { pool.Close(); return nil })
		if err := pg.Migrate(ctx, pool, securitylog.Migrations, securitylog.MigrationsDir, cfg.Postgres, log); err != nil {
			return err
		}
		checks = append(checks, httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)})
		sinks = append(sinks, securitylog.NewPostgresStore(pool))
	}
	if cfg.SecurityLogForwardURL != "" {
		var opts []webhook.SendOption
		if cfg.SecurityLogForwardSecret != "" {
			opts = append(opts, webhook.WithSignature(cfg.SecurityLogForwardSecret))
		}
		async := securitylog.NewAsyncSink(
			securitylog.NewForwardSink(nil, cfg.SecurityLogForwardURL, opts...),
			cfg.SecurityLogBuffer, 30*time.Second, log,
		)
		// drain before the stores underneath are closed
		cleanups = append([]func(context.Context) error{async.Close}, cleanups...)
		sinks = append(sinks, async)
	}

	events := securitylog.New(
		securitylog.WithSink(sinks...),
		securitylog.WithLogger(log),
		securitylog.WithRequestIDExtractor(func(ctx context.Context) (string, bool) {
			id := requestid.FromContext(ctx)
			return id, id != ""
		}),
		securitylog.WithIPExtractor(func(ctx context.Context) (string, bool) {
			ip := clientip.GetIPFromContext(ctx)
			return ip, ip != ""
		}),
	)

	sink, err := newSink(cfg, env, log)
	if err != nil {
		return err
	}

	svc, err := contact.NewService(limiter, sink, events,
		contact.WithSubject(cfg.Subject),
		contact.WithFormVersion(cfg.FormVersion),
		contact.WithLogger(log.With(logger.Component("contact"))),
	)
	if err != nil {
		return err
	}

	resolver := clientip.NewResolverFromConfig(cfg.ClientIP)
	if len(cfg.ClientIP.TrustedHeaders) > 0 {
		log.InfoContext(ctx, "trusting proxy headers for client ip", slog.Any("headers", cfg.ClientIP.TrustedHeaders))
	}

	handlerOpts := []contact.HandlerOption{
		contact.WithCatalog(messages.Default()),
		contact.WithHandlerLogger(log.With(logger.Component("contact"))),
		contact.WithIdentifier(ratelimiter.ResolverKey(resolver)),
		contact.WithMaxBodyBytes(cfg.MaxBodyBytes),
	}
	if cfg.CSRFEnabled {
		cookies, err := cookie.New(cfg.Cookie)
		if err != nil {
			return err
		}
		handlerOpts = append(handlerOpts, contact.WithCSRF(cookies))
	}
	if cfg.WhatsAppPhone != "" {
		handlerOpts = append(handlerOpts, contact.WithWhatsApp(cfg.WhatsAppPhone, cfg.WhatsAppGreeting))
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		resolver.Middleware,
		environment.Middleware(env),
		securitylog.Middleware,
	)
	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, checks...))
	r.Mount("/contact", contact.NewHandler(svc, handlerOpts...).Routes())

	server := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(log *slog.Logger) {
			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			var errs []error
			for _, fn := range cleanups {
				errs = append(errs, fn(closeCtx))
			}
			if err := errors.Join(errs...); err != nil {
				log.Error("cleanup failed", logger.Error(err))
			}
		}),
	)

	log.InfoContext(ctx, "starting contactd",
		slog.String("env", string(env)),
		slog.Int("max_attempts", cfg.RateLimit.MaxAttempts),
		slog.Duration("window", cfg.RateLimit.Window),
	)
	return server.Run(ctx, r)
}

func clientIPExtractor(ctx context.Context) (slog.Attr, bool) {
	if ip := clientip.GetIPFromContext(ctx); ip != "" {
		return logger.ClientIP(ip), true
	}
	return slog.Attr{}, false
}

// newSink builds the submission sink named by cfg.Sink.
func newSink(cfg Config, env environment.Environment, log *slog.Logger) (contact.Sink, error) {
	switch cfg.Sink {
	case "relay":
		return contact.NewRelaySink(nil, cfg.RelayURL, cfg.RelayTimeout)

	case "email":
		var (
			sender email.EmailSender
			err    error
		)
		if cfg.Email.PostmarkServerToken != "" {
			sender, err = email.NewPostmarkClient(cfg.Email)
			if err != nil {
				return nil, err
			}
		} else {
			if env.IsProduction() {
				return nil, fmt.Errorf("%w: POSTMARK_SERVER_TOKEN is required in production", email.ErrInvalidConfig)
			}
			log.Warn("postmark not configured, writing contact mail to disk", slog.String("dir", cfg.Email.DevDir))
			sender = email.NewDevSender(cfg.Email.DevDir)
		}
		return contact.NewEmailSink(sender, cfg.EmailTo)

	case "log":
		if env.IsProduction() {
			return nil, fmt.Errorf("%w: log sink is not allowed in production", errInvalidSink)
		}
		return contact.SinkFunc(func(ctx context.Context, s contact.Submission) error {
			log.InfoContext(ctx, "contact submission",
				slog.String("email", s.Email),
				slog.Int("message_length", len([]rune(s.Message))),
			)
			return nil
		}), nil

	default:
		return nil, fmt.Errorf("%w: %q", errInvalidSink, cfg.Sink)
	}
}
