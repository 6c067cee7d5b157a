package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/electroredes/contactguard/pkg/environment"
)

// Format is the log output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Option configures logger creation.
type Option func(*config)

func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithLevelName parses a level name ("debug", "info", "warn", "error").
// Unknown names keep the current level.
func WithLevelName(name string) Option {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return func(*config) {}
	}
	return WithLevel(l)
}

// WithFormat sets the output format. It panics on unknown formats so that
// misconfiguration stops startup.
func WithFormat(f Format) Option {
	return func(c *config) {
		switch f {
		case FormatJSON, FormatText:
			c.format = f
		default:
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
	}
}

// WithOutput sets the primary destination. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// Rotation controls the rotating log file written next to the primary output.
// Zero fields fall back to DefaultRotation values.
type Rotation struct {
	MaxSizeMB  int  `env:"LOG_FILE_MAX_SIZE_MB" envDefault:"100"`
	MaxBackups int  `env:"LOG_FILE_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int  `env:"LOG_FILE_MAX_AGE_DAYS" envDefault:"30"`
	Compress   bool `env:"LOG_FILE_COMPRESS" envDefault:"true"`
}

// DefaultRotation keeps five compressed 100MB files for up to thirty days.
var DefaultRotation = Rotation{MaxSizeMB: 100, MaxBackups: 5, MaxAgeDays: 30, Compress: true}

// WithFile duplicates every record into a rotating file at path.
// An empty path is ignored.
func WithFile(path string, r Rotation) Option {
	return func(c *config) {
		if path == "" {
			return
		}
		if r.MaxSizeMB <= 0 {
			r.MaxSizeMB = DefaultRotation.MaxSizeMB
		}
		if r.MaxBackups <= 0 {
			r.MaxBackups = DefaultRotation.MaxBackups
		}
		if r.MaxAgeDays <= 0 {
			r.MaxAgeDays = DefaultRotation.MaxAgeDays
		}
		c.file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    r.MaxSizeMB,
			MaxBackups: r.MaxBackups,
			MaxAge:     r.MaxAgeDays,
			Compress:   r.Compress,
		}
	}
}

// WithAttr adds static attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attrs...)
	}
}

// WithContextExtractors registers functions that add request-scoped
// attributes at log time. Nil extractors are skipped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		for _, ex := range extractors {
			if ex != nil {
				c.extractors = append(c.extractors, ex)
			}
		}
	}
}

// WithEnvironment applies the defaults for env: text at debug level for
// development, JSON at info level otherwise. The service name and env are
// attached to every record.
func WithEnvironment(env environment.Environment, service string) Option {
	return func(c *config) {
		if env.IsDevelopment() {
			c.level = slog.LevelDebug
			c.format = FormatText
		} else {
			c.level = slog.LevelInfo
			c.format = FormatJSON
		}
		if service != "" {
			c.attrs = append(c.attrs, Component(service))
		}
		c.attrs = append(c.attrs, slog.String("env", string(env)))
	}
}

func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

type config struct {
	level      slog.Level
	format     Format
	output     io.Writer
	file       io.WriteCloser
	attrs      []slog.Attr
	extractors []ContextExtractor
}

func defaultConfig() *config {
	return &config{
		level:  slog.LevelInfo,
		format: FormatJSON,
		output: os.Stdout,
	}
}

// New builds a logger whose handler runs the registered context extractors
// on every record.
func New(opts ...Option) *slog.Logger {
	l, _ := NewWithCloser(opts...)
	return l
}

// NewWithCloser is New plus a close function that releases the rotating
// file, if one was configured.
func NewWithCloser(opts ...Option) (*slog.Logger, func() error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	out := cfg.output
	closer := func() error { return nil }
	if cfg.file != nil {
		out = io.MultiWriter(cfg.output, cfg.file)
		closer = cfg.file.Close
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.level}

	var handler slog.Handler
	if cfg.format == FormatText {
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}

	if len(cfg.attrs) > 0 {
		handler = handler.WithAttrs(cfg.attrs)
	}

	return slog.New(NewLogHandlerDecorator(handler, cfg.extractors...)), closer
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

