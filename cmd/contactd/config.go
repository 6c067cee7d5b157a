package main

import (
	"errors"
	"time"

	"github.com/electroredes/contactguard/pkg/clientip"
	"github.com/electroredes/contactguard/pkg/cookie"
	"github.com/electroredes/contactguard/pkg/email"
	"github.com/electroredes/contactguard/pkg/httpserver"
	"github.com/electroredes/contactguard/pkg/logger"
	"github.com/electroredes/contactguard/pkg/pg"
	"github.com/electroredes/contactguard/pkg/ratelimiter"
	"github.com/electroredes/contactguard/pkg/redis"
)

// Config is the full contactd configuration, read from the environment and
// an optional .env file.
type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"contactd"`
	LogLevel    string `env:"LOG_LEVEL"`
	LogFile     string `env:"LOG_FILE"`
	LogRotation logger.Rotation

	HTTP      httpserver.Config
	RateLimit ratelimiter.Config
	Redis     redis.Config
	Cookie    cookie.Config
	ClientIP  clientip.Config
	Postgres  pg.Config
	Email     email.Config

	// Sink is one of relay, email or log.
	Sink         string        `env:"CONTACT_SINK" envDefault:"relay"`
	EmailTo      string        `env:"CONTACT_EMAIL_TO"`
	RelayURL     string        `env:"CONTACT_RELAY_URL"`
	Subject      string        `env:"CONTACT_SUBJECT"`
	FormVersion  string        `env:"CONTACT_FORM_VERSION"`
	RelayTimeout time.Duration `env:"CONTACT_RELAY_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes int64         `env:"CONTACT_MAX_BODY_BYTES" envDefault:"65536"`

	WhatsAppPhone    string `env:"WHATSAPP_PHONE"`
	WhatsAppGreeting string `env:"WHATSAPP_GREETING"`

	CSRFEnabled bool `env:"CSRF_ENABLED" envDefault:"true"`

	SecurityLogDB            string `env:"SECURITY_LOG_DB"`
	SecurityLogForwardURL    string `env:"SECURITY_LOG_FORWARD_URL"`
	SecurityLogForwardSecret string `env:"SECURITY_LOG_FORWARD_SECRET"`
	SecurityLogBuffer        int    `env:"SECURITY_LOG_BUFFER" envDefault:"256"`
}

// recordTTL keeps limiter records in Redis for as long as any of their
// state can still matter.
func recordTTL(c ratelimiter.Config) time.Duration {
	return max(c.Window, c.BlockDuration)
}

var errInvalidSink = errors.New("invalid CONTACT_SINK")
