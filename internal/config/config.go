package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/mosaic-web/mosaic/pkg/db"
)

// Config holds all application configuration, populated from the environment.
type Config struct {
	// Addr is the address the HTTP server listens on.
	Addr string `env:"ADDR" envDefault:":8080"`

	// Production toggles production behavior: JSON logs, secure cookies,
	// and disables the GraphiQL explorer.
	Production bool `env:"PRODUCTION" envDefault:"false"`

	// CookieSecret signs cookies. Required in production.
	CookieSecret string `env:"COOKIE_SECRET"`

	// SessionMaxAge is the session lifetime in seconds.
	SessionMaxAge int `env:"SESSION_MAX_AGE" envDefault:"2592000"`

	// SessionStore selects the session backend: postgres, redis, or memory.
	SessionStore string `env:"SESSION_STORE" envDefault:"postgres"`

	// RedisURL is the Redis connection string, used when SessionStore is redis.
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// GraphQLRemoteURL switches the gateway to remote mode when set.
	// Queries are forwarded to this endpoint instead of executed in-process.
	GraphQLRemoteURL string `env:"GRAPHQL_REMOTE_URL" envDefault:""`

	// SentryDSN enables Sentry error reporting when set.
	SentryDSN string `env:"SENTRY_DSN" envDefault:""`

	// SentryEnvironment tags Sentry events.
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" envDefault:"development"`

	// SessionSweepSchedule is the cron schedule for expired session cleanup.
	SessionSweepSchedule string `env:"SESSION_SWEEP_SCHEDULE" envDefault:"0 * * * *"`

	// CORSAllowedOrigins enables CORS for browser clients on other origins
	// calling /graphql, typically when this process serves as the remote
	// gateway. Empty means no CORS headers are emitted.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	DB db.Config
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Production && cfg.CookieSecret == "" {
		return nil, fmt.Errorf("COOKIE_SECRET is required in production")
	}
	if cfg.SessionStore == "redis" && cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required when SESSION_STORE=redis")
	}

	return cfg, nil
}
