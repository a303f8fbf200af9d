package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is read once at startup. Webhook secrets are optional here: a
// channel without a secret rejects every delivery at request time.
type Config struct {
	Port int `env:"PORT" envDefault:"4000"`

	PlatformWebhookSecret string        `env:"PLATFORM_WEBHOOK_SECRET"`
	ConnectWebhookSecret  string        `env:"CONNECT_WEBHOOK_SECRET"`
	WebhookTolerance      time.Duration `env:"WEBHOOK_TOLERANCE" envDefault:"0s"`
	MaxBodyBytes          int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	EventStoreCapacity int    `env:"EVENT_STORE_CAPACITY" envDefault:"50"`
	CORSAllowedOrigin  string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
}

// Load reads .env files (if any) into the process environment without
// overriding variables that are already set, then parses Config.
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config.Load: %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	if c.EventStoreCapacity <= 0 {
		return fmt.Errorf("EVENT_STORE_CAPACITY must be positive, got %d", c.EventStoreCapacity)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.WebhookTolerance < 0 {
		return fmt.Errorf("WEBHOOK_TOLERANCE must not be negative, got %s", c.WebhookTolerance)
	}
	return nil
}
