// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/pafou/PLANDECH-back/internal/storage/sqldb"
)

// DatabaseOptions selects and tunes the store.
type DatabaseOptions struct {
	Driver       string `env:"DB_DRIVER" envDefault:"sqlite" validate:"oneof=sqlite postgres"`
	Path         string `env:"DB_PATH" envDefault:"./data/workload.db"`
	URL          string `env:"DATABASE_URL" validate:"required_if=Driver postgres"`
	Migrate      bool   `env:"DB_MIGRATE" envDefault:"true"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10" validate:"gte=1"`
	TeamColumn   string `env:"WORKLOAD_TEAM_COLUMN" envDefault:"auto" validate:"oneof=auto on off"`
}

// StoreOptions converts d into sqldb options.
func (d DatabaseOptions) StoreOptions() sqldb.Options {
	opts := sqldb.Options{
		Dialect:      sqldb.Dialect(d.Driver),
		DSN:          d.Path,
		Migrate:      d.Migrate,
		MaxOpenConns: d.MaxOpenConns,
		TeamColumn:   sqldb.TeamColumnMode(d.TeamColumn),
	}
	if opts.Dialect == sqldb.Postgres {
		opts.DSN = d.URL
	}
	return opts
}

// LogOptions configures pkg/logging.
type LogOptions struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
}

// Config is the full service configuration.
type Config struct {
	Database DatabaseOptions
	Log      LogOptions

	Port            int           `env:"PORT" envDefault:"5001" validate:"gte=1,lte=65535"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// LoadEnv loads the env files that exist, without overriding variables that
// are already set. It returns how many files were loaded.
func LoadEnv(files ...string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return 0, fmt.Errorf("failed to load env files: %w", err)
	}
	return len(existing), nil
}

// Load parses and validates the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return nil, fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
