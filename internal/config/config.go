package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fxrates-exporter/internal/domain"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Common
	Env       string `envconfig:"ENV" default:"local"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	// Provider
	Provider        string        `envconfig:"PROVIDER" default:"exchangerateapi"`
	ExchangeAPIBase string        `envconfig:"EXCHANGE_API_BASE" default:"https://v6.exchangerate-api.com/v6"`
	APIKey          string        `envconfig:"API_KEY"`
	BaseCurrency    string        `envconfig:"BASE_CURRENCY" default:"USD"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	FetchRetries    int           `envconfig:"FETCH_RETRIES" default:"2"`
	RetryBackoff    time.Duration `envconfig:"RETRY_BACKOFF" default:"1s"`
	// Output
	OutputDir      string        `envconfig:"OUTPUT_DIR" default:"exports"`
	OutputFormats  []string      `envconfig:"OUTPUT_FORMATS" default:"csv,xlsx"`
	OnConflict     string        `envconfig:"ON_CONFLICT" default:"prompt"`
	ConfirmTimeout time.Duration `envconfig:"CONFIRM_TIMEOUT" default:"0s"`
	// Run lock
	LockBackend   string        `envconfig:"LOCK_BACKEND" default:"none"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	LockTTL       time.Duration `envconfig:"LOCK_TTL" default:"1m"`
}

// Load reads environment variables and applies defaults. The result is not
// validated so flags can still override it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate normalizes enum-like fields in place and rejects values the
// exporter cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if base, err := domain.NormalizeCurrency(c.BaseCurrency); err != nil {
		errs = append(errs, fmt.Errorf("BASE_CURRENCY: %w", err))
	} else {
		c.BaseCurrency = base
	}

	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case "exchangerateapi", "static":
	default:
		errs = append(errs, fmt.Errorf("PROVIDER: unknown provider %q", c.Provider))
	}

	if c.FetchRetries < 0 {
		errs = append(errs, fmt.Errorf("FETCH_RETRIES: must be >= 0, got %d", c.FetchRetries))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT: must be positive, got %s", c.RequestTimeout))
	}
	if c.RetryBackoff < 0 {
		errs = append(errs, fmt.Errorf("RETRY_BACKOFF: must be >= 0, got %s", c.RetryBackoff))
	}
	if c.ConfirmTimeout < 0 {
		errs = append(errs, fmt.Errorf("CONFIRM_TIMEOUT: must be >= 0, got %s", c.ConfirmTimeout))
	}

	c.OnConflict = strings.ToLower(strings.TrimSpace(c.OnConflict))
	switch c.OnConflict {
	case "prompt", "overwrite", "rename", "cancel":
	default:
		errs = append(errs, fmt.Errorf("ON_CONFLICT: unknown policy %q", c.OnConflict))
	}

	c.LockBackend = strings.ToLower(strings.TrimSpace(c.LockBackend))
	switch c.LockBackend {
	case "none", "":
		c.LockBackend = "none"
	case "redis":
		if c.LockTTL <= 0 {
			errs = append(errs, fmt.Errorf("LOCK_TTL: must be positive, got %s", c.LockTTL))
		}
	default:
		errs = append(errs, fmt.Errorf("LOCK_BACKEND: unknown backend %q", c.LockBackend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
