// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"go-shortview/internal/notify"
	"go-shortview/internal/tracking/database"
	"go-shortview/internal/tracking/usecase"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devJWTSecret = "dev-secret-change-me"
)

// Config is the full process configuration.
type Config struct {
	Env  string `env:"SHORTVIEW_ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseURL    string `env:"DATABASE_URL" envDefault:"data/shortview.db"`
	// Empty disables the artifact cache.
	RedisAddr string `env:"REDIS_ADDR"`

	PublicScheme string `env:"PUBLIC_SCHEME" envDefault:"http"`
	PublicDomain string `env:"PUBLIC_DOMAIN" envDefault:"localhost:8080"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"shortview@localhost"`
	ProductName  string `env:"PRODUCT_NAME" envDefault:"ShortView"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`

	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
	MainWorker    bool          `env:"SHORTVIEW_MAIN_WORKER" envDefault:"true"`
	APIRateLimit  int           `env:"API_RATE_LIMIT" envDefault:"100"`
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the configuration from the environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseDriver != database.DriverSQLite && c.DatabaseDriver != database.DriverPostgres {
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q",
			database.DriverSQLite, database.DriverPostgres, c.DatabaseDriver))
	}
	if c.PublicScheme != "http" && c.PublicScheme != "https" {
		errs = append(errs, fmt.Errorf("PUBLIC_SCHEME must be http or https, got %q", c.PublicScheme))
	}
	if c.PublicDomain == "" {
		errs = append(errs, errors.New("PUBLIC_DOMAIN is required"))
	}
	if c.APIRateLimit < 1 {
		errs = append(errs, fmt.Errorf("API_RATE_LIMIT must be positive, got %d", c.APIRateLimit))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("SWEEP_INTERVAL must be positive, got %s", c.SweepInterval))
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == devJWTSecret) {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Site is the public face used to build absolute URLs and mail.
func (c *Config) Site() usecase.Site {
	return usecase.Site{
		Scheme:      c.PublicScheme,
		Domain:      c.PublicDomain,
		MailFrom:    c.MailFrom,
		ProductName: c.ProductName,
	}
}

func (c *Config) SMTP() notify.SMTPConfig {
	return notify.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUsername,
		Password: c.SMTPPassword,
	}
}

