// Copyright (c) 2026 Acceleott. All rights reserved.
// Author: platform@acceleott.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Mail) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/acceleott/acceleott/internal/platform/constants"
)

// Mail providers accepted by MAIL_PROVIDER.
const (
	MailProviderSMTP   = "smtp"
	MailProviderResend = "resend"
	MailProviderLog    = "log"
)

// # Configuration Schema

// Config holds all runtime configuration for the Acceleott API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT"   envDefault:"json"`

	// Relational database. postgres:// selects PostgreSQL, sqlite:// or file: selects SQLite.
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath overrides the embedded migrations with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Key-value cache (Redis). Optional: without it the resend cooldown is disabled.
	RedisURL string `env:"REDIS_URL"`

	// SessionSecret is the HMAC key for session tokens.
	SessionSecret string `env:"SESSION_SECRET,required,notEmpty"`

	// Public URLs
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	APIBaseURL  string `env:"API_BASE_URL" envDefault:"http://localhost:8080"`

	// Cross-Origin Resource Sharing (comma separated, added to FRONTEND_URL)
	ExtraOrigins string `env:"EXTRA_ORIGINS"`

	// Outbound mail
	MailProvider string        `env:"MAIL_PROVIDER" envDefault:"log"`
	MailFrom     string        `env:"MAIL_FROM"     envDefault:"Acceleott <no-reply@acceleott.com>"`
	MailTimeout  time.Duration `env:"MAIL_TIMEOUT"  envDefault:"5s"`
	SMTPHost     string        `env:"SMTP_HOST"     envDefault:"smtp.gmail.com"`
	SMTPPort     int           `env:"SMTP_PORT"     envDefault:"465"`
	SMTPUsername string        `env:"SMTP_USERNAME"`
	SMTPPassword string        `env:"SMTP_PASSWORD"`
	ResendAPIKey string        `env:"RESEND_API_KEY"`

	// Operator addresses
	AdminEmail   string `env:"ADMIN_EMAIL"`
	ContactInbox string `env:"CONTACT_INBOX"`

	// ResendCooldown is the minimum interval between verification resends per address.
	ResendCooldown time.Duration `env:"RESEND_COOLDOWN" envDefault:"60s"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate enforces cross-field rules that struct tags cannot express.
func (c *Config) validate() error {
	if len(c.SessionSecret) < constants.MinSessionSecretBytes {
		return fmt.Errorf("config: SESSION_SECRET must be at least %d bytes", constants.MinSessionSecretBytes)
	}

	switch c.MailProvider {
	case MailProviderSMTP:
		if c.SMTPUsername == "" || c.SMTPPassword == "" {
			return errors.New("config: SMTP_USERNAME and SMTP_PASSWORD are required for the smtp mail provider")
		}
	case MailProviderResend:
		if c.ResendAPIKey == "" {
			return errors.New("config: RESEND_API_KEY is required for the resend mail provider")
		}
	case MailProviderLog:
	default:
		return fmt.Errorf("config: unknown MAIL_PROVIDER %q", c.MailProvider)
	}

	if _, err := url.Parse(c.FrontendURL); err != nil {
		return fmt.Errorf("config: invalid FRONTEND_URL: %w", err)
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CookieSecure reports whether session cookies must carry the Secure flag.
func (c *Config) CookieSecure() bool {
	return c.IsProduction() || strings.HasPrefix(strings.ToLower(c.APIBaseURL), "https://")
}

// AllowedOrigins returns the CORS allow-list: the frontend origin plus EXTRA_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	origins := []string{strings.TrimRight(c.FrontendURL, "/")}
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, strings.TrimRight(origin, "/"))
		}
	}
	return origins
}

// ContactRecipient is the inbox receiving contact-form submissions.
func (c *Config) ContactRecipient() string {
	if c.ContactInbox != "" {
		return c.ContactInbox
	}
	return c.MailFrom
}
