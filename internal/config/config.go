// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package config loads Gatehouse configuration from defaults, an optional
// YAML file, the environment and command-line flags, in increasing priority.
package config

import (
	"time"

	"github.com/samber/oops"

	"github.com/gatehouse-auth/gatehouse/internal/auth"
	"github.com/gatehouse-auth/gatehouse/internal/logging"
	"github.com/gatehouse-auth/gatehouse/internal/token"
)

// Config is the complete server configuration.
type Config struct {
	HTTP         HTTPConfig         `koanf:"http" yaml:"http"`
	Cookie       CookieConfig       `koanf:"cookie" yaml:"cookie"`
	Metrics      MetricsConfig      `koanf:"metrics" yaml:"metrics"`
	Database     DatabaseConfig     `koanf:"database" yaml:"database"`
	Token        TokenConfig        `koanf:"token" yaml:"token"`
	Session      SessionConfig      `koanf:"session" yaml:"session"`
	Verification VerificationConfig `koanf:"verification" yaml:"verification"`
	Hasher       HasherConfig       `koanf:"hasher" yaml:"hasher"`
	Log          LogConfig          `koanf:"log" yaml:"log"`
}

// HTTPConfig configures the public API listener.
type HTTPConfig struct {
	Addr              string        `koanf:"addr" yaml:"addr"`
	AppOrigin         string        `koanf:"app_origin" yaml:"app_origin"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// CookieConfig configures the auth cookies.
type CookieConfig struct {
	Secure bool   `koanf:"secure" yaml:"secure"`
	Domain string `koanf:"domain" yaml:"domain"`
}

// MetricsConfig configures the observability listener. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr" yaml:"addr"`
}

// DatabaseConfig configures PostgreSQL.
type DatabaseConfig struct {
	URL            string        `koanf:"url" yaml:"url"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" yaml:"connect_timeout"`
	AutoMigrate    bool          `koanf:"auto_migrate" yaml:"auto_migrate"`
	SweepInterval  time.Duration `koanf:"sweep_interval" yaml:"sweep_interval"`
}

// TokenConfig configures the JWT codec.
type TokenConfig struct {
	AccessSecret  string        `koanf:"access_secret" yaml:"access_secret"`
	RefreshSecret string        `koanf:"refresh_secret" yaml:"refresh_secret"`
	Audience      string        `koanf:"audience" yaml:"audience"`
	AccessTTL     time.Duration `koanf:"access_ttl" yaml:"access_ttl"`
	RefreshTTL    time.Duration `koanf:"refresh_ttl" yaml:"refresh_ttl"`
}

// SessionConfig configures sliding sessions.
type SessionConfig struct {
	TTL           time.Duration `koanf:"ttl" yaml:"ttl"`
	RefreshWindow time.Duration `koanf:"refresh_window" yaml:"refresh_window"`
}

// VerificationConfig configures single-use code lifetimes.
type VerificationConfig struct {
	EmailTTL         time.Duration `koanf:"email_ttl" yaml:"email_ttl"`
	PasswordResetTTL time.Duration `koanf:"password_reset_ttl" yaml:"password_reset_ttl"`
}

// HasherConfig tunes argon2id.
type HasherConfig struct {
	MemoryKiB  uint32 `koanf:"memory_kib" yaml:"memory_kib"`
	Iterations uint32 `koanf:"iterations" yaml:"iterations"`
	Threads    uint8  `koanf:"threads" yaml:"threads"`
}

// LogConfig configures slog output.
type LogConfig struct {
	Format string `koanf:"format" yaml:"format"`
	Level  string `koanf:"level" yaml:"level"`
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	switch {
	case c.HTTP.Addr == "":
		return invalid("http.addr", "is required")
	case c.HTTP.ReadHeaderTimeout <= 0:
		return invalid("http.read_header_timeout", "must be positive")
	case c.HTTP.ShutdownTimeout <= 0:
		return invalid("http.shutdown_timeout", "must be positive")
	case c.Database.URL == "":
		return invalid("database.url", "is required (or set DATABASE_URL)")
	case c.Database.ConnectTimeout <= 0:
		return invalid("database.connect_timeout", "must be positive")
	case c.Token.AccessSecret == "":
		return invalid("token.access_secret", "is required")
	case c.Token.RefreshSecret == "":
		return invalid("token.refresh_secret", "is required")
	case c.Token.AccessSecret == c.Token.RefreshSecret:
		return invalid("token.refresh_secret", "must differ from token.access_secret")
	case c.Token.AccessTTL <= 0:
		return invalid("token.access_ttl", "must be positive")
	case c.Token.RefreshTTL <= 0:
		return invalid("token.refresh_ttl", "must be positive")
	case c.Hasher.MemoryKiB == 0 || c.Hasher.Iterations == 0 || c.Hasher.Threads == 0:
		return invalid("hasher", "memory_kib, iterations and threads must be positive")
	case c.Log.Format != "json" && c.Log.Format != "text":
		return invalid("log.format", "must be 'json' or 'text'")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", "must be debug, info, warn or error")
	}
	if err := c.AuthConfig().Validate(); err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}
	// The refresh token has to survive until the session enters the window,
	// otherwise it can never be rotated.
	if c.Token.RefreshTTL < c.Session.TTL-c.Session.RefreshWindow {
		return invalid("token.refresh_ttl", "must be at least session.ttl minus session.refresh_window")
	}
	return nil
}

func invalid(key, reason string) error {
	return oops.Code("CONFIG_INVALID").With("key", key).Errorf("%s %s", key, reason)
}

// AuthConfig returns the engine settings.
func (c *Config) AuthConfig() auth.Config {
	return auth.Config{
		SessionTTL:          c.Session.TTL,
		RefreshWindow:       c.Session.RefreshWindow,
		VerificationCodeTTL: c.Verification.EmailTTL,
		PasswordResetTTL:    c.Verification.PasswordResetTTL,
	}
}

// TokenConfig returns the codec settings.
func (c *Config) TokenConfig() token.Config {
	return token.Config{
		AccessSecret:  c.Token.AccessSecret,
		RefreshSecret: c.Token.RefreshSecret,
		Audience:      c.Token.Audience,
		AccessTTL:     c.Token.AccessTTL,
		RefreshTTL:    c.Token.RefreshTTL,
	}
}

// HasherParams returns the argon2id parameters.
func (c *Config) HasherParams() auth.Argon2Params {
	params := auth.DefaultArgon2Params()
	params.Memory = c.Hasher.MemoryKiB
	params.Iterations = c.Hasher.Iterations
	params.Threads = c.Hasher.Threads
	return params
}
