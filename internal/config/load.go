// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/gatehouse-auth/gatehouse/internal/auth"
	"github.com/gatehouse-auth/gatehouse/internal/token"
)

// EnvPrefix prefixes every configuration environment variable. "__"
// separates nesting levels, so GATEHOUSE_TOKEN__ACCESS_SECRET sets
// token.access_secret.
const EnvPrefix = "GATEHOUSE_"

// defaults holds the value of every key before any source is applied.
var defaults = map[string]any{
	"http.addr":                       ":4004",
	"http.app_origin":                 "http://localhost:5173",
	"http.read_header_timeout":        10 * time.Second,
	"http.shutdown_timeout":           10 * time.Second,
	"cookie.secure":                   true,
	"cookie.domain":                   "",
	"metrics.addr":                    "127.0.0.1:9100",
	"database.url":                    "",
	"database.connect_timeout":        30 * time.Second,
	"database.auto_migrate":           true,
	"database.sweep_interval":         auth.DefaultSweepInterval,
	"token.access_secret":             "",
	"token.refresh_secret":            "",
	"token.audience":                  token.DefaultAudience,
	"token.access_ttl":                token.DefaultAccessTTL,
	"token.refresh_ttl":               token.DefaultRefreshTTL,
	"session.ttl":                     auth.DefaultSessionTTL,
	"session.refresh_window":          auth.DefaultRefreshWindow,
	"verification.email_ttl":          auth.DefaultEmailVerificationTTL,
	"verification.password_reset_ttl": auth.DefaultPasswordResetTTL,
	"hasher.memory_kib":               uint32(64 * 1024),
	"hasher.iterations":               uint32(1),
	"hasher.threads":                  uint8(4),
	"log.format":                      "json",
	"log.level":                       "info",
}

// flagKeys maps command-line flag names to configuration keys. Flags not
// listed here are ignored by Load.
var flagKeys = map[string]string{
	"http-addr":    "http.addr",
	"metrics-addr": "metrics.addr",
	"database-url": "database.url",
	"log-format":   "log.format",
	"log-level":    "log.level",
	"auto-migrate": "database.auto_migrate",
}

// Options selects the sources Load reads.
type Options struct {
	// File is an optional YAML file path.
	File string
	// Flags, if set, override every other source for flags the user changed.
	Flags *pflag.FlagSet
	// SearchDefault reads DefaultFile when File is empty and it exists.
	SearchDefault bool
}

// Load builds a Config. It does not validate it.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("key", key).Wrap(err)
		}
	}

	if opts.File == "" && opts.SearchDefault {
		opts.File = findDefaultFile()
	}
	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("file", opts.File).Wrap(err)
		}
	}

	// DATABASE_URL is honoured for compatibility with hosted Postgres; the
	// prefixed variable loads after it and wins.
	if err := k.Load(env.ProviderWithValue("DATABASE_URL", ".", func(key, value string) (string, any) {
		if key != "DATABASE_URL" || value == "" {
			return "", nil
		}
		return "database.url", value
	}), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if opts.Flags != nil {
		provider := posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(opts.Flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("operation", "unmarshal").Wrap(err)
	}
	return &cfg, nil
}

// envKey turns GATEHOUSE_TOKEN__ACCESS_SECRET into token.access_secret.
func envKey(name string) string {
	name = strings.TrimPrefix(name, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(name), "__", ".")
}
