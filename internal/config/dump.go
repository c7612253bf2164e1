// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package config

import (
	"io"
	"net/url"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const redacted = "[redacted]"

// Redacted returns a copy of c with secrets and the database password masked.
func (c *Config) Redacted() Config {
	out := *c
	if out.Token.AccessSecret != "" {
		out.Token.AccessSecret = redacted
	}
	if out.Token.RefreshSecret != "" {
		out.Token.RefreshSecret = redacted
	}
	if u, err := url.Parse(out.Database.URL); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxx")
			out.Database.URL = u.String()
		}
	}
	return out
}

// Dump writes the redacted configuration to w as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.Redacted()); err != nil {
		return oops.Code("CONFIG_DUMP_FAILED").Wrap(err)
	}
	return oops.Wrap(enc.Close())
}
