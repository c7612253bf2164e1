// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

const appName = "gatehouse"

// Dir returns the XDG config directory for gatehouse. XDG_CONFIG_HOME is
// checked first, then ~/.config.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// DefaultFile is the config file used when none is named.
func DefaultFile() string {
	return filepath.Join(Dir(), "config.yaml")
}

// findDefaultFile returns DefaultFile if it exists, or "".
func findDefaultFile() string {
	path := DefaultFile()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return path
}
