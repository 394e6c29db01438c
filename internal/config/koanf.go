// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where the config file is searched, in
// priority order. The first file found wins.
var DefaultConfigPaths = []string{
	"sitelift.yaml",
	"sitelift.yml",
	"/etc/sitelift/sitelift.yaml",
}

// EnvPrefix is the prefix for environment variable overrides.
// SITELIFT_SOURCE__URL overrides source.url and so on; a double
// underscore separates nesting levels so single underscores survive in
// key names.
const EnvPrefix = "SITELIFT_"

// Load builds the configuration from defaults, the config file at
// path (or the first DefaultConfigPaths entry when path is empty), and
// environment overrides, then resolves token secrets from the
// environment and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, &ConfigError{Field: path, Reason: fmt.Sprintf("reading config file: %v", err)}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKeyMapper), nil); err != nil {
		return nil, fmt.Errorf("loading environment overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := resolveSecrets(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing default config path, or
// "" when none exists. Running without a file is valid as long as the
// environment supplies the required keys.
func findConfigFile() string {
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envKeyMapper turns SITELIFT_SOURCE__SITE_CONTENT_URL into
// source.site_content_url.
func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// resolveSecrets reads each connection's token secret from its
// configured environment variable. A missing or empty variable is
// fatal.
func resolveSecrets(cfg *Config) error {
	for _, c := range []struct {
		name string
		conn *Connection
	}{
		{"source", &cfg.Source},
		{"destination", &cfg.Destination},
	} {
		secret := os.Getenv(c.conn.TokenSecretEnv)
		if secret == "" {
			return &ConfigError{
				Field:  c.name + ".token_secret",
				Reason: fmt.Sprintf("environment variable %s is not set", c.conn.TokenSecretEnv),
			}
		}
		c.conn.TokenSecret = secret
	}
	return nil
}
