// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package config

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
)

// Validate checks that required configuration is present and valid.
// Field-shape checks run through the validator tags; connection URLs
// additionally must be https.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &ConfigError{Field: "config", Reason: err.Error()}
	}

	if err := validateConnection("source", c.Source); err != nil {
		return err
	}
	if err := validateConnection("destination", c.Destination); err != nil {
		return err
	}
	return c.validateUsers()
}

// validateConnection checks one site descriptor.
func validateConnection(name string, conn Connection) error {
	if err := validateHTTPSURL(conn.URL); err != nil {
		return &ConfigError{Field: name + ".url", Reason: err.Error()}
	}
	if conn.TokenName == "" {
		return &ConfigError{Field: name + ".token_name", Reason: "access token name is required"}
	}
	return nil
}

// validateUsers checks the user-mapping settings the manifest builder
// depends on.
func (c *Config) validateUsers() error {
	if c.Users.IdpPlaceholder == "" {
		return &ConfigError{Field: "users.idp_placeholder", Reason: "identity provider placeholder is required"}
	}
	return nil
}

// validateHTTPSURL parses the URL and requires the https scheme and a
// host. Plain http is rejected: tokens would travel in the clear.
func validateHTTPSURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("URL %q must use https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}
