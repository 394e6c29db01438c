// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package config

import "fmt"

// Environment selects one of the two configured sites.
type Environment string

// The two sides of a migration.
const (
	EnvSource      Environment = "source"
	EnvDestination Environment = "destination"
)

// ConfigError reports a fatal configuration problem: a missing secret
// environment variable, a malformed or non-https URL, or a missing
// required key.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Connection describes one site: where it is, which site tenant to
// sign in to, and which personal access token to use. TokenSecret is
// resolved from the environment variable named by TokenSecretEnv
// during Load and never serialized.
type Connection struct {
	URL            string `koanf:"url" validate:"required"`
	SiteContentURL string `koanf:"site_content_url"`
	TokenName      string `koanf:"token_name" validate:"required"`
	TokenSecretEnv string `koanf:"token_secret_env"`
	TokenSecret    string `koanf:"-"`
}

// UsersConfig controls how source users map onto destination
// identities.
type UsersConfig struct {
	// EmailDomain supplies name@<domain> for source users without an
	// email address.
	EmailDomain string `koanf:"email_domain"`
	// IdpPlaceholder becomes the first mapped path segment of every
	// migrated user, standing in for the destination identity
	// provider.
	IdpPlaceholder string `koanf:"idp_placeholder"`
}

// LogConfig locates run outputs: the rolling text log, the per-kind
// report folder, the manifest folder, and the snapshot cache folder.
type LogConfig struct {
	FolderPath         string `koanf:"folder_path"`
	FilePath           string `koanf:"file_path"`
	ManifestFolderPath string `koanf:"manifest_folder_path"`
	CacheFolderPath    string `koanf:"cache_folder_path"`
	Level              string `koanf:"level"`
	Format             string `koanf:"format"`
}

// ProjectRemapConfig rewrites the leading mapped-path segment of
// content under one top-level project. Destination may list several
// segments, inserting levels above the original hierarchy.
type ProjectRemapConfig struct {
	Source      string   `koanf:"source"`
	Destination []string `koanf:"destination"`
}

// FiltersConfig holds the optional selection hooks applied while
// building the manifest and import lists.
type FiltersConfig struct {
	// UserList restricts migration to the named users when non-empty.
	UserList []string `koanf:"user_list"`
	// MigrateTag restricts content migration to items carrying the
	// tag when non-empty.
	MigrateTag string `koanf:"migrate_tag"`
	// SkippedProjects drops content under the named top-level
	// projects.
	SkippedProjects []string `koanf:"skipped_projects"`
	// ProjectRemaps rewrite mapped locations during the manifest
	// build. The first matching rule wins.
	ProjectRemaps []ProjectRemapConfig `koanf:"project_remaps"`
}

// SpecialUsersConfig names accounts that are handled out of band
// (service accounts, admin consoles) and excluded from user mapping.
type SpecialUsersConfig struct {
	Emails []string `koanf:"emails"`
}

// RateConfig sizes the per-site token-bucket limiter shared by the
// snapshot builder and the operation drivers.
type RateConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int     `koanf:"burst" validate:"gte=1"`
}

// Config is the root sitelift configuration.
type Config struct {
	Source       Connection         `koanf:"source"`
	Destination  Connection         `koanf:"destination"`
	Users        UsersConfig        `koanf:"users"`
	Log          LogConfig          `koanf:"log"`
	Filters      FiltersConfig      `koanf:"filters"`
	SpecialUsers SpecialUsersConfig `koanf:"special_users"`
	Rate         RateConfig         `koanf:"rate"`
}

// Pick returns the connection descriptor for the requested
// environment.
func (c *Config) Pick(env Environment) (Connection, error) {
	switch env {
	case EnvSource:
		return c.Source, nil
	case EnvDestination:
		return c.Destination, nil
	}
	return Connection{}, &ConfigError{Field: string(env), Reason: "unknown environment"}
}

// defaultConfig returns a Config with all defaults applied. These are
// overridden by the config file and then by environment variables.
func defaultConfig() *Config {
	return &Config{
		Source: Connection{
			TokenSecretEnv: "SOURCE_TOKEN_SECRET",
		},
		Destination: Connection{
			TokenSecretEnv: "DESTINATION_TOKEN_SECRET",
		},
		Users: UsersConfig{
			IdpPlaceholder: "EXTERNAL_IDP",
		},
		Log: LogConfig{
			FolderPath:         "logs",
			FilePath:           "logs/sitelift.log",
			ManifestFolderPath: "manifest",
			CacheFolderPath:    "cache",
			Level:              "info",
			Format:             "console",
		},
		Rate: RateConfig{
			RequestsPerSecond: 2,
			Burst:             1,
		},
	}
}
