// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

// Package config loads and validates sitelift configuration.
//
// Configuration is layered with koanf: struct defaults first, then an
// optional YAML config file, then environment variables prefixed with
// SITELIFT_. Personal access token secrets are never read from the
// config file; they come only from the process environment
// (SOURCE_TOKEN_SECRET and DESTINATION_TOKEN_SECRET by default).
//
// Both site URLs must be https. Validation failures are reported as
// *ConfigError and are fatal to the run.
package config
