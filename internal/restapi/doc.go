// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

// Package restapi is the session-bearing client for the analytics
// platform REST API.
//
// The client exposes both the public versioned endpoints
// (/api/<version>/...) and the private experimental endpoints
// (/api/exp/...) the custom-view pipeline depends on. Sign-in
// exchanges a personal access token for a session token, site luid,
// and user luid; every subsequent call injects the session token in
// the X-Tableau-Auth header.
//
// Listing endpoints are paged with a fixed page size of 1000 and
// observe context cancellation at page boundaries. Request bodies are
// XML for create/update and responses are requested as JSON, matching
// the platform's wire contract.
//
// The client performs no retries: failures bubble up as *APIError
// with the HTTP status and response body. Rate hygiene is a shared
// token-bucket limiter awaited before every request. Callers scope a
// session with WithSession, which signs out on all exit paths.
package restapi
