// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package restapi

import (
	"fmt"
	"net/http"
)

// APIError is a per-call HTTP failure: any response status outside
// 2xx. The body is truncated to maxErrorBodySize for reporting.
// Per-item API errors are non-fatal; drivers record them and continue.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Body)
}

// Retryable reports whether the failure class is worth retrying:
// throttling and server-side errors. Client errors (4xx other than
// 429) are permanent.
func (e *APIError) Retryable() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

// NotFound reports whether the server said the entity does not exist.
func (e *APIError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// AuthError is a failed session acquisition. Fatal for the current
// driver run.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }
