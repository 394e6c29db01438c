// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package restapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/sitelift/sitelift/internal/config"
	"github.com/sitelift/sitelift/internal/logging"
)

// APIVersion is the public REST API version the client speaks.
const APIVersion = "3.24"

// Session holds the credentials returned by sign-in. The zero value
// means "not signed in".
type Session struct {
	Token  string
	SiteID string
	UserID string
}

// Client talks to one site's REST API. It is safe for concurrent use;
// each request builds its own *http.Request and the limiter serializes
// dispatch.
type Client struct {
	baseURL        string
	version        string
	siteContentURL string
	tokenName      string
	tokenSecret    string

	httpClient *http.Client
	limiter    *rate.Limiter
	session    Session
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Used by tests
// and by callers needing custom transports.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithLimiter replaces the request pacing limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// WithVersion overrides the public API version.
func WithVersion(v string) Option {
	return func(c *Client) { c.version = v }
}

// New creates a client for the site described by conn, paced by a
// token bucket sized from rc.
func New(conn config.Connection, rc config.RateConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:        conn.URL,
		version:        APIVersion,
		siteContentURL: conn.SiteContentURL,
		tokenName:      conn.TokenName,
		tokenSecret:    conn.TokenSecret,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // flow and custom-view payloads can be large
		},
		limiter: rate.NewLimiter(rate.Limit(rc.RequestsPerSecond), rc.Burst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the current session credentials.
func (c *Client) Session() Session { return c.session }

// SiteID returns the signed-in site luid, or "" before sign-in.
func (c *Client) SiteID() string { return c.session.SiteID }

// signInRequestBody is the XML body for PAT sign-in.
type signInRequestBody struct {
	XMLName     struct{}          `xml:"tsRequest"`
	Credentials signInCredentials `xml:"credentials"`
}

type signInCredentials struct {
	TokenName   string     `xml:"personalAccessTokenName,attr"`
	TokenSecret string     `xml:"personalAccessTokenSecret,attr"`
	Site        signInSite `xml:"site"`
}

type signInSite struct {
	ContentURL string `xml:"contentUrl,attr"`
}

// signInResponseBody is the JSON response to sign-in.
type signInResponseBody struct {
	Credentials struct {
		Token string `json:"token"`
		Site  struct {
			ID         string `json:"id"`
			ContentURL string `json:"contentUrl"`
		} `json:"site"`
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	} `json:"credentials"`
}

// SignIn exchanges the personal access token for a session token,
// site luid, and user luid. Failure is an *AuthError.
func (c *Client) SignIn(ctx context.Context) error {
	body := signInRequestBody{
		Credentials: signInCredentials{
			TokenName:   c.tokenName,
			TokenSecret: c.tokenSecret,
			Site:        signInSite{ContentURL: c.siteContentURL},
		},
	}

	var resp signInResponseBody
	err := c.postXML(ctx, fmt.Sprintf("/api/%s/auth/signin", c.version), body, &resp)
	if err != nil {
		return &AuthError{Err: err}
	}
	if resp.Credentials.Token == "" {
		return &AuthError{Err: fmt.Errorf("sign-in response carried no session token")}
	}

	c.session = Session{
		Token:  resp.Credentials.Token,
		SiteID: resp.Credentials.Site.ID,
		UserID: resp.Credentials.User.ID,
	}
	logging.Debug().
		Str("site", resp.Credentials.Site.ContentURL).
		Str("site_luid", c.session.SiteID).
		Msg("signed in")
	return nil
}

// SignOut invalidates the current session token. Signing out without
// a session is a no-op.
func (c *Client) SignOut(ctx context.Context) error {
	if c.session.Token == "" {
		return nil
	}
	err := c.postXML(ctx, fmt.Sprintf("/api/%s/auth/signout", c.version), nil, nil)
	c.session = Session{}
	if err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	return nil
}

// WithSession signs in, runs fn, and signs out on all exit paths,
// including panics. The sign-out uses a background context so a
// canceled ctx still releases the session.
func (c *Client) WithSession(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := c.SignIn(ctx); err != nil {
		return err
	}
	defer func() {
		signOutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := c.SignOut(signOutCtx); err != nil {
			logging.Warn().Err(err).Msg("sign-out failed; session will expire server-side")
		}
	}()
	return fn(ctx)
}

// sitePath builds a site-scoped public API path:
// /api/<version>/sites/<site-luid>/<suffix>.
func (c *Client) sitePath(suffix string) string {
	return fmt.Sprintf("/api/%s/sites/%s/%s", c.version, c.session.SiteID, suffix)
}

// expPath builds a site-scoped experimental API path:
// /api/exp/sites/<site-luid>/<suffix>. Experimental endpoints carry no
// version and no contract stability guarantee.
func (c *Client) expPath(suffix string) string {
	return fmt.Sprintf("/api/exp/sites/%s/%s", c.session.SiteID, suffix)
}
