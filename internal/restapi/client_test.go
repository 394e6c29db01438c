// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package restapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/sitelift/sitelift/internal/config"
	"github.com/sitelift/sitelift/internal/models"
)

// testClient builds a client against a httptest server with an
// effectively unlimited rate limiter.
func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	conn := config.Connection{
		URL:            srv.URL,
		SiteContentURL: "acme",
		TokenName:      "migrator",
		TokenSecret:    "s3cret",
	}
	return New(conn, config.RateConfig{RequestsPerSecond: 10000, Burst: 10000})
}

func signInJSON(token, siteID, userID string) string {
	return fmt.Sprintf(`{"credentials":{"token":%q,"site":{"id":%q,"contentUrl":"acme"},"user":{"id":%q}}}`,
		token, siteID, userID)
}

func TestSignInEstablishesSession(t *testing.T) {
	t.Parallel()

	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/"+APIVersion+"/auth/signin" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		fmt.Fprint(w, signInJSON("session-token", "site-luid", "user-luid"))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	if err := c.SignIn(context.Background()); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	if got := c.Session(); got.Token != "session-token" || got.SiteID != "site-luid" || got.UserID != "user-luid" {
		t.Errorf("Session() = %+v", got)
	}
	for _, want := range []string{
		`personalAccessTokenName="migrator"`,
		`personalAccessTokenSecret="s3cret"`,
		`contentUrl="acme"`,
	} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("sign-in body missing %s: %s", want, gotBody)
		}
	}
}

func TestSignInFailureIsAuthError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := testClient(t, srv).SignIn(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("SignIn() error = %v, want *AuthError", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Errorf("wrapped error = %v, want *APIError with status 401", err)
	}
}

func TestSessionHeaderInjected(t *testing.T) {
	t.Parallel()

	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "auth/signin") {
			fmt.Fprint(w, signInJSON("tok", "site-1", "user-1"))
			return
		}
		authHeader = r.Header.Get("X-Tableau-Auth")
		fmt.Fprint(w, `{"pagination":{"pageNumber":"1","pageSize":"1000","totalAvailable":"0"},"projects":{"project":[]}}`)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	if err := c.SignIn(context.Background()); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if _, err := c.Projects(context.Background()); err != nil {
		t.Fatalf("Projects() error = %v", err)
	}
	if authHeader != "tok" {
		t.Errorf("X-Tableau-Auth = %q, want session token", authHeader)
	}
}

func TestWithSessionSignsOutOnError(t *testing.T) {
	t.Parallel()

	var signedOut bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "auth/signin"):
			fmt.Fprint(w, signInJSON("tok", "site-1", "user-1"))
		case strings.HasSuffix(r.URL.Path, "auth/signout"):
			signedOut = true
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	c := testClient(t, srv)
	wantErr := errors.New("driver blew up")
	err := c.WithSession(context.Background(), func(context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("WithSession() error = %v, want %v", err, wantErr)
	}
	if !signedOut {
		t.Error("session was not released after callback error")
	}
	if c.Session().Token != "" {
		t.Error("session token survived sign-out")
	}
}

func TestAPIErrorSurfacesStatusAndBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"error":{"summary":"already exists"}}`)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	err := c.getJSON(context.Background(), "/api/3.24/sites/x/things", nil, &struct{}{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusConflict {
		t.Errorf("Status = %d, want 409", apiErr.Status)
	}
	if !strings.Contains(apiErr.Body, "already exists") {
		t.Errorf("Body = %q, want server body preserved", apiErr.Body)
	}
	if apiErr.Retryable() {
		t.Error("409 must not be retryable")
	}
}

func TestAPIErrorRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			t.Parallel()
			e := &APIError{Status: tt.status}
			if e.Retryable() != tt.want {
				t.Errorf("Retryable() for %d = %v, want %v", tt.status, e.Retryable(), tt.want)
			}
		})
	}
}

func TestReadBodyForErrorTruncates(t *testing.T) {
	t.Parallel()

	huge := strings.Repeat("x", maxErrorBodySize+100)
	got := readBodyForError(strings.NewReader(huge))
	if len(got) > maxErrorBodySize+100 {
		t.Errorf("body not limited: %d bytes", len(got))
	}
	if !strings.HasSuffix(string(got), "(truncated)") {
		t.Error("truncated body not marked")
	}
}

func TestAddFavoriteBody(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "auth/signin") {
			fmt.Fprint(w, signInJSON("tok", "site-1", "user-1"))
			return
		}
		gotMethod = r.Method
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	if err := c.SignIn(context.Background()); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	err := c.AddFavorite(context.Background(), "u1d", "star",
		testTarget("workbook", "w1d"))
	if err != nil {
		t.Fatalf("AddFavorite() error = %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %s, want PUT", gotMethod)
	}
	if gotPath != "/api/"+APIVersion+"/sites/site-1/favorites/u1d" {
		t.Errorf("path = %s", gotPath)
	}
	for _, want := range []string{`label="star"`, `<workbook id="w1d"`} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("body missing %s: %s", want, gotBody)
		}
	}
}

func TestExpPublishCustomViewMultipart(t *testing.T) {
	t.Parallel()

	var gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "auth/signin") {
			fmt.Fprint(w, signInJSON("tok", "site-1", "user-1"))
			return
		}
		if r.URL.Path != "/api/exp/sites/site-1/customviews" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		fmt.Fprint(w, `{"customView":{"id":"cv1d"}}`)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	if err := c.SignIn(context.Background()); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	newID, err := c.ExpPublishCustomView(context.Background(), "My View", true, "w1d", "u1d", []byte(`{"viewState":1}`))
	if err != nil {
		t.Fatalf("ExpPublishCustomView() error = %v", err)
	}
	if newID != "cv1d" {
		t.Errorf("new id = %q, want cv1d", newID)
	}
	if !strings.HasPrefix(gotContentType, "multipart/mixed") {
		t.Errorf("Content-Type = %q, want multipart/mixed", gotContentType)
	}
	for _, want := range []string{
		`name="request_payload"`,
		`name="tableau_customview"`,
		`<customView name="My View" shared="true">`,
		`<workbook id="w1d">`,
		`{"viewState":1}`,
	} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("multipart body missing %s", want)
		}
	}
}

func TestExpSetDefaultCustomViewUsers(t *testing.T) {
	t.Parallel()

	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "auth/signin") {
			fmt.Fprint(w, signInJSON("tok", "site-1", "user-1"))
			return
		}
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		resp := map[string]any{
			"customViewAsUserDefaultResults": map[string]any{
				"customViewAsUserDefaultResult": []map[string]any{
					{"success": true, "user": map[string]string{"id": "u2d"}},
					{"success": true, "user": map[string]string{"id": "u3d"}},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	if err := c.SignIn(context.Background()); err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	results, err := c.ExpSetDefaultCustomViewUsers(context.Background(), "cv1d", []string{"u2d", "u3d"})
	if err != nil {
		t.Fatalf("ExpSetDefaultCustomViewUsers() error = %v", err)
	}
	if len(results) != 2 || !results[0].Success {
		t.Errorf("results = %+v", results)
	}
	for _, want := range []string{`<user id="u2d">`, `<user id="u3d">`} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("body missing %s: %s", want, gotBody)
		}
	}
}

func TestSubscriptionContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      models.TargetType
		want    string
		wantErr bool
	}{
		{models.TargetView, "View", false},
		{models.TargetWorkbook, "Workbook", false},
		{"View", "View", false},
		{"Workbook", "Workbook", false},
		{models.TargetDatasource, "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			t.Parallel()
			got, err := subscriptionContentType(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("subscriptionContentType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("subscriptionContentType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
