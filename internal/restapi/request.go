// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package restapi

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/goccy/go-json"
)

// maxErrorBodySize limits how much of an error response body is kept
// for reporting, preventing unbounded allocation on large responses.
const maxErrorBodySize = 64 * 1024 // 64KB

// readBodyForError reads the response body for error reporting (max
// 64KB), indicating truncation when the limit is hit.
func readBodyForError(r io.Reader) []byte {
	limited := io.LimitReader(r, maxErrorBodySize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

// do dispatches one HTTP request: waits for the rate limiter, injects
// the session token header, and requests a JSON response. Responses
// outside 2xx become *APIError. The caller owns the response body on
// success.
func (c *Client) do(ctx context.Context, method, rawURL, contentType string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, rawURL, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.session.Token != "" {
		req.Header.Set("X-Tableau-Auth", c.session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status: resp.StatusCode,
			Body:   string(readBodyForError(resp.Body)),
		}
		_ = resp.Body.Close()
		return nil, apiErr
	}
	return resp, nil
}

// absoluteURL joins the base URL, an API path, and query parameters.
func (c *Client) absoluteURL(apiPath string, query url.Values) string {
	u := c.baseURL + apiPath
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// getJSON performs a GET and decodes the JSON response into result.
func (c *Client) getJSON(ctx context.Context, apiPath string, query url.Values, result any) error {
	resp, err := c.do(ctx, http.MethodGet, c.absoluteURL(apiPath, query), "", http.NoBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding %s response: %w", apiPath, err)
	}
	return nil
}

// getBytes performs a GET and returns the raw response body. Used for
// binary content downloads (flow files, custom-view documents).
func (c *Client) getBytes(ctx context.Context, apiPath string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, c.absoluteURL(apiPath, nil), "", http.NoBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response body: %w", apiPath, err)
	}
	return data, nil
}

// sendXML marshals reqBody as XML, sends it with the given method,
// and decodes the JSON response into result (when non-nil). A nil
// reqBody sends an empty body.
func (c *Client) sendXML(ctx context.Context, method, apiPath string, reqBody, result any) error {
	var body io.Reader = http.NoBody
	contentType := ""
	if reqBody != nil {
		encoded, err := xml.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", apiPath, err)
		}
		body = bytes.NewReader(encoded)
		contentType = "text/xml"
	}

	resp, err := c.do(ctx, method, c.absoluteURL(apiPath, nil), contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding %s response: %w", apiPath, err)
	}
	return nil
}

// postXML sends an XML POST body and decodes the JSON response.
func (c *Client) postXML(ctx context.Context, apiPath string, reqBody, result any) error {
	return c.sendXML(ctx, http.MethodPost, apiPath, reqBody, result)
}

// putXML sends an XML PUT body and decodes the JSON response.
func (c *Client) putXML(ctx context.Context, apiPath string, reqBody, result any) error {
	return c.sendXML(ctx, http.MethodPut, apiPath, reqBody, result)
}

// marshalXMLPart encodes a request descriptor for use as a multipart
// payload part.
func marshalXMLPart(v any) ([]byte, error) {
	data, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding request descriptor: %w", err)
	}
	return data, nil
}

// multipartPart is one part of a multipart/mixed publish body.
type multipartPart struct {
	Name        string
	FileName    string
	ContentType string
	Data        []byte
}

// postMultipart assembles a multipart/mixed body from parts, posts it,
// and decodes the JSON response into result. The platform's publish
// endpoints expect a "request_payload" XML descriptor part followed by
// the binary payload part.
func (c *Client) postMultipart(ctx context.Context, apiPath string, parts []multipartPart, result any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, p := range parts {
		header := textproto.MIMEHeader{}
		disposition := fmt.Sprintf(`form-data; name=%q`, p.Name)
		if p.FileName != "" {
			disposition = fmt.Sprintf(`form-data; name=%q; filename=%q`, p.Name, p.FileName)
		}
		header.Set("Content-Disposition", disposition)
		header.Set("Content-Type", p.ContentType)
		w, err := writer.CreatePart(header)
		if err != nil {
			return fmt.Errorf("creating multipart part %s: %w", p.Name, err)
		}
		if _, err := w.Write(p.Data); err != nil {
			return fmt.Errorf("writing multipart part %s: %w", p.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing multipart body: %w", err)
	}

	contentType := fmt.Sprintf("multipart/mixed; boundary=%s", writer.Boundary())
	resp, err := c.do(ctx, http.MethodPost, c.absoluteURL(apiPath, nil), contentType, &buf)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding %s response: %w", apiPath, err)
	}
	return nil
}
