// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package restapi

import (
	"context"
	"net/url"
	"strconv"
)

// PageSize is the fixed page size for every paged listing.
const PageSize = 1000

// pagination is the page descriptor every listing response carries.
// The API transports the numbers as strings.
type pagination struct {
	PageNumber     string `json:"pageNumber"`
	PageSize       string `json:"pageSize"`
	TotalAvailable string `json:"totalAvailable"`
}

// total returns TotalAvailable as an int, 0 when absent or malformed.
func (p pagination) total() int {
	n, err := strconv.Atoi(p.TotalAvailable)
	if err != nil {
		return 0
	}
	return n
}

// pagedResponse is implemented by every listing response wrapper.
type pagedResponse[T any] interface {
	page() pagination
	items() []T
}

// listAll walks every page of a listing endpoint and returns the
// concatenated items. Context cancellation is observed at each page
// boundary; an in-flight request is not interrupted beyond what the
// request context itself enforces.
func listAll[R pagedResponse[T], T any](ctx context.Context, c *Client, apiPath string, query url.Values) ([]T, error) {
	var all []T
	for pageNumber := 1; ; pageNumber++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("pageSize", strconv.Itoa(PageSize))
		q.Set("pageNumber", strconv.Itoa(pageNumber))

		var resp R
		if err := c.getJSON(ctx, apiPath, q, &resp); err != nil {
			return nil, err
		}

		pageItems := resp.items()
		all = append(all, pageItems...)

		// Stop when the total is reached, or on an empty/short page
		// for servers that report no total.
		if total := resp.page().total(); total > 0 && len(all) >= total {
			return all, nil
		}
		if len(pageItems) < PageSize {
			return all, nil
		}
	}
}
