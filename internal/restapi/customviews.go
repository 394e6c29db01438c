// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package restapi

// Experimental custom-view endpoints (/api/exp/...). These carry no
// contract stability guarantee; every call the custom-view pipeline
// makes against them lives in this file so a contract change is a
// one-file fix.

import (
	"context"
	"strconv"

	"github.com/sitelift/sitelift/internal/models"
)

// ExpListDefaultCustomViewUsers lists the users who have the custom
// view as their default view.
// GET /api/exp/sites/{site}/customviews/{id}/default/users.
func (c *Client) ExpListDefaultCustomViewUsers(ctx context.Context, customViewID string) ([]models.User, error) {
	return listAll[usersResponse, models.User](ctx, c, c.expPath("customviews/"+customViewID+"/default/users"), nil)
}

// ExpDownloadCustomView fetches the opaque JSON document backing a
// custom view from the source site.
// GET /api/exp/sites/{site}/customviews/{id}/content.
func (c *Client) ExpDownloadCustomView(ctx context.Context, customViewID string) ([]byte, error) {
	return c.getBytes(ctx, c.expPath("customviews/"+customViewID+"/content"))
}

type customViewPublishRequest struct {
	XMLName    struct{}          `xml:"tsRequest"`
	CustomView customViewElement `xml:"customView"`
}

type customViewElement struct {
	Name     string   `xml:"name,attr"`
	Shared   string   `xml:"shared,attr"`
	Workbook xmlIDRef `xml:"workbook"`
	Owner    xmlIDRef `xml:"owner"`
}

type customViewCreatedResponse struct {
	CustomView struct {
		ID string `json:"id"`
	} `json:"customView"`
}

// ExpPublishCustomView uploads a custom-view document to the
// destination with a generated XML descriptor naming the workbook and
// owner, and returns the new custom-view luid.
// POST /api/exp/sites/{site}/customviews (multipart).
func (c *Client) ExpPublishCustomView(ctx context.Context, name string, shared bool, workbookID, ownerID string, content []byte) (string, error) {
	descriptor, err := marshalXMLPart(customViewPublishRequest{
		CustomView: customViewElement{
			Name:     name,
			Shared:   strconv.FormatBool(shared),
			Workbook: xmlIDRef{ID: workbookID},
			Owner:    xmlIDRef{ID: ownerID},
		},
	})
	if err != nil {
		return "", err
	}

	parts := []multipartPart{
		{Name: "request_payload", ContentType: "text/xml", Data: descriptor},
		{Name: "tableau_customview", FileName: name + ".json", ContentType: "application/octet-stream", Data: content},
	}

	var resp customViewCreatedResponse
	if err := c.postMultipart(ctx, c.expPath("customviews"), parts, &resp); err != nil {
		return "", err
	}
	return resp.CustomView.ID, nil
}

type defaultUsersRequest struct {
	XMLName struct{}   `xml:"users"`
	User    []xmlIDRef `xml:"user"`
}

// DefaultUserResult reports the outcome of one per-user default-view
// assignment.
type DefaultUserResult struct {
	Success bool `json:"success"`
	User    struct {
		ID string `json:"id"`
	} `json:"user"`
}

type defaultUsersResponse struct {
	Results struct {
		Result []DefaultUserResult `json:"customViewAsUserDefaultResult"`
	} `json:"customViewAsUserDefaultResults"`
}

// ExpSetDefaultCustomViewUsers makes the custom view the default view
// for each listed destination user and returns the per-user results.
// POST /api/exp/sites/{site}/customviews/{id}/default/users.
func (c *Client) ExpSetDefaultCustomViewUsers(ctx context.Context, customViewID string, userIDs []string) ([]DefaultUserResult, error) {
	req := defaultUsersRequest{}
	for _, id := range userIDs {
		req.User = append(req.User, xmlIDRef{ID: id})
	}

	var resp defaultUsersResponse
	if err := c.postXML(ctx, c.expPath("customviews/"+customViewID+"/default/users"), req, &resp); err != nil {
		return nil, err
	}
	return resp.Results.Result, nil
}
