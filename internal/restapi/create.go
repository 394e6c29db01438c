// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package restapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/sitelift/sitelift/internal/models"
	"github.com/sitelift/sitelift/internal/schedule"
)

// xmlIDRef is a nested <element id="..."/> reference.
type xmlIDRef struct {
	ID string `xml:"id,attr"`
}

// favoriteRequest is the PUT /favorites/{userId} body. Exactly one of
// the nested target elements is set.
type favoriteRequest struct {
	XMLName  struct{}        `xml:"tsRequest"`
	Favorite favoriteElement `xml:"favorite"`
}

type favoriteElement struct {
	Label      string    `xml:"label,attr"`
	Workbook   *xmlIDRef `xml:"workbook,omitempty"`
	View       *xmlIDRef `xml:"view,omitempty"`
	Datasource *xmlIDRef `xml:"datasource,omitempty"`
	Project    *xmlIDRef `xml:"project,omitempty"`
	Flow       *xmlIDRef `xml:"flow,omitempty"`
}

// AddFavorite bookmarks the target for the destination user,
// preserving the label. PUT /sites/{site}/favorites/{user}.
func (c *Client) AddFavorite(ctx context.Context, userID, label string, target models.Target) error {
	elem := favoriteElement{Label: label}
	ref := &xmlIDRef{ID: target.ID}
	switch target.Type {
	case models.TargetWorkbook:
		elem.Workbook = ref
	case models.TargetView:
		elem.View = ref
	case models.TargetDatasource:
		elem.Datasource = ref
	case models.TargetProject:
		elem.Project = ref
	case models.TargetFlow:
		elem.Flow = ref
	default:
		return fmt.Errorf("favorite target type %q is not supported", target.Type)
	}
	return c.putXML(ctx, c.sitePath("favorites/"+userID), favoriteRequest{Favorite: elem}, nil)
}

// SubscriptionSpec carries everything needed to create a destination
// subscription: the repost attributes from the source subscription,
// the resolved destination ids, and the translated schedule element.
type SubscriptionSpec struct {
	Subject         string
	Message         string
	AttachImage     *bool
	AttachPDF       *bool
	SendIfViewEmpty *bool
	PageOrientation *string
	PageSizeOption  *string
	TargetType      models.TargetType
	TargetID        string
	UserID          string
	Schedule        schedule.CloudSchedule
}

type subscriptionRequest struct {
	XMLName      struct{}            `xml:"tsRequest"`
	Subscription subscriptionElement `xml:"subscription"`
}

type subscriptionElement struct {
	Subject         string                 `xml:"subject,attr"`
	Message         string                 `xml:"message,attr,omitempty"`
	AttachImage     *bool                  `xml:"attachImage,attr,omitempty"`
	AttachPDF       *bool                  `xml:"attachPdf,attr,omitempty"`
	PageOrientation *string                `xml:"pageOrientation,attr,omitempty"`
	PageSizeOption  *string                `xml:"pageSizeOption,attr,omitempty"`
	Content         subscriptionContent    `xml:"content"`
	User            xmlIDRef               `xml:"user"`
	Schedule        schedule.CloudSchedule `xml:"schedule"`
}

type subscriptionContent struct {
	ID              string `xml:"id,attr"`
	Type            string `xml:"type,attr"`
	SendIfViewEmpty *bool  `xml:"sendIfViewEmpty,attr,omitempty"`
}

type subscriptionCreatedResponse struct {
	Subscription struct {
		ID string `json:"id"`
	} `json:"subscription"`
}

// subscriptionContentType maps the target type onto the capitalized
// form the subscription body requires ("View", "Workbook"). Matching
// is case-insensitive because source listings report the same values
// capitalized.
func subscriptionContentType(t models.TargetType) (string, error) {
	switch {
	case strings.EqualFold(string(t), string(models.TargetView)):
		return "View", nil
	case strings.EqualFold(string(t), string(models.TargetWorkbook)):
		return "Workbook", nil
	}
	return "", fmt.Errorf("subscription target type %q is not supported", t)
}

// CreateSubscription creates a subscription on the destination and
// returns the new subscription luid. POST /sites/{site}/subscriptions.
func (c *Client) CreateSubscription(ctx context.Context, spec SubscriptionSpec) (string, error) {
	contentType, err := subscriptionContentType(spec.TargetType)
	if err != nil {
		return "", err
	}
	req := subscriptionRequest{
		Subscription: subscriptionElement{
			Subject:         spec.Subject,
			Message:         spec.Message,
			AttachImage:     spec.AttachImage,
			AttachPDF:       spec.AttachPDF,
			PageOrientation: spec.PageOrientation,
			PageSizeOption:  spec.PageSizeOption,
			Content: subscriptionContent{
				ID:              spec.TargetID,
				Type:            contentType,
				SendIfViewEmpty: spec.SendIfViewEmpty,
			},
			User:     xmlIDRef{ID: spec.UserID},
			Schedule: spec.Schedule,
		},
	}
	var resp subscriptionCreatedResponse
	if err := c.postXML(ctx, c.sitePath("subscriptions"), req, &resp); err != nil {
		return "", err
	}
	return resp.Subscription.ID, nil
}

// TaskSpec carries a destination extract-refresh creation request.
type TaskSpec struct {
	Type       models.RefreshType
	TargetType models.TargetType
	TargetID   string
	Schedule   schedule.CloudSchedule
}

type taskRequest struct {
	XMLName        struct{}               `xml:"tsRequest"`
	ExtractRefresh extractRefreshElement  `xml:"extractRefresh"`
	Schedule       schedule.CloudSchedule `xml:"schedule"`
}

type extractRefreshElement struct {
	Type       string    `xml:"type,attr"`
	Workbook   *xmlIDRef `xml:"workbook,omitempty"`
	Datasource *xmlIDRef `xml:"datasource,omitempty"`
}

type taskCreatedResponse struct {
	ExtractRefresh struct {
		ID string `json:"id"`
	} `json:"extractRefresh"`
}

// CreateExtractRefreshTask creates a cloud extract-refresh task and
// returns its luid. POST /sites/{site}/tasks/extractRefreshes.
func (c *Client) CreateExtractRefreshTask(ctx context.Context, spec TaskSpec) (string, error) {
	elem := extractRefreshElement{Type: string(spec.Type)}
	ref := &xmlIDRef{ID: spec.TargetID}
	switch spec.TargetType {
	case models.TargetWorkbook:
		elem.Workbook = ref
	case models.TargetDatasource:
		elem.Datasource = ref
	default:
		return "", fmt.Errorf("extract refresh target type %q is not supported", spec.TargetType)
	}

	req := taskRequest{ExtractRefresh: elem, Schedule: spec.Schedule}
	var resp taskCreatedResponse
	if err := c.postXML(ctx, c.sitePath("tasks/extractRefreshes"), req, &resp); err != nil {
		return "", err
	}
	return resp.ExtractRefresh.ID, nil
}

// DownloadFlow fetches the flow file bytes from the source.
// GET /sites/{site}/flows/{flow}/content.
func (c *Client) DownloadFlow(ctx context.Context, flowID string) ([]byte, error) {
	return c.getBytes(ctx, c.sitePath("flows/"+flowID+"/content"))
}

type flowPublishRequest struct {
	XMLName struct{}    `xml:"tsRequest"`
	Flow    flowElement `xml:"flow"`
}

type flowElement struct {
	Name    string   `xml:"name,attr"`
	Project xmlIDRef `xml:"project"`
	Owner   xmlIDRef `xml:"owner"`
}

type flowCreatedResponse struct {
	Flow struct {
		ID string `json:"id"`
	} `json:"flow"`
}

// PublishFlow uploads a flow file to the destination with an explicit
// project and owner, returning the new flow luid. Connections are
// deliberately not configured here; they are set on the destination
// after migration. POST /sites/{site}/flows (multipart).
func (c *Client) PublishFlow(ctx context.Context, name, projectID, ownerID, fileName string, content []byte) (string, error) {
	descriptor, err := marshalXMLPart(flowPublishRequest{
		Flow: flowElement{
			Name:    name,
			Project: xmlIDRef{ID: projectID},
			Owner:   xmlIDRef{ID: ownerID},
		},
	})
	if err != nil {
		return "", err
	}

	parts := []multipartPart{
		{Name: "request_payload", ContentType: "text/xml", Data: descriptor},
		{Name: "tableau_flow", FileName: fileName, ContentType: "application/octet-stream", Data: content},
	}

	var resp flowCreatedResponse
	if err := c.postMultipart(ctx, c.sitePath("flows")+"?flowType=tflx", parts, &resp); err != nil {
		return "", err
	}
	return resp.Flow.ID, nil
}
