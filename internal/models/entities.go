// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package models

// IDRef is a nested reference to another entity by luid. Most REST
// payloads embed references this way ({"id": "...", "name": "..."}).
type IDRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Domain is the identity domain a principal belongs to ("local" for
// site-native accounts, an Active Directory domain name otherwise).
type Domain struct {
	Name string `json:"name"`
}

// Tag is a user-assigned content label.
type Tag struct {
	Label string `json:"label"`
}

// Tags is the wire wrapper around a tag list.
type Tags struct {
	Tag []Tag `json:"tag,omitempty"`
}

// Labels returns the flat list of tag labels.
func (t Tags) Labels() []string {
	labels := make([]string, 0, len(t.Tag))
	for _, tag := range t.Tag {
		labels = append(labels, tag.Label)
	}
	return labels
}

// User is a site principal. Email may be empty on sources that
// authenticate against a directory; the manifest builder substitutes
// name@<configured-domain> in that case.
type User struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	FullName string  `json:"fullName,omitempty"`
	Email    string  `json:"email,omitempty"`
	SiteRole string  `json:"siteRole,omitempty"`
	Domain   *Domain `json:"domain,omitempty"`
}

// Group is a named set of users.
type Group struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Domain *Domain `json:"domain,omitempty"`
}

// Project is a hierarchical content container. A nil ParentProjectID
// marks a top-level project. Invariant: every non-root project's
// parent exists within the same site.
type Project struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	ParentProjectID *string `json:"parentProjectId,omitempty"`
}

// Datasource is a published data source inside a project.
type Datasource struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ContentURL string `json:"contentUrl,omitempty"`
	Project    IDRef  `json:"project"`
	Owner      IDRef  `json:"owner"`
	Tags       Tags   `json:"tags,omitempty"`
}

// Workbook is a published workbook inside a project.
type Workbook struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ContentURL string `json:"contentUrl,omitempty"`
	ShowTabs   bool   `json:"showTabs,string,omitempty"`
	Project    IDRef  `json:"project"`
	Owner      IDRef  `json:"owner"`
	Tags       Tags   `json:"tags,omitempty"`
}

// View is a sheet of a workbook. A view belongs to exactly one
// workbook; its path is <workbook-path>/<view-name>.
type View struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ContentURL string `json:"contentUrl,omitempty"`
	Hidden     bool   `json:"hidden,omitempty"`
	Workbook   IDRef  `json:"workbook"`
	Owner      IDRef  `json:"owner"`
	Tags       Tags   `json:"tags,omitempty"`
}

// Flow is a published prep flow inside a project. Connections are not
// modeled; they are configured on the destination after publish.
type Flow struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	WebpageURL string `json:"webpageUrl,omitempty"`
	FileType   string `json:"fileType,omitempty"`
	Project    IDRef  `json:"project"`
	Owner      IDRef  `json:"owner"`
	Tags       Tags   `json:"tags,omitempty"`
}

// CustomView is a saved per-user presentation of a view. The binary
// body is not part of the listing payload; it is downloaded separately
// through the experimental content endpoint. DefaultUserIDs lists the
// source users who set this view as their default, collected by the
// snapshot builder.
type CustomView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Shared         bool     `json:"shared"`
	View           IDRef    `json:"view"`
	Workbook       IDRef    `json:"workbook"`
	Owner          IDRef    `json:"owner"`
	DefaultUserIDs []string `json:"defaultUserIds,omitempty"`
}

// TargetType classifies what a subscription, task, or favorite points
// at.
type TargetType string

// Target types accepted by the destination API.
const (
	TargetWorkbook   TargetType = "workbook"
	TargetView       TargetType = "view"
	TargetDatasource TargetType = "datasource"
	TargetProject    TargetType = "project"
	TargetFlow       TargetType = "flow"
)

// Target pairs a target type with the luid of the referenced entity.
type Target struct {
	Type TargetType `json:"type"`
	ID   string     `json:"id"`
	Name string     `json:"name,omitempty"`
}

// ContentKind returns the content kind corresponding to the target
// type, for manifest lookups.
func (t Target) ContentKind() ContentKind {
	switch t.Type {
	case TargetWorkbook:
		return KindWorkbook
	case TargetView:
		return KindView
	case TargetDatasource:
		return KindDatasource
	case TargetProject:
		return KindProject
	case TargetFlow:
		return KindFlow
	}
	return ContentKind(t.Type)
}

// Subscription is a scheduled delivery of a view or workbook snapshot
// to a user. Optional delivery attributes are pointers so that absent
// and false are distinguishable when reposting.
type Subscription struct {
	ID              string  `json:"id"`
	Subject         string  `json:"subject"`
	Message         string  `json:"message,omitempty"`
	AttachImage     *bool   `json:"attachImage,omitempty"`
	AttachPDF       *bool   `json:"attachPdf,omitempty"`
	SendIfViewEmpty *bool   `json:"sendIfViewEmpty,omitempty"`
	PageOrientation *string `json:"pageOrientation,omitempty"`
	PageSizeOption  *string `json:"pageSizeOption,omitempty"`
	Suspended       bool    `json:"suspended,omitempty"`
	Target          Target  `json:"content"`
	User            IDRef   `json:"user"`
	Schedule        IDRef   `json:"schedule"`
}

// RefreshType distinguishes full from incremental extract refreshes.
type RefreshType string

// Refresh task types. The source reports "RefreshExtractTask" items
// with a type tag; "extractRefresh" maps to full, everything else to
// incremental.
const (
	FullRefresh        RefreshType = "FullRefresh"
	IncrementalRefresh RefreshType = "IncrementalRefresh"
)

// ParseRefreshType maps the source wire tag to a RefreshType.
func ParseRefreshType(wire string) RefreshType {
	if wire == "extractRefresh" || wire == string(FullRefresh) {
		return FullRefresh
	}
	return IncrementalRefresh
}

// Task is a scheduled extract refresh owned by a workbook or a data
// source.
type Task struct {
	ID                     string      `json:"id"`
	Type                   RefreshType `json:"type"`
	Priority               int         `json:"priority,omitempty"`
	ConsecutiveFailedCount int         `json:"consecutiveFailedCount,omitempty"`
	Target                 Target      `json:"target"`
	Schedule               IDRef       `json:"schedule"`
}

// Favorite is a user's bookmark of a content item. Label is the
// display text the user gave the bookmark; it is preserved verbatim.
type Favorite struct {
	UserID string `json:"userId"`
	Label  string `json:"label"`
	Target Target `json:"target"`
}
