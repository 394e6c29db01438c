// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package models

import "fmt"

// ContentKind identifies a class of migratable site content. The string
// values match the kind tags used in the SDK manifest JSON and in the
// per-kind report files.
type ContentKind string

// All content kinds handled by sitelift, in migration prerequisite
// order: principals before containers, containers before content,
// content before the things that reference it.
const (
	KindUser         ContentKind = "user"
	KindGroup        ContentKind = "group"
	KindProject      ContentKind = "project"
	KindDatasource   ContentKind = "datasource"
	KindWorkbook     ContentKind = "workbook"
	KindView         ContentKind = "view"
	KindFlow         ContentKind = "flow"
	KindCustomView   ContentKind = "customview"
	KindSchedule     ContentKind = "schedule"
	KindTask         ContentKind = "task"
	KindSubscription ContentKind = "subscription"
	KindFavorite     ContentKind = "favorite"
)

// MigrationOrder lists the kinds a full migration processes, in the
// order the orchestrator enforces as prerequisites.
var MigrationOrder = []ContentKind{
	KindUser,
	KindGroup,
	KindProject,
	KindDatasource,
	KindWorkbook,
	KindView,
	KindFlow,
	KindCustomView,
	KindTask,
	KindSubscription,
	KindFavorite,
}

// ParseContentKind converts a kind tag to a ContentKind.
// Returns an error for unrecognized tags.
func ParseContentKind(s string) (ContentKind, error) {
	switch ContentKind(s) {
	case KindUser, KindGroup, KindProject, KindDatasource, KindWorkbook,
		KindView, KindFlow, KindCustomView, KindSchedule, KindTask,
		KindSubscription, KindFavorite:
		return ContentKind(s), nil
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// String returns the kind tag.
func (k ContentKind) String() string { return string(k) }

// IsPrincipal reports whether the kind is a user or group. Principals
// use the backslash path separator and a domain as the first segment.
func (k ContentKind) IsPrincipal() bool {
	return k == KindUser || k == KindGroup
}
