// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package manifest

import (
	"fmt"

	"github.com/sitelift/sitelift/internal/location"
	"github.com/sitelift/sitelift/internal/models"
)

// BuildOptions tune the source walk. MapLocation, when set, may
// rewrite each entry's mapped location after the default mapping has
// been applied; it never sees or touches the source side.
type BuildOptions struct {
	// EmailDomain completes usernames of source users that carry no
	// email address.
	EmailDomain string
	// IdpPlaceholder becomes the first mapped segment of every user.
	IdpPlaceholder string
	MapLocation    func(models.ContentKind, models.Location) models.Location
}

func (o BuildOptions) mapped(kind models.ContentKind, loc models.Location) models.Location {
	if o.MapLocation == nil {
		return loc
	}
	return o.MapLocation(kind, loc)
}

// userEmail is the destination-side username: the source email when
// present, otherwise name@domain.
func userEmail(u models.User, domain string) string {
	if u.Email != "" {
		return u.Email
	}
	return u.Name + "@" + domain
}

// BuildSource walks a source snapshot into a fresh manifest. Mapped
// locations default to the source location; users map to
// [idp-placeholder, email] and groups to [local, name] because cloud
// principals live under an external identity provider.
func BuildSource(content location.SiteContent, opts BuildOptions) (*Manifest, error) {
	index, err := location.BuildIndex(content)
	if err != nil {
		return nil, fmt.Errorf("building source path index: %w", err)
	}

	m := New()
	for _, u := range content.Users {
		loc, ok := index.Lookup(models.KindUser, u.ID)
		if !ok {
			continue
		}
		mapped := models.PrincipalLocation(opts.IdpPlaceholder, userEmail(u, opts.EmailDomain))
		m.Add(models.KindUser, &Entry{
			Source:         Ref{ID: u.ID, Location: loc, Name: u.Name},
			MappedLocation: opts.mapped(models.KindUser, mapped),
		})
	}
	for _, g := range content.Groups {
		loc, ok := index.Lookup(models.KindGroup, g.ID)
		if !ok {
			continue
		}
		mapped := models.PrincipalLocation("local", g.Name)
		m.Add(models.KindGroup, &Entry{
			Source:         Ref{ID: g.ID, Location: loc, Name: g.Name},
			MappedLocation: opts.mapped(models.KindGroup, mapped),
		})
	}
	for _, p := range content.Projects {
		addContent(m, opts, index, models.KindProject, Ref{ID: p.ID, Name: p.Name})
	}
	for _, d := range content.Datasources {
		addContent(m, opts, index, models.KindDatasource, Ref{ID: d.ID, ContentURL: d.ContentURL, Name: d.Name})
	}
	for _, w := range content.Workbooks {
		addContent(m, opts, index, models.KindWorkbook, Ref{ID: w.ID, ContentURL: w.ContentURL, Name: w.Name})
	}
	for _, v := range content.Views {
		addContent(m, opts, index, models.KindView, Ref{ID: v.ID, ContentURL: v.ContentURL, Name: v.Name})
	}
	for _, f := range content.Flows {
		addContent(m, opts, index, models.KindFlow, Ref{ID: f.ID, Name: f.Name})
	}
	for _, cv := range content.CustomViews {
		addContent(m, opts, index, models.KindCustomView, Ref{ID: cv.ID, Name: cv.Name})
	}
	return m, nil
}

// addContent records a non-principal entity whose mapped location
// defaults to its source location.
func addContent(m *Manifest, opts BuildOptions, index *location.Index, kind models.ContentKind, ref Ref) {
	loc, ok := index.Lookup(kind, ref.ID)
	if !ok {
		return
	}
	ref.Location = loc
	m.Add(kind, &Entry{
		Source:         ref,
		MappedLocation: opts.mapped(kind, loc),
	})
}

// DestinationRefs walks a destination snapshot into per-kind ref
// lists, in listing order, for the reconciler to match against.
// Destination principals are addressed the way source entries map
// them: users under the IDP placeholder by username, groups under
// "local".
func DestinationRefs(content location.SiteContent, idpPlaceholder string) (map[models.ContentKind][]Ref, error) {
	index, err := location.BuildIndex(content)
	if err != nil {
		return nil, fmt.Errorf("building destination path index: %w", err)
	}

	refs := make(map[models.ContentKind][]Ref)
	for _, u := range content.Users {
		refs[models.KindUser] = append(refs[models.KindUser], Ref{
			ID:       u.ID,
			Location: models.PrincipalLocation(idpPlaceholder, u.Name),
			Name:     u.Name,
		})
	}
	for _, g := range content.Groups {
		refs[models.KindGroup] = append(refs[models.KindGroup], Ref{
			ID:       g.ID,
			Location: models.PrincipalLocation("local", g.Name),
			Name:     g.Name,
		})
	}
	appendRef := func(kind models.ContentKind, ref Ref) {
		loc, ok := index.Lookup(kind, ref.ID)
		if !ok {
			return
		}
		ref.Location = loc
		refs[kind] = append(refs[kind], ref)
	}
	for _, p := range content.Projects {
		appendRef(models.KindProject, Ref{ID: p.ID, Name: p.Name})
	}
	for _, d := range content.Datasources {
		appendRef(models.KindDatasource, Ref{ID: d.ID, ContentURL: d.ContentURL, Name: d.Name})
	}
	for _, w := range content.Workbooks {
		appendRef(models.KindWorkbook, Ref{ID: w.ID, ContentURL: w.ContentURL, Name: w.Name})
	}
	for _, v := range content.Views {
		appendRef(models.KindView, Ref{ID: v.ID, ContentURL: v.ContentURL, Name: v.Name})
	}
	for _, f := range content.Flows {
		appendRef(models.KindFlow, Ref{ID: f.ID, Name: f.Name})
	}
	for _, cv := range content.CustomViews {
		appendRef(models.KindCustomView, Ref{ID: cv.ID, Name: cv.Name})
	}
	return refs, nil
}
