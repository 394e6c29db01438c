// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

// Package location computes canonical hierarchical paths for site
// entities.
//
// Project paths come from a breadth-first walk over the
// parent-project adjacency map, starting at the top-level projects.
// Content under a project (data sources, workbooks, flows) appends its
// name to the project path; a view appends its name to its workbook's
// path; principals are addressed as domain\name.
//
// Paths are stable across runs as long as no entity is renamed or
// moved. Uniqueness is not guaranteed (two workbooks may share a name
// inside one project); such collisions surface later as manifest
// reconciliation ambiguities.
package location

import (
	"fmt"

	"github.com/sitelift/sitelift/internal/logging"
	"github.com/sitelift/sitelift/internal/models"
)

// defaultDomain is assumed for principals whose listing payload
// carries no domain block.
const defaultDomain = "local"

// ProjectPaths computes a Location for every project by walking the
// parent adjacency map breadth-first from the top-level projects.
// A cycle, or a parent reference to a project outside the input,
// leaves projects unvisited; those are reported as an error because
// every path derived from them would be wrong.
func ProjectPaths(projects []models.Project) (map[string]models.Location, error) {
	children := make(map[string][]models.Project, len(projects))
	var roots []models.Project
	for _, p := range projects {
		if p.ParentProjectID == nil || *p.ParentProjectID == "" {
			roots = append(roots, p)
			continue
		}
		children[*p.ParentProjectID] = append(children[*p.ParentProjectID], p)
	}

	paths := make(map[string]models.Location, len(projects))
	queue := make([]models.Project, 0, len(projects))
	for _, root := range roots {
		paths[root.ID] = models.ContentLocation(root.Name)
		queue = append(queue, root)
	}
	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]
		for _, child := range children[parent.ID] {
			if _, seen := paths[child.ID]; seen {
				// Same child reachable twice means the server returned
				// a malformed hierarchy.
				return nil, fmt.Errorf("project %s (%s) has multiple parents", child.ID, child.Name)
			}
			paths[child.ID] = paths[parent.ID].Append(child.Name)
			queue = append(queue, child)
		}
	}

	if len(paths) != len(projects) {
		var unreachable []string
		for _, p := range projects {
			if _, ok := paths[p.ID]; !ok {
				unreachable = append(unreachable, fmt.Sprintf("%s (%s)", p.ID, p.Name))
			}
		}
		return nil, fmt.Errorf("project hierarchy has %d unreachable projects (cycle or missing parent): %v",
			len(unreachable), unreachable)
	}
	return paths, nil
}

// ContentPath addresses content living directly under a project.
// Returns false when the project is unknown.
func ContentPath(projectPaths map[string]models.Location, projectID, name string) (models.Location, bool) {
	base, ok := projectPaths[projectID]
	if !ok {
		return models.Location{}, false
	}
	return base.Append(name), true
}

// ViewPath addresses a view under its workbook's path.
func ViewPath(workbookPath models.Location, viewName string) models.Location {
	return workbookPath.Append(viewName)
}

// PrincipalPath addresses a user or group as domain\name. A nil
// domain defaults to "local".
func PrincipalPath(domain *models.Domain, name string) models.Location {
	d := defaultDomain
	if domain != nil && domain.Name != "" {
		d = domain.Name
	}
	return models.PrincipalLocation(d, name)
}

// Index maps every entity id on one site to its canonical Location,
// bucketed by content kind.
type Index struct {
	byKind map[models.ContentKind]map[string]models.Location
}

// SiteContent bundles the collections an Index is derived from.
type SiteContent struct {
	Users       []models.User
	Groups      []models.Group
	Projects    []models.Project
	Datasources []models.Datasource
	Workbooks   []models.Workbook
	Views       []models.View
	Flows       []models.Flow
	CustomViews []models.CustomView
}

// BuildIndex derives every entity's Location from the site content.
// Content whose parent project (or workbook, for views) is missing
// from the input is skipped with a warning; its absence surfaces
// later as "not found in manifest".
func BuildIndex(content SiteContent) (*Index, error) {
	projectPaths, err := ProjectPaths(content.Projects)
	if err != nil {
		return nil, err
	}

	idx := &Index{byKind: make(map[models.ContentKind]map[string]models.Location)}
	idx.byKind[models.KindProject] = projectPaths

	for _, u := range content.Users {
		idx.set(models.KindUser, u.ID, PrincipalPath(u.Domain, u.Name))
	}
	for _, g := range content.Groups {
		idx.set(models.KindGroup, g.ID, PrincipalPath(g.Domain, g.Name))
	}
	for _, d := range content.Datasources {
		if loc, ok := ContentPath(projectPaths, d.Project.ID, d.Name); ok {
			idx.set(models.KindDatasource, d.ID, loc)
		} else {
			warnOrphan(models.KindDatasource, d.ID, d.Name)
		}
	}
	workbookPaths := make(map[string]models.Location, len(content.Workbooks))
	for _, w := range content.Workbooks {
		loc, ok := ContentPath(projectPaths, w.Project.ID, w.Name)
		if !ok {
			warnOrphan(models.KindWorkbook, w.ID, w.Name)
			continue
		}
		workbookPaths[w.ID] = loc
		idx.set(models.KindWorkbook, w.ID, loc)
	}
	for _, v := range content.Views {
		wbPath, ok := workbookPaths[v.Workbook.ID]
		if !ok {
			warnOrphan(models.KindView, v.ID, v.Name)
			continue
		}
		idx.set(models.KindView, v.ID, ViewPath(wbPath, v.Name))
	}
	for _, f := range content.Flows {
		if loc, ok := ContentPath(projectPaths, f.Project.ID, f.Name); ok {
			idx.set(models.KindFlow, f.ID, loc)
		} else {
			warnOrphan(models.KindFlow, f.ID, f.Name)
		}
	}
	for _, cv := range content.CustomViews {
		wbPath, ok := workbookPaths[cv.Workbook.ID]
		if !ok {
			warnOrphan(models.KindCustomView, cv.ID, cv.Name)
			continue
		}
		idx.set(models.KindCustomView, cv.ID, wbPath.Append(cv.Name))
	}
	return idx, nil
}

func (i *Index) set(kind models.ContentKind, id string, loc models.Location) {
	bucket, ok := i.byKind[kind]
	if !ok {
		bucket = make(map[string]models.Location)
		i.byKind[kind] = bucket
	}
	bucket[id] = loc
}

// Lookup returns the Location of an entity, if the index knows it.
func (i *Index) Lookup(kind models.ContentKind, id string) (models.Location, bool) {
	loc, ok := i.byKind[kind][id]
	return loc, ok
}

// Kind returns the full id-to-location bucket for one content kind.
func (i *Index) Kind(kind models.ContentKind) map[string]models.Location {
	return i.byKind[kind]
}

func warnOrphan(kind models.ContentKind, id, name string) {
	logging.Warn().
		Str("kind", kind.String()).
		Str("id", id).
		Str("name", name).
		Msg("entity's parent is missing; no path assigned")
}
