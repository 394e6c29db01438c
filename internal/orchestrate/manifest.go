// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package orchestrate

import (
	"fmt"
	"os"

	"github.com/sitelift/sitelift/internal/config"
	"github.com/sitelift/sitelift/internal/hooks"
	"github.com/sitelift/sitelift/internal/location"
	"github.com/sitelift/sitelift/internal/logging"
	"github.com/sitelift/sitelift/internal/manifest"
	"github.com/sitelift/sitelift/internal/models"
	"github.com/sitelift/sitelift/internal/snapshot"
)

// loadSiteContent assembles the walked collections of one role from
// the snapshot cache.
func (a *App) loadSiteContent(env config.Environment) (location.SiteContent, error) {
	r := role(env)
	var content location.SiteContent
	var err error
	if content.Users, err = snapshot.Load[models.User](a.store, snapshot.CollectionUsers, r); err != nil {
		return content, err
	}
	if content.Groups, err = snapshot.Load[models.Group](a.store, snapshot.CollectionGroups, r); err != nil {
		return content, err
	}
	if content.Projects, err = snapshot.Load[models.Project](a.store, snapshot.CollectionProjects, r); err != nil {
		return content, err
	}
	if content.Datasources, err = snapshot.Load[models.Datasource](a.store, snapshot.CollectionDatasources, r); err != nil {
		return content, err
	}
	if content.Workbooks, err = snapshot.Load[models.Workbook](a.store, snapshot.CollectionWorkbooks, r); err != nil {
		return content, err
	}
	if content.Views, err = snapshot.Load[models.View](a.store, snapshot.CollectionViews, r); err != nil {
		return content, err
	}
	if content.Flows, err = snapshot.Load[models.Flow](a.store, snapshot.CollectionFlows, r); err != nil {
		return content, err
	}
	if content.CustomViews, err = snapshot.Load[models.CustomView](a.store, snapshot.CollectionCustomViews, r); err != nil {
		return content, err
	}
	return content, nil
}

// applyFilters narrows a source walk by the configured selection
// hooks. Skipped projects keep their project entries for path
// computation; only the content beneath them is dropped.
func (a *App) applyFilters(content location.SiteContent) location.SiteContent {
	filters := a.cfg.Filters

	userHooks := hooks.NewPipeline[models.User]().
		AddFilter(hooks.UserAllowList(filters.UserList)).
		AddFilter(hooks.FilterFunc[models.User](func(u models.User) bool {
			for _, email := range a.cfg.SpecialUsers.Emails {
				if u.Email == email {
					return false
				}
			}
			return true
		}))
	content.Users = userHooks.Apply(content.Users)

	skipped := make(map[string]struct{})
	skipFilter := hooks.SkipProjects(filters.SkippedProjects)
	for _, p := range content.Projects {
		if !skipFilter.ShouldMigrate(p) {
			skipped[p.ID] = struct{}{}
		}
	}

	tag := filters.MigrateTag
	content.Datasources = hooks.NewPipeline[models.Datasource]().
		AddFilter(hooks.TagFilter(tag, func(d models.Datasource) []string { return d.Tags.Labels() })).
		AddFilter(hooks.FilterFunc[models.Datasource](func(d models.Datasource) bool {
			_, skip := skipped[d.Project.ID]
			return !skip
		})).
		Apply(content.Datasources)

	content.Workbooks = hooks.NewPipeline[models.Workbook]().
		AddFilter(hooks.TagFilter(tag, func(w models.Workbook) []string { return w.Tags.Labels() })).
		AddFilter(hooks.FilterFunc[models.Workbook](func(w models.Workbook) bool {
			_, skip := skipped[w.Project.ID]
			return !skip
		})).
		Apply(content.Workbooks)

	kept := make(map[string]struct{}, len(content.Workbooks))
	for _, w := range content.Workbooks {
		kept[w.ID] = struct{}{}
	}
	content.Views = hooks.NewPipeline[models.View]().
		AddFilter(hooks.FilterFunc[models.View](func(v models.View) bool {
			_, ok := kept[v.Workbook.ID]
			return ok
		})).
		AddTransformer(hooks.ShowHiddenViews()).
		Apply(content.Views)
	content.CustomViews = hooks.NewPipeline[models.CustomView]().
		AddFilter(hooks.FilterFunc[models.CustomView](func(cv models.CustomView) bool {
			_, ok := kept[cv.Workbook.ID]
			return ok
		})).
		Apply(content.CustomViews)

	content.Flows = hooks.NewPipeline[models.Flow]().
		AddFilter(hooks.TagFilter(tag, func(f models.Flow) []string { return f.Tags.Labels() })).
		AddFilter(hooks.FilterFunc[models.Flow](func(f models.Flow) bool {
			_, skip := skipped[f.Project.ID]
			return !skip
		})).
		Apply(content.Flows)

	return content
}

// remapLocation builds the mapped-location rewrite from the
// configured project remap rules, or nil when none are configured.
// Principals never remap; their mapped paths are identity paths, not
// project paths.
func (a *App) remapLocation() func(models.ContentKind, models.Location) models.Location {
	remaps := a.cfg.Filters.ProjectRemaps
	if len(remaps) == 0 {
		return nil
	}
	rules := make([]hooks.RemapRule, 0, len(remaps))
	for _, r := range remaps {
		rules = append(rules, hooks.RemapRule{Source: r.Source, Destination: r.Destination})
	}
	remap := hooks.ProjectRemapper[struct{}](rules)
	return func(kind models.ContentKind, loc models.Location) models.Location {
		if kind == models.KindUser || kind == models.KindGroup {
			return loc
		}
		return remap.Map(hooks.MappingContext[struct{}]{Location: loc}).Location
	}
}

// BuildManifest walks the cached source snapshot into a fresh
// manifest and writes it to the manifest folder. Requires a source
// snapshot.
func (a *App) BuildManifest() error {
	content, err := a.loadSiteContent(config.EnvSource)
	if err != nil {
		return fmt.Errorf("building manifest needs a source snapshot: %w", err)
	}
	content = a.applyFilters(content)

	m, err := manifest.BuildSource(content, manifest.BuildOptions{
		EmailDomain:    a.cfg.Users.EmailDomain,
		IdpPlaceholder: a.cfg.Users.IdpPlaceholder,
		MapLocation:    a.remapLocation(),
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(a.cfg.Log.ManifestFolderPath, 0o755); err != nil {
		return fmt.Errorf("creating manifest folder: %w", err)
	}
	if err := m.SaveJSON(a.manifestPath()); err != nil {
		return err
	}
	logging.Info().Int("entries", m.Len()).Str("path", a.manifestPath()).
		Msg("Source manifest written")
	return nil
}

// Reconcile matches the manifest against the cached destination
// snapshot and rewrites the manifest in place. Requires the manifest
// and a destination snapshot.
func (a *App) Reconcile() error {
	if err := a.requireManifest(); err != nil {
		return err
	}
	m, err := manifest.LoadJSON(a.manifestPath())
	if err != nil {
		return err
	}
	content, err := a.loadSiteContent(config.EnvDestination)
	if err != nil {
		return fmt.Errorf("reconciling needs a destination snapshot: %w", err)
	}
	refs, err := manifest.DestinationRefs(content, a.cfg.Users.IdpPlaceholder)
	if err != nil {
		return err
	}

	summary := manifest.Reconcile(m, refs)
	if err := m.SaveJSON(a.manifestPath()); err != nil {
		return err
	}
	logging.Info().
		Int("matched", summary.Matched).
		Int("unmatched", summary.Unmatched).
		Int("ambiguous", summary.Ambiguous).
		Msg("Manifest reconciled")
	return nil
}

// ExportInventory writes the manifest as per-kind CSV tables next to
// the JSON manifest.
func (a *App) ExportInventory() error {
	if err := a.requireManifest(); err != nil {
		return err
	}
	m, err := manifest.LoadJSON(a.manifestPath())
	if err != nil {
		return err
	}
	return m.SaveInventory(a.cfg.Log.ManifestFolderPath)
}
