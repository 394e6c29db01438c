// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package orchestrate

import (
	"context"

	"github.com/sitelift/sitelift/internal/config"
	"github.com/sitelift/sitelift/internal/journal"
	"github.com/sitelift/sitelift/internal/logging"
	"github.com/sitelift/sitelift/internal/manifest"
	"github.com/sitelift/sitelift/internal/migrate"
	"github.com/sitelift/sitelift/internal/models"
	"github.com/sitelift/sitelift/internal/restapi"
	"github.com/sitelift/sitelift/internal/snapshot"
)

// loadManifest asserts and loads the reconciled manifest.
func (a *App) loadManifest() (*manifest.Manifest, error) {
	if err := a.requireManifest(); err != nil {
		return nil, err
	}
	return manifest.LoadJSON(a.manifestPath())
}

// finish writes the run's reports and logs the aggregate counts.
func (a *App) finish(j *journal.Journal, kind models.ContentKind) error {
	if err := j.WriteReports(a.cfg.Log.FolderPath); err != nil {
		return err
	}
	total, successes, errors := j.Counts()
	logging.Info().
		Str("kind", string(kind)).
		Int("total", total).
		Int("created", successes).
		Int("failed", errors).
		Str("elapsed", journal.FormatElapsed(j.Elapsed())).
		Msg("Driver run finished")
	return nil
}

// withDestination signs in to the destination and runs fn.
func (a *App) withDestination(ctx context.Context, fn func(ctx context.Context, dest *restapi.Client) error) error {
	dest, err := a.client(config.EnvDestination)
	if err != nil {
		return err
	}
	return dest.WithSession(ctx, func(ctx context.Context) error {
		return fn(ctx, dest)
	})
}

// withBothSites signs in to the source and the destination and runs
// fn; both sessions are signed out afterwards.
func (a *App) withBothSites(ctx context.Context, fn func(ctx context.Context, source, dest *restapi.Client) error) error {
	source, err := a.client(config.EnvSource)
	if err != nil {
		return err
	}
	return source.WithSession(ctx, func(ctx context.Context) error {
		return a.withDestination(ctx, func(ctx context.Context, dest *restapi.Client) error {
			return fn(ctx, source, dest)
		})
	})
}

// MigrateFavorites recreates the cached source favorites on the
// destination. Requires the source snapshot and a reconciled
// manifest.
func (a *App) MigrateFavorites(ctx context.Context) error {
	m, err := a.loadManifest()
	if err != nil {
		return err
	}
	items, err := snapshot.Load[models.Favorite](a.store, snapshot.CollectionFavorites, snapshot.RoleSource)
	if err != nil {
		return err
	}

	j := journal.New(models.KindFavorite)
	if err := a.withDestination(ctx, func(ctx context.Context, dest *restapi.Client) error {
		return migrate.Favorites(ctx, dest, m, items, j)
	}); err != nil {
		return err
	}
	return a.finish(j, models.KindFavorite)
}

// MigrateSubscriptions recreates the cached source subscriptions with
// translated schedules.
func (a *App) MigrateSubscriptions(ctx context.Context) error {
	m, err := a.loadManifest()
	if err != nil {
		return err
	}
	items, err := snapshot.Load[models.Subscription](a.store, snapshot.CollectionSubscriptions, snapshot.RoleSource)
	if err != nil {
		return err
	}
	schedules, err := snapshot.Load[models.Schedule](a.store, snapshot.CollectionSchedules, snapshot.RoleSource)
	if err != nil {
		return err
	}

	j := journal.New(models.KindSubscription)
	if err := a.withDestination(ctx, func(ctx context.Context, dest *restapi.Client) error {
		return migrate.Subscriptions(ctx, dest, m, items, schedules, j)
	}); err != nil {
		return err
	}
	return a.finish(j, models.KindSubscription)
}

// MigrateTasks recreates the cached extract-refresh tasks.
func (a *App) MigrateTasks(ctx context.Context) error {
	m, err := a.loadManifest()
	if err != nil {
		return err
	}
	items, err := snapshot.Load[models.Task](a.store, snapshot.CollectionTasks, snapshot.RoleSource)
	if err != nil {
		return err
	}
	schedules, err := snapshot.Load[models.Schedule](a.store, snapshot.CollectionSchedules, snapshot.RoleSource)
	if err != nil {
		return err
	}

	j := journal.New(models.KindTask)
	if err := a.withDestination(ctx, func(ctx context.Context, dest *restapi.Client) error {
		return migrate.Tasks(ctx, dest, m, items, schedules, j)
	}); err != nil {
		return err
	}
	return a.finish(j, models.KindTask)
}

// MigrateFlows downloads each cached source flow and republishes it
// on the destination.
func (a *App) MigrateFlows(ctx context.Context) error {
	m, err := a.loadManifest()
	if err != nil {
		return err
	}
	items, err := snapshot.Load[models.Flow](a.store, snapshot.CollectionFlows, snapshot.RoleSource)
	if err != nil {
		return err
	}

	j := journal.New(models.KindFlow)
	if err := a.withBothSites(ctx, func(ctx context.Context, source, dest *restapi.Client) error {
		return migrate.Flows(ctx, source, dest, m, items, j)
	}); err != nil {
		return err
	}
	return a.finish(j, models.KindFlow)
}

// MigrateCustomViews runs the two-phase custom view pipeline over the
// cached source custom views.
func (a *App) MigrateCustomViews(ctx context.Context) error {
	m, err := a.loadManifest()
	if err != nil {
		return err
	}
	items, err := snapshot.Load[models.CustomView](a.store, snapshot.CollectionCustomViews, snapshot.RoleSource)
	if err != nil {
		return err
	}

	j := journal.New(models.KindCustomView)
	if err := a.withBothSites(ctx, func(ctx context.Context, source, dest *restapi.Client) error {
		return migrate.CustomViews(ctx, source, dest, m, items, j)
	}); err != nil {
		return err
	}
	return a.finish(j, models.KindCustomView)
}
