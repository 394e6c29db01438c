// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package snapshot

import (
	"context"
	"fmt"

	"github.com/sitelift/sitelift/internal/logging"
	"github.com/sitelift/sitelift/internal/models"
	"github.com/sitelift/sitelift/internal/restapi"
)

// Builder walks a signed-in site and caches every collection the
// migration needs. Request pacing is handled by the client's rate
// limiter, so the builder just issues calls in order.
type Builder struct {
	client *restapi.Client
	store  *Store
	role   Role
}

// NewBuilder returns a builder writing snapshots for the given role.
func NewBuilder(client *restapi.Client, store *Store, role Role) *Builder {
	return &Builder{client: client, store: store, role: role}
}

// BuildContent snapshots the collections both sites carry: principals
// and publishable content. This is the full destination snapshot and
// the first half of the source snapshot.
func (b *Builder) BuildContent(ctx context.Context) error {
	steps := []struct {
		collection string
		fetch      func(context.Context) error
	}{
		{CollectionUsers, b.users},
		{CollectionGroups, b.groups},
		{CollectionProjects, b.projects},
		{CollectionDatasources, b.datasources},
		{CollectionWorkbooks, b.workbooks},
		{CollectionViews, b.views},
		{CollectionFlows, b.flows},
		{CollectionCustomViews, b.customViews},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.fetch(ctx); err != nil {
			return fmt.Errorf("snapshotting %s/%s: %w", step.collection, b.role, err)
		}
		logging.Debug().Str("collection", step.collection).Str("role", string(b.role)).
			Msg("Collection snapshot written")
	}
	return nil
}

// BuildServerExtras snapshots the collections that only exist on, or
// are only read from, the source server: schedules with their detail
// payloads, subscriptions, extract refresh tasks, and per-user
// favorites. Requires users to be cached already (BuildContent runs
// first).
func (b *Builder) BuildServerExtras(ctx context.Context) error {
	steps := []struct {
		collection string
		fetch      func(context.Context) error
	}{
		{CollectionSchedules, b.schedules},
		{CollectionSubscriptions, b.subscriptions},
		{CollectionTasks, b.tasks},
		{CollectionFavorites, b.favorites},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.fetch(ctx); err != nil {
			return fmt.Errorf("snapshotting %s/%s: %w", step.collection, b.role, err)
		}
		logging.Debug().Str("collection", step.collection).Str("role", string(b.role)).
			Msg("Collection snapshot written")
	}
	return nil
}

func (b *Builder) users(ctx context.Context) error {
	items, err := b.client.Users(ctx)
	if err != nil {
		return err
	}
	return Save(b.store, CollectionUsers, b.role, items)
}

func (b *Builder) groups(ctx context.Context) error {
	items, err := b.client.Groups(ctx)
	if err != nil {
		return err
	}
	return Save(b.store, CollectionGroups, b.role, items)
}

func (b *Builder) projects(ctx context.Context) error {
	items, err := b.client.Projects(ctx)
	if err != nil {
		return err
	}
	return Save(b.store, CollectionProjects, b.role, items)
}

func (b *Builder) datasources(ctx context.Context) error {
	items, err := b.client.Datasources(ctx)
	if err != nil {
		return err
	}
	return Save(b.store, CollectionDatasources, b.role, items)
}

func (b *Builder) workbooks(ctx context.Context) error {
	items, err := b.client.Workbooks(ctx)
	if err != nil {
		return err
	}
	return Save(b.store, CollectionWorkbooks, b.role, items)
}

func (b *Builder) views(ctx context.Context) error {
	items, err := b.client.Views(ctx)
	if err != nil {
		return err
	}
	return Save(b.store, CollectionViews, b.role, items)
}

func (b *Builder) flows(ctx context.Context) error {
	items, err := b.client.Flows(ctx)
	if err != nil {
		return err
	}
	return Save(b.store, CollectionFlows, b.role, items)
}

// customViews fetches the listing and, on the source side, each
// view's default users so the pipeline can reassign them later.
func (b *Builder) customViews(ctx context.Context) error {
	items, err := b.client.CustomViews(ctx)
	if err != nil {
		return err
	}
	if b.role == RoleSource {
		for i := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			users, err := b.client.ExpListDefaultCustomViewUsers(ctx, items[i].ID)
			if err != nil {
				return fmt.Errorf("default users for custom view %s: %w", items[i].Name, err)
			}
			for _, user := range users {
				items[i].DefaultUserIDs = append(items[i].DefaultUserIDs, user.ID)
			}
		}
	}
	return Save(b.store, CollectionCustomViews, b.role, items)
}

// schedules fetches the schedule list and then each schedule's detail
// payload, because the list endpoint omits frequency details.
func (b *Builder) schedules(ctx context.Context) error {
	listed, err := b.client.Schedules(ctx)
	if err != nil {
		return err
	}
	detailed := make([]models.Schedule, 0, len(listed))
	for _, sched := range listed {
		if err := ctx.Err(); err != nil {
			return err
		}
		full, err := b.client.ScheduleDetails(ctx, sched.ID)
		if err != nil {
			return fmt.Errorf("schedule %s (%s): %w", sched.ID, sched.Name, err)
		}
		detailed = append(detailed, full)
	}
	return Save(b.store, CollectionSchedules, b.role, detailed)
}

func (b *Builder) subscriptions(ctx context.Context) error {
	items, err := b.client.Subscriptions(ctx)
	if err != nil {
		return err
	}
	return Save(b.store, CollectionSubscriptions, b.role, items)
}

func (b *Builder) tasks(ctx context.Context) error {
	items, err := b.client.ExtractRefreshTasks(ctx)
	if err != nil {
		return err
	}
	return Save(b.store, CollectionTasks, b.role, items)
}

// favorites walks the cached user list and aggregates each user's
// favorites into one flattened collection.
func (b *Builder) favorites(ctx context.Context) error {
	users, err := Load[models.User](b.store, CollectionUsers, b.role)
	if err != nil {
		return fmt.Errorf("favorites need a users snapshot first: %w", err)
	}
	var all []models.Favorite
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		favs, err := b.client.FavoritesForUser(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("favorites for user %s: %w", user.Name, err)
		}
		all = append(all, favs...)
	}
	return Save(b.store, CollectionFavorites, b.role, all)
}
