// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package snapshot

import (
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/sitelift/sitelift/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return store
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	users := []models.User{
		{ID: "u1", Name: "amara", FullName: "Amara Okafor", SiteRole: "Creator"},
		{ID: "u2", Name: "birgit", FullName: "Birgit Holm", SiteRole: "Explorer"},
	}
	if err := Save(store, CollectionUsers, RoleSource, users); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load[models.User](store, CollectionUsers, RoleSource)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load() returned %d users, want 2", len(got))
	}
	if got[0].ID != "u1" || got[1].Name != "birgit" {
		t.Errorf("Load() returned %+v", got)
	}
}

func TestStoreRolesAreIsolated(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if err := Save(store, CollectionGroups, RoleSource, []models.Group{{ID: "g1", Name: "Analysts"}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_, err := Load[models.Group](store, CollectionGroups, RoleDestination)
	if !errors.Is(err, ErrNotCached) {
		t.Errorf("Load() with other role error = %v, want ErrNotCached", err)
	}
}

func TestStoreLoadNotCached(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	_, err := Load[models.Workbook](store, CollectionWorkbooks, RoleSource)
	if !errors.Is(err, ErrNotCached) {
		t.Errorf("Load() error = %v, want ErrNotCached", err)
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	if err := Save(store, CollectionProjects, RoleSource, []models.Project{{ID: "p1", Name: "Old"}}); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	if err := Save(store, CollectionProjects, RoleSource, []models.Project{{ID: "p2", Name: "New"}}); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := Load[models.Project](store, CollectionProjects, RoleSource)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "p2" {
		t.Errorf("Load() after overwrite = %+v, want single p2", got)
	}
}

func TestStoreSchemaMismatch(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	stale := envelope{
		Schema:     SchemaVersion + 1,
		Collection: CollectionViews,
		Role:       RoleSource,
		FetchedAt:  time.Now().UTC(),
		Items:      json.RawMessage("[]"),
	}
	value, err := json.Marshal(stale)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	err = store.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(CollectionViews, RoleSource), value)
	})
	if err != nil {
		t.Fatalf("seed stale envelope: %v", err)
	}

	_, err = Load[models.View](store, CollectionViews, RoleSource)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Load() error = %v, want *SchemaError", err)
	}
	if schemaErr.Found != SchemaVersion+1 {
		t.Errorf("SchemaError.Found = %d, want %d", schemaErr.Found, SchemaVersion+1)
	}
}

func TestStoreFetchedAt(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	before := time.Now().UTC().Add(-time.Second)
	if err := Save(store, CollectionFlows, RoleSource, []models.Flow{}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	stamp, err := store.FetchedAt(CollectionFlows, RoleSource)
	if err != nil {
		t.Fatalf("FetchedAt() error = %v", err)
	}
	if stamp.Before(before) {
		t.Errorf("FetchedAt() = %v, want after %v", stamp, before)
	}

	if _, err := store.FetchedAt(CollectionTasks, RoleSource); !errors.Is(err, ErrNotCached) {
		t.Errorf("FetchedAt() for missing collection error = %v, want ErrNotCached", err)
	}
}
