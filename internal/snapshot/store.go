// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

// Package snapshot persists paged fetches of every content collection
// to a local cache, keyed by (collection, site role).
//
// The cache is a badger key-value store under the configured cache
// folder. Each collection is stored as a versioned JSON envelope so a
// cache written by an incompatible sitelift version fails loudly
// instead of decoding garbage. Snapshots are overwritten per run;
// staleness is the caller's responsibility.
package snapshot

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// SchemaVersion is bumped whenever the envelope or item encoding
// changes incompatibly.
const SchemaVersion = 1

// Role distinguishes which site a snapshot was taken from.
type Role string

// The two snapshot roles.
const (
	RoleSource      Role = "source"
	RoleDestination Role = "destination"
)

// Collection names. Favorites are stored as one flattened collection
// across all users.
const (
	CollectionUsers         = "users"
	CollectionGroups        = "groups"
	CollectionProjects      = "projects"
	CollectionDatasources   = "datasources"
	CollectionWorkbooks     = "workbooks"
	CollectionViews         = "views"
	CollectionFlows         = "flows"
	CollectionCustomViews   = "customviews"
	CollectionSchedules     = "schedules"
	CollectionSubscriptions = "subscriptions"
	CollectionTasks         = "tasks"
	CollectionFavorites     = "favorites"
)

// ErrNotCached is returned when the requested (collection, role) pair
// has not been fetched in any run against this cache folder.
var ErrNotCached = errors.New("collection not in snapshot cache")

// SchemaError reports a cache written with an incompatible schema
// version.
type SchemaError struct {
	Collection string
	Role       Role
	Found      int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("snapshot %s/%s has schema %d, want %d; refetch the snapshot",
		e.Collection, e.Role, e.Found, SchemaVersion)
}

// envelope wraps a cached collection with enough metadata to detect
// incompatible readers.
type envelope struct {
	Schema     int             `json:"schema"`
	Collection string          `json:"collection"`
	Role       Role            `json:"role"`
	FetchedAt  time.Time       `json:"fetchedAt"`
	Items      json.RawMessage `json:"items"`
}

// Store is the on-disk snapshot cache. A single run opens it once;
// the builder writes, everything else reads.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the cache under dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot cache at %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the cache.
func (s *Store) Close() error { return s.db.Close() }

func cacheKey(collection string, role Role) []byte {
	return []byte(collection + "/" + string(role))
}

// Save overwrites the cached collection for the given role.
func Save[T any](s *Store, collection string, role Role, items []T) error {
	encoded, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding %s/%s items: %w", collection, role, err)
	}
	env := envelope{
		Schema:     SchemaVersion,
		Collection: collection,
		Role:       role,
		FetchedAt:  time.Now().UTC(),
		Items:      encoded,
	}
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding %s/%s envelope: %w", collection, role, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(collection, role), value)
	})
	if err != nil {
		return fmt.Errorf("writing %s/%s to snapshot cache: %w", collection, role, err)
	}
	return nil
}

// Load reads a cached collection without network I/O. Returns
// ErrNotCached when the pair was never fetched and *SchemaError when
// the cache was written by an incompatible version.
func Load[T any](s *Store, collection string, role Role) ([]T, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(collection, role))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s/%s: %w", collection, role, ErrNotCached)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s/%s from snapshot cache: %w", collection, role, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding %s/%s envelope: %w", collection, role, err)
	}
	if env.Schema != SchemaVersion {
		return nil, &SchemaError{Collection: collection, Role: role, Found: env.Schema}
	}

	var items []T
	if err := json.Unmarshal(env.Items, &items); err != nil {
		return nil, fmt.Errorf("decoding %s/%s items: %w", collection, role, err)
	}
	return items, nil
}

// FetchedAt reports when the cached collection was written. Returns
// ErrNotCached when absent.
func (s *Store) FetchedAt(collection string, role Role) (time.Time, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(collection, role))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return time.Time{}, fmt.Errorf("%s/%s: %w", collection, role, ErrNotCached)
	}
	if err != nil {
		return time.Time{}, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return time.Time{}, err
	}
	return env.FetchedAt, nil
}
