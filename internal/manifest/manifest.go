// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

// Package manifest maps source entities to their destination
// counterparts by hierarchical path. The source walk produces one
// entry per entity with a mapped location; destination reconciliation
// fills in the destination side by matching mapped path against the
// destination walk.
package manifest

import (
	"fmt"

	"github.com/sitelift/sitelift/internal/models"
)

// Ref identifies an entity on one side of the migration, with the
// location it occupies on that site.
type Ref struct {
	ID         string          `json:"Id"`
	ContentURL string          `json:"ContentUrl,omitempty"`
	Location   models.Location `json:"Location"`
	Name       string          `json:"Name"`
}

// Entry links one source entity to where it is expected to land.
// MappedLocation starts equal to the source location (rewritten for
// principals and by mapping hooks) and Destination stays nil until
// reconciliation finds a match.
type Entry struct {
	Source         Ref             `json:"Source"`
	MappedLocation models.Location `json:"MappedLocation"`
	Destination    *Ref            `json:"Destination"`
}

// MappedName is the final segment of the mapped location.
func (e *Entry) MappedName() string { return e.MappedLocation.Name() }

// Manifest holds per-kind entry lists in site insertion order. The
// JSON shape matches the migration SDK's manifest file so either tool
// can consume the other's output.
type Manifest struct {
	Entries map[models.ContentKind][]*Entry `json:"Entries"`

	bySourceID map[models.ContentKind]map[string]*Entry
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{
		Entries:    make(map[models.ContentKind][]*Entry),
		bySourceID: make(map[models.ContentKind]map[string]*Entry),
	}
}

// Add appends an entry for the kind and indexes it by source id.
func (m *Manifest) Add(kind models.ContentKind, entry *Entry) {
	m.Entries[kind] = append(m.Entries[kind], entry)
	if m.bySourceID[kind] == nil {
		m.bySourceID[kind] = make(map[string]*Entry)
	}
	m.bySourceID[kind][entry.Source.ID] = entry
}

// Lookup returns the entry for a source id.
func (m *Manifest) Lookup(kind models.ContentKind, sourceID string) (*Entry, bool) {
	entry, ok := m.bySourceID[kind][sourceID]
	return entry, ok
}

// DestinationID resolves a source id to its reconciled destination
// id. The second return is false when the entity is unknown or has
// not been matched on the destination.
func (m *Manifest) DestinationID(kind models.ContentKind, sourceID string) (string, bool) {
	entry, ok := m.bySourceID[kind][sourceID]
	if !ok || entry.Destination == nil {
		return "", false
	}
	return entry.Destination.ID, true
}

// Len counts entries across all kinds.
func (m *Manifest) Len() int {
	total := 0
	for _, entries := range m.Entries {
		total += len(entries)
	}
	return total
}

// reindex rebuilds the source-id index after loading from disk.
func (m *Manifest) reindex() {
	m.bySourceID = make(map[models.ContentKind]map[string]*Entry)
	for kind, entries := range m.Entries {
		m.bySourceID[kind] = make(map[string]*Entry, len(entries))
		for _, entry := range entries {
			m.bySourceID[kind][entry.Source.ID] = entry
		}
	}
}

// validateKinds rejects manifests carrying unknown kind tags, which
// usually means a hand-edited or foreign file.
func (m *Manifest) validateKinds() error {
	for kind := range m.Entries {
		if _, err := models.ParseContentKind(string(kind)); err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
	}
	return nil
}
