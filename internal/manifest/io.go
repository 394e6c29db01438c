// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package manifest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/sitelift/sitelift/internal/models"
)

// SaveJSON writes the manifest in the SDK file format, pretty-printed
// so diffs between runs stay readable. This is the lossless,
// preferred format.
func (m *Manifest) SaveJSON(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// LoadJSON reads an SDK-format manifest and rebuilds its indexes.
func LoadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	m := New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	if err := m.validateKinds(); err != nil {
		return nil, err
	}
	m.reindex()
	return m, nil
}

// inventoryHeader is the per-kind inventory table layout. Segment
// columns are joined with the row's separator, so a name containing
// the separator round-trips only through the JSON format.
var inventoryHeader = []string{
	"Content Type",
	"Source Id", "Source ContentUrl", "Source PathSegments", "Source PathSeparator", "Source Path", "Source Name",
	"Mapped PathSegments", "Mapped PathSeparator", "Mapped Path", "Mapped Name",
	"Destination Id", "Destination ContentUrl", "Destination PathSegments", "Destination PathSeparator", "Destination Path", "Destination Name",
}

func inventoryFileName(kind models.ContentKind) string {
	return "manifest_" + string(kind) + ".csv"
}

// SaveInventory writes one CSV table per kind into folder, using the
// inventory column layout.
func (m *Manifest) SaveInventory(folder string) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("creating inventory folder %s: %w", folder, err)
	}
	for kind, entries := range m.Entries {
		if len(entries) == 0 {
			continue
		}
		path := filepath.Join(folder, inventoryFileName(kind))
		if err := writeInventoryFile(path, kind, entries); err != nil {
			return err
		}
	}
	return nil
}

func writeInventoryFile(path string, kind models.ContentKind, entries []*Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating inventory %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(inventoryHeader); err != nil {
		return fmt.Errorf("writing inventory header: %w", err)
	}
	for _, entry := range entries {
		row := []string{
			string(kind),
			entry.Source.ID,
			entry.Source.ContentURL,
			strings.Join(entry.Source.Location.PathSegments, entry.Source.Location.PathSeparator),
			entry.Source.Location.PathSeparator,
			entry.Source.Location.Path,
			entry.Source.Name,
			strings.Join(entry.MappedLocation.PathSegments, entry.MappedLocation.PathSeparator),
			entry.MappedLocation.PathSeparator,
			entry.MappedLocation.Path,
			entry.MappedName(),
		}
		if dest := entry.Destination; dest != nil {
			row = append(row,
				dest.ID,
				dest.ContentURL,
				strings.Join(dest.Location.PathSegments, dest.Location.PathSeparator),
				dest.Location.PathSeparator,
				dest.Location.Path,
				dest.Name,
			)
		} else {
			row = append(row, "", "", "", "", "", "")
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing inventory row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing inventory %s: %w", path, err)
	}
	return nil
}

// LoadInventory reads every manifest_<kind>.csv table in folder back
// into a manifest.
func LoadInventory(folder string) (*Manifest, error) {
	m := New()
	for _, kind := range models.MigrationOrder {
		path := filepath.Join(folder, inventoryFileName(kind))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := readInventoryFile(m, path, kind); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func readInventoryFile(m *Manifest, path string, kind models.ContentKind) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening inventory %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(inventoryHeader)
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("reading inventory %s: %w", path, err)
	}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		entry := &Entry{
			Source: Ref{
				ID:         row[1],
				ContentURL: row[2],
				Location:   locationFromRow(row[3], row[4]),
				Name:       row[6],
			},
			MappedLocation: locationFromRow(row[7], row[8]),
		}
		if row[11] != "" {
			entry.Destination = &Ref{
				ID:         row[11],
				ContentURL: row[12],
				Location:   locationFromRow(row[13], row[14]),
				Name:       row[16],
			}
		}
		m.Add(kind, entry)
	}
	return nil
}

func locationFromRow(joined, separator string) models.Location {
	if joined == "" {
		return models.Location{PathSeparator: separator}
	}
	return models.NewLocation(separator, strings.Split(joined, separator)...)
}
