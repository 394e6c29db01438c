// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package manifest

import (
	"github.com/sitelift/sitelift/internal/logging"
	"github.com/sitelift/sitelift/internal/models"
)

// Summary counts the outcome of one reconciliation pass.
type Summary struct {
	Matched   int
	Unmatched int
	Ambiguous int
	PerKind   map[models.ContentKind]KindSummary
}

// KindSummary is the per-kind breakdown of a Summary.
type KindSummary struct {
	Matched   int
	Unmatched int
	Ambiguous int
}

// Reconcile fills the destination side of every unmatched entry by
// matching its mapped path against the destination refs. An exact
// match copies the destination ref into the entry; no match leaves it
// nil; multiple matches take the first in listing order and log a
// warning. Entries already carrying a destination are left alone, so
// rerunning against the same destination is a no-op. Source fields
// are never touched.
func Reconcile(m *Manifest, dest map[models.ContentKind][]Ref) Summary {
	summary := Summary{PerKind: make(map[models.ContentKind]KindSummary)}

	for kind, entries := range m.Entries {
		byPath := make(map[string][]Ref, len(dest[kind]))
		for _, ref := range dest[kind] {
			key := ref.Location.Path
			byPath[key] = append(byPath[key], ref)
		}

		kindSummary := summary.PerKind[kind]
		for _, entry := range entries {
			if entry.Destination != nil {
				kindSummary.Matched++
				continue
			}
			matches := byPath[entry.MappedLocation.Path]
			switch len(matches) {
			case 0:
				kindSummary.Unmatched++
				logging.Debug().
					Str("kind", string(kind)).
					Str("sourceId", entry.Source.ID).
					Str("mappedPath", entry.MappedLocation.Path).
					Msg("No destination match; entry left unreconciled")
			case 1:
				ref := matches[0]
				entry.Destination = &ref
				kindSummary.Matched++
			default:
				ref := matches[0]
				entry.Destination = &ref
				kindSummary.Matched++
				kindSummary.Ambiguous++
				logging.Warn().
					Str("kind", string(kind)).
					Str("sourceId", entry.Source.ID).
					Str("mappedPath", entry.MappedLocation.Path).
					Int("candidates", len(matches)).
					Str("chosenId", ref.ID).
					Msg("Ambiguous destination match; first candidate chosen")
			}
		}
		summary.PerKind[kind] = kindSummary
		summary.Matched += kindSummary.Matched
		summary.Unmatched += kindSummary.Unmatched
		summary.Ambiguous += kindSummary.Ambiguous
	}
	return summary
}
