// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package migrate

import (
	"context"
	"fmt"

	"github.com/sitelift/sitelift/internal/journal"
	"github.com/sitelift/sitelift/internal/logging"
	"github.com/sitelift/sitelift/internal/manifest"
	"github.com/sitelift/sitelift/internal/models"
	"github.com/sitelift/sitelift/internal/restapi"
)

// CustomViews runs the two-phase custom view pipeline. Phase one
// downloads the view body from the source and republishes it against
// the mapped workbook and owner; phase two assigns the republished
// view as default for the mapped users. Each phase records its own
// journal row, and a failed publish skips the assignment phase.
func CustomViews(ctx context.Context, source, dest *restapi.Client, m *manifest.Manifest, items []models.CustomView, j *journal.Journal) error {
	runner := NewRunner(models.KindCustomView, j, customViewIdentity)

	for _, cv := range items {
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := runner.execute(ctx, cv, func(ctx context.Context, cv models.CustomView) (Outcome, error) {
			return publishCustomView(ctx, source, dest, m, cv)
		})
		if err != nil {
			j.Error(out.SourceID, out.Name, err.Error())
			logging.Err(err).Str("customView", cv.Name).Msg("Custom view publish failed; skipping default assignment")
			continue
		}
		j.Success(out.SourceID, out.DestinationID, out.Name, out.Message)

		if len(cv.DefaultUserIDs) == 0 {
			continue
		}
		newID := out.DestinationID
		out, err = runner.execute(ctx, cv, func(ctx context.Context, cv models.CustomView) (Outcome, error) {
			return assignDefaultUsers(ctx, dest, m, cv, newID)
		})
		if err != nil {
			j.Error(out.SourceID, out.Name, err.Error())
			continue
		}
		j.Success(out.SourceID, out.DestinationID, out.Name, out.Message)
	}
	return nil
}

// publishCustomView is phase one: download, then multipart repost
// against the mapped workbook and owner. A custom view already
// reconciled on the destination is reused instead of republished.
func publishCustomView(ctx context.Context, source, dest *restapi.Client, m *manifest.Manifest, cv models.CustomView) (Outcome, error) {
	out := customViewIdentity(cv)

	if entry, ok := m.Lookup(models.KindCustomView, cv.ID); ok && entry.Destination != nil {
		out.DestinationID = entry.Destination.ID
		out.Message = "already present on destination"
		return out, nil
	}
	destWorkbookID, ok := m.DestinationID(models.KindWorkbook, cv.Workbook.ID)
	if !ok {
		return out, fmt.Errorf("workbook %s: %w", cv.Workbook.ID, ErrNotInManifest)
	}
	destOwnerID, ok := m.DestinationID(models.KindUser, cv.Owner.ID)
	if !ok {
		return out, fmt.Errorf("owner %s: %w", cv.Owner.ID, ErrNotInManifest)
	}

	content, err := source.ExpDownloadCustomView(ctx, cv.ID)
	if err != nil {
		return out, fmt.Errorf("downloading custom view %s: %w", cv.Name, err)
	}
	newID, err := dest.ExpPublishCustomView(ctx, cv.Name, cv.Shared, destWorkbookID, destOwnerID, content)
	if err != nil {
		return out, err
	}
	out.DestinationID = newID
	out.Message = "published"
	return out, nil
}

func customViewIdentity(cv models.CustomView) Outcome {
	return Outcome{SourceID: cv.ID, Name: cv.Name}
}

// assignDefaultUsers is phase two: map the source default users and
// set them on the republished view. Users missing from the manifest
// are dropped with a note; the call is skipped when none remain.
func assignDefaultUsers(ctx context.Context, dest *restapi.Client, m *manifest.Manifest, cv models.CustomView, newID string) (Outcome, error) {
	out := Outcome{SourceID: cv.ID, DestinationID: newID, Name: cv.Name}

	destUserIDs := make([]string, 0, len(cv.DefaultUserIDs))
	unmapped := 0
	for _, userID := range cv.DefaultUserIDs {
		destUserID, ok := m.DestinationID(models.KindUser, userID)
		if !ok {
			unmapped++
			continue
		}
		destUserIDs = append(destUserIDs, destUserID)
	}
	if len(destUserIDs) == 0 {
		return out, fmt.Errorf("default users: %w", ErrNotInManifest)
	}

	results, err := dest.ExpSetDefaultCustomViewUsers(ctx, newID, destUserIDs)
	if err != nil {
		return out, err
	}
	if len(results) == 0 || !results[0].Success {
		return out, fmt.Errorf("default assignment for custom view %s reported failure", cv.Name)
	}
	out.Message = fmt.Sprintf("default for %d users", len(destUserIDs))
	if unmapped > 0 {
		out.Message += fmt.Sprintf(", %d unmapped skipped", unmapped)
	}
	return out, nil
}
