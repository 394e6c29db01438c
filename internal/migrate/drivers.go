// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package migrate

import (
	"context"
	"fmt"

	"github.com/sitelift/sitelift/internal/journal"
	"github.com/sitelift/sitelift/internal/manifest"
	"github.com/sitelift/sitelift/internal/models"
	"github.com/sitelift/sitelift/internal/restapi"
	"github.com/sitelift/sitelift/internal/schedule"
)

// Favorites recreates each source favorite on the destination:
// PUT /favorites/{destination-user} with the mapped target id and the
// original label.
func Favorites(ctx context.Context, dest *restapi.Client, m *manifest.Manifest, items []models.Favorite, j *journal.Journal) error {
	runner := NewRunner(models.KindFavorite, j, favoriteIdentity)
	return runner.Run(ctx, items, func(ctx context.Context, fav models.Favorite) (Outcome, error) {
		out := favoriteIdentity(fav)

		destUserID, ok := m.DestinationID(models.KindUser, fav.UserID)
		if !ok {
			return out, fmt.Errorf("user %s: %w", fav.UserID, ErrNotInManifest)
		}
		destTargetID, ok := m.DestinationID(fav.Target.ContentKind(), fav.Target.ID)
		if !ok {
			return out, fmt.Errorf("%s %s: %w", fav.Target.Type, fav.Target.ID, ErrNotInManifest)
		}

		target := models.Target{Type: fav.Target.Type, ID: destTargetID}
		if err := dest.AddFavorite(ctx, destUserID, fav.Label, target); err != nil {
			return out, err
		}
		out.DestinationID = destTargetID
		return out, nil
	})
}

// Subscriptions recreates source subscriptions with translated cloud
// schedules. The schedules slice must come from the deep source
// snapshot so frequency details are present.
func Subscriptions(ctx context.Context, dest *restapi.Client, m *manifest.Manifest, items []models.Subscription, schedules []models.Schedule, j *journal.Journal) error {
	byID := scheduleIndex(schedules)
	runner := NewRunner(models.KindSubscription, j, subscriptionIdentity)
	return runner.Run(ctx, items, func(ctx context.Context, sub models.Subscription) (Outcome, error) {
		out := subscriptionIdentity(sub)

		destUserID, ok := m.DestinationID(models.KindUser, sub.User.ID)
		if !ok {
			return out, fmt.Errorf("user %s: %w", sub.User.ID, ErrNotInManifest)
		}
		destTargetID, ok := m.DestinationID(sub.Target.ContentKind(), sub.Target.ID)
		if !ok {
			return out, fmt.Errorf("%s %s: %w", sub.Target.Type, sub.Target.ID, ErrNotInManifest)
		}
		src, ok := byID[sub.Schedule.ID]
		if !ok {
			return out, fmt.Errorf("schedule %s missing from source snapshot", sub.Schedule.ID)
		}
		cloud, err := schedule.Translate(src)
		if err != nil {
			return out, err
		}

		newID, err := dest.CreateSubscription(ctx, restapi.SubscriptionSpec{
			Subject:         sub.Subject,
			Message:         sub.Message,
			AttachImage:     sub.AttachImage,
			AttachPDF:       sub.AttachPDF,
			SendIfViewEmpty: sub.SendIfViewEmpty,
			PageOrientation: sub.PageOrientation,
			PageSizeOption:  sub.PageSizeOption,
			TargetType:      sub.Target.Type,
			TargetID:        destTargetID,
			UserID:          destUserID,
			Schedule:        cloud,
		})
		if err != nil {
			return out, err
		}
		out.DestinationID = newID
		return out, nil
	})
}

// Tasks recreates extract-refresh tasks against the mapped workbook
// or data source, with the schedule translated to a cloud body.
func Tasks(ctx context.Context, dest *restapi.Client, m *manifest.Manifest, items []models.Task, schedules []models.Schedule, j *journal.Journal) error {
	byID := scheduleIndex(schedules)
	runner := NewRunner(models.KindTask, j, taskIdentity)
	return runner.Run(ctx, items, func(ctx context.Context, task models.Task) (Outcome, error) {
		out := taskIdentity(task)

		destTargetID, ok := m.DestinationID(task.Target.ContentKind(), task.Target.ID)
		if !ok {
			return out, fmt.Errorf("%s %s: %w", task.Target.Type, task.Target.ID, ErrNotInManifest)
		}
		src, ok := byID[task.Schedule.ID]
		if !ok {
			return out, fmt.Errorf("schedule %s missing from source snapshot", task.Schedule.ID)
		}
		cloud, err := schedule.Translate(src)
		if err != nil {
			return out, err
		}

		newID, err := dest.CreateExtractRefreshTask(ctx, restapi.TaskSpec{
			Type:       task.Type,
			TargetType: task.Target.Type,
			TargetID:   destTargetID,
			Schedule:   cloud,
		})
		if err != nil {
			return out, err
		}
		out.DestinationID = newID
		return out, nil
	})
}

// Flows downloads each flow file from the source and republishes it
// on the destination under the mapped project and owner. Connections
// are configured on the destination after migration.
func Flows(ctx context.Context, source, dest *restapi.Client, m *manifest.Manifest, items []models.Flow, j *journal.Journal) error {
	runner := NewRunner(models.KindFlow, j, flowIdentity)
	return runner.Run(ctx, items, func(ctx context.Context, flow models.Flow) (Outcome, error) {
		out := flowIdentity(flow)

		if entry, ok := m.Lookup(models.KindFlow, flow.ID); ok && entry.Destination != nil {
			out.DestinationID = entry.Destination.ID
			out.Message = "already present on destination"
			return out, nil
		}
		destProjectID, ok := m.DestinationID(models.KindProject, flow.Project.ID)
		if !ok {
			return out, fmt.Errorf("project %s: %w", flow.Project.ID, ErrNotInManifest)
		}
		destOwnerID, ok := m.DestinationID(models.KindUser, flow.Owner.ID)
		if !ok {
			return out, fmt.Errorf("owner %s: %w", flow.Owner.ID, ErrNotInManifest)
		}

		content, err := source.DownloadFlow(ctx, flow.ID)
		if err != nil {
			return out, fmt.Errorf("downloading flow %s: %w", flow.Name, err)
		}
		newID, err := dest.PublishFlow(ctx, flow.Name, destProjectID, destOwnerID, flowFileName(flow), content)
		if err != nil {
			return out, err
		}
		out.DestinationID = newID
		return out, nil
	})
}

// Identity extractors name an item for the journal before its
// operation runs. Favorites have no id of their own; the target id
// stands in.
func favoriteIdentity(fav models.Favorite) Outcome {
	return Outcome{SourceID: fav.Target.ID, Name: fav.Label}
}

func subscriptionIdentity(sub models.Subscription) Outcome {
	return Outcome{SourceID: sub.ID, Name: sub.Subject}
}

func taskIdentity(task models.Task) Outcome {
	return Outcome{SourceID: task.ID, Name: task.Target.Name}
}

func flowIdentity(flow models.Flow) Outcome {
	return Outcome{SourceID: flow.ID, Name: flow.Name}
}

func flowFileName(flow models.Flow) string {
	fileType := flow.FileType
	if fileType == "" {
		fileType = "tflx"
	}
	return flow.Name + "." + fileType
}

func scheduleIndex(schedules []models.Schedule) map[string]models.Schedule {
	byID := make(map[string]models.Schedule, len(schedules))
	for _, s := range schedules {
		byID[s.ID] = s
	}
	return byID
}
