// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

// Package journal accumulates per-item outcomes of a driver run and
// writes them out as per-kind success and error report tables.
package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sitelift/sitelift/internal/models"
)

// Row is one item outcome.
type Row struct {
	RunID         string
	Timestamp     time.Time
	Kind          models.ContentKind
	SourceID      string
	DestinationID string
	Name          string
	Status        string
	Message       string
}

// Row statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Journal collects the outcome rows of one driver run. Rows keep
// input order. Not safe for concurrent use; drivers are sequential.
type Journal struct {
	runID   string
	kind    models.ContentKind
	started time.Time
	success []Row
	errors  []Row
}

// New starts a journal for one kind with a fresh run id.
func New(kind models.ContentKind) *Journal {
	return &Journal{
		runID:   uuid.NewString(),
		kind:    kind,
		started: time.Now(),
	}
}

// RunID identifies this run in reports and log lines.
func (j *Journal) RunID() string { return j.runID }

func (j *Journal) row(sourceID, destinationID, name, status, message string) Row {
	return Row{
		RunID:         j.runID,
		Timestamp:     time.Now().UTC(),
		Kind:          j.kind,
		SourceID:      sourceID,
		DestinationID: destinationID,
		Name:          name,
		Status:        status,
		Message:       message,
	}
}

// Success records a created or matched item.
func (j *Journal) Success(sourceID, destinationID, name, message string) {
	j.success = append(j.success, j.row(sourceID, destinationID, name, StatusSuccess, message))
}

// Error records a failed or skipped item.
func (j *Journal) Error(sourceID, name, message string) {
	j.errors = append(j.errors, j.row(sourceID, "", name, StatusError, message))
}

// Successes returns the success rows in input order.
func (j *Journal) Successes() []Row { return j.success }

// Errors returns the error rows in input order.
func (j *Journal) Errors() []Row { return j.errors }

// Counts reports totals for the end-of-run summary. Total always
// equals successes plus errors.
func (j *Journal) Counts() (total, successes, errors int) {
	return len(j.success) + len(j.errors), len(j.success), len(j.errors)
}

// Elapsed is the wall-clock time since the journal was started.
func (j *Journal) Elapsed() time.Duration { return time.Since(j.started) }

var reportHeader = []string{"Run Id", "Timestamp", "Content Type", "Source Id", "Destination Id", "Name", "Status", "Message"}

func writeReport(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(reportHeader); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.RunID,
			row.Timestamp.Format(time.RFC3339),
			string(row.Kind),
			row.SourceID,
			row.DestinationID,
			row.Name,
			row.Status,
			row.Message,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing report %s: %w", path, err)
	}
	return nil
}

// WriteReports emits the success and error tables for this run into
// folder, named <kind>_success.csv and <kind>_errors.csv. Both files
// are always written so a clean run leaves an empty error table
// rather than a stale one.
func (j *Journal) WriteReports(folder string) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("creating report folder %s: %w", folder, err)
	}
	successPath := filepath.Join(folder, string(j.kind)+"_success.csv")
	if err := writeReport(successPath, j.success); err != nil {
		return err
	}
	errorPath := filepath.Join(folder, string(j.kind)+"_errors.csv")
	return writeReport(errorPath, j.errors)
}

// FormatElapsed renders a duration the way run summaries print it:
// plain seconds under a minute, minutes and seconds under an hour,
// hours and minutes beyond that.
func FormatElapsed(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
