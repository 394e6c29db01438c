// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sitelift/sitelift/internal/models"
)

func TestJournalCountsAndOrder(t *testing.T) {
	t.Parallel()

	j := New(models.KindFavorite)
	j.Success("u1", "u1d", "star", "")
	j.Error("u2", "bolt", "target object not found on destination site")
	j.Success("u3", "u3d", "pin", "")

	total, successes, errors := j.Counts()
	if total != 3 || successes != 2 || errors != 1 {
		t.Errorf("Counts() = %d, %d, %d", total, successes, errors)
	}

	got := j.Successes()
	if got[0].Name != "star" || got[1].Name != "pin" {
		t.Errorf("success rows out of input order: %+v", got)
	}
	if j.Errors()[0].DestinationID != "" {
		t.Error("error row carries a destination id")
	}
	for _, row := range append(j.Successes(), j.Errors()...) {
		if row.RunID != j.RunID() {
			t.Errorf("row run id %s differs from journal run id %s", row.RunID, j.RunID())
		}
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return rows
}

func TestWriteReports(t *testing.T) {
	t.Parallel()

	j := New(models.KindSubscription)
	j.Success("sub1", "sub1d", "Weekly digest", "")

	folder := t.TempDir()
	if err := j.WriteReports(folder); err != nil {
		t.Fatalf("WriteReports() error = %v", err)
	}

	success := readCSV(t, filepath.Join(folder, "subscription_success.csv"))
	if len(success) != 2 {
		t.Fatalf("success table has %d rows, want header + 1", len(success))
	}
	row := success[1]
	if row[2] != "subscription" || row[3] != "sub1" || row[4] != "sub1d" || row[6] != StatusSuccess {
		t.Errorf("success row = %v", row)
	}

	errors := readCSV(t, filepath.Join(folder, "subscription_errors.csv"))
	if len(errors) != 1 {
		t.Errorf("clean run error table has %d rows, want header only", len(errors))
	}
}

func TestFormatElapsed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		d    time.Duration
		want string
	}{
		{42 * time.Second, "42s"},
		{time.Minute + 5*time.Second, "1m 5s"},
		{59*time.Minute + 59*time.Second, "59m 59s"},
		{2*time.Hour + 30*time.Minute, "2h 30m"},
		{0, "0s"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
