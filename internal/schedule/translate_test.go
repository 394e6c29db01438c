// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package schedule

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/sitelift/sitelift/internal/models"
)

func serverSchedule(freq models.Frequency, start, end string, intervals ...models.Interval) models.Schedule {
	return models.Schedule{
		ID:        "sched-1",
		Name:      "test schedule",
		Frequency: freq,
		FrequencyDetails: &models.FrequencyDetails{
			Start:     start,
			End:       end,
			Intervals: intervals,
		},
	}
}

func TestTranslateWeeklyKeepsFirstWeekDay(t *testing.T) {
	t.Parallel()

	// Two weekDay atoms: only Monday survives.
	in := serverSchedule(models.FrequencyWeekly, "02:00:00", "",
		models.Interval{WeekDay: "Monday"},
		models.Interval{WeekDay: "Tuesday"},
	)

	got, err := Translate(in)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got.Frequency != models.FrequencyWeekly {
		t.Errorf("Frequency = %q", got.Frequency)
	}
	if got.FrequencyDetails.Start != "02:00:00" {
		t.Errorf("Start = %q", got.FrequencyDetails.Start)
	}
	want := []models.Interval{{WeekDay: "Monday"}}
	if !reflect.DeepEqual(got.FrequencyDetails.Intervals.Interval, want) {
		t.Errorf("Intervals = %+v, want %+v", got.FrequencyDetails.Intervals.Interval, want)
	}
}

func TestTranslateDailyEmptyIntervalsSynthesizes(t *testing.T) {
	t.Parallel()

	got, err := Translate(serverSchedule(models.FrequencyDaily, "06:00:00", ""))
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	if got.FrequencyDetails.End != "08:00:00" {
		t.Errorf("End = %q, want start+2h = 08:00:00", got.FrequencyDetails.End)
	}

	intervals := got.FrequencyDetails.Intervals.Interval
	if len(intervals) != 8 {
		t.Fatalf("len(intervals) = %d, want 8 (hours=24 plus seven weekDays)", len(intervals))
	}
	if intervals[0].Hours != "24" {
		t.Errorf("intervals[0] = %+v, want hours=24", intervals[0])
	}
	for i, day := range models.WeekDays {
		if intervals[i+1].WeekDay != day {
			t.Errorf("intervals[%d].WeekDay = %q, want %q", i+1, intervals[i+1].WeekDay, day)
		}
	}
}

func TestTranslateDailyEndWrapsMidnight(t *testing.T) {
	t.Parallel()

	got, err := Translate(serverSchedule(models.FrequencyDaily, "23:30:00", ""))
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got.FrequencyDetails.End != "01:30:00" {
		t.Errorf("End = %q, want 01:30:00", got.FrequencyDetails.End)
	}
}

func TestTranslateMonthly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		monthDay string
		wantErr  bool
	}{
		{name: "numeric day", monthDay: "15"},
		{name: "first day keyword", monthDay: "FirstDay"},
		{name: "last day keyword", monthDay: "LastDay"},
		{name: "day out of range", monthDay: "32", wantErr: true},
		{name: "zero day", monthDay: "0", wantErr: true},
		{name: "garbage", monthDay: "Tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := serverSchedule(models.FrequencyMonthly, "03:00:00", "",
				models.Interval{MonthDay: tt.monthDay})
			got, err := Translate(in)
			if tt.wantErr {
				var terr *TranslateError
				if !errors.As(err, &terr) {
					t.Fatalf("Translate() error = %v, want *TranslateError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Translate() error = %v", err)
			}
			want := []models.Interval{{MonthDay: tt.monthDay}}
			if !reflect.DeepEqual(got.FrequencyDetails.Intervals.Interval, want) {
				t.Errorf("Intervals = %+v, want %+v", got.FrequencyDetails.Intervals.Interval, want)
			}
		})
	}
}

func TestTranslateHourly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		end       string
		intervals []models.Interval
		want      []models.Interval
		wantErr   string
	}{
		{
			name:      "minutes sixty",
			end:       "20:00:00",
			intervals: []models.Interval{{Minutes: "60"}},
			want:      []models.Interval{{Minutes: "60"}},
		},
		{
			name:      "hours one",
			end:       "20:00:00",
			intervals: []models.Interval{{Hours: "1"}},
			want:      []models.Interval{{Hours: "1"}},
		},
		{
			name:      "weekday restriction",
			end:       "20:00:00",
			intervals: []models.Interval{{Hours: "1"}, {WeekDay: "Friday"}},
			want:      []models.Interval{{Hours: "1"}, {WeekDay: "Friday"}},
		},
		{
			name:      "missing end time",
			end:       "",
			intervals: []models.Interval{{Hours: "1"}},
			wantErr:   "requires an end time",
		},
		{
			name:      "bad minutes value",
			end:       "20:00:00",
			intervals: []models.Interval{{Minutes: "30"}},
			wantErr:   "must be 60",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := serverSchedule(models.FrequencyHourly, "08:00:00", tt.end, tt.intervals...)
			got, err := Translate(in)
			if tt.wantErr != "" {
				var terr *TranslateError
				if !errors.As(err, &terr) {
					t.Fatalf("Translate() error = %v, want *TranslateError", err)
				}
				if !containsString(terr.Reason, tt.wantErr) {
					t.Errorf("Reason = %q, want substring %q", terr.Reason, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Translate() error = %v", err)
			}
			if !reflect.DeepEqual(got.FrequencyDetails.Intervals.Interval, tt.want) {
				t.Errorf("Intervals = %+v, want %+v", got.FrequencyDetails.Intervals.Interval, tt.want)
			}
		})
	}
}

func TestTranslateDailyWithIntervals(t *testing.T) {
	t.Parallel()

	in := serverSchedule(models.FrequencyDaily, "06:00:00", "18:00:00",
		models.Interval{Hours: "4"},
		models.Interval{WeekDay: "Monday"},
		models.Interval{WeekDay: "Wednesday"},
	)
	got, err := Translate(in)
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	want := []models.Interval{{Hours: "4"}, {WeekDay: "Monday"}, {WeekDay: "Wednesday"}}
	if !reflect.DeepEqual(got.FrequencyDetails.Intervals.Interval, want) {
		t.Errorf("Intervals = %+v, want %+v", got.FrequencyDetails.Intervals.Interval, want)
	}
	// Existing end survives; no synthesis for non-empty intervals.
	if got.FrequencyDetails.End != "18:00:00" {
		t.Errorf("End = %q, want 18:00:00", got.FrequencyDetails.End)
	}
}

func TestTranslateDailyRejectsBadHours(t *testing.T) {
	t.Parallel()

	in := serverSchedule(models.FrequencyDaily, "06:00:00", "",
		models.Interval{Hours: "3"})
	_, err := Translate(in)
	var terr *TranslateError
	if !errors.As(err, &terr) {
		t.Fatalf("Translate() error = %v, want *TranslateError", err)
	}
}

func TestTranslateUnknownFrequency(t *testing.T) {
	t.Parallel()

	in := serverSchedule(models.Frequency("Quarterly"), "06:00:00", "")
	_, err := Translate(in)
	var terr *TranslateError
	if !errors.As(err, &terr) {
		t.Fatalf("Translate() error = %v, want *TranslateError", err)
	}
}

func TestTranslateMissingDetails(t *testing.T) {
	t.Parallel()

	_, err := Translate(models.Schedule{ID: "s", Frequency: models.FrequencyDaily})
	var terr *TranslateError
	if !errors.As(err, &terr) {
		t.Fatalf("Translate() error = %v, want *TranslateError", err)
	}
}

func containsString(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
