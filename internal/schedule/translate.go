// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

// Package schedule translates server-side schedule objects into the
// request-body element the cloud subscription and extract-refresh
// endpoints accept.
//
// The translation is a pure value transformation. A schedule that
// cannot be expressed on the destination fails with
// *TranslateError; the operation drivers record the failure and
// continue with the next item.
package schedule

import (
	"fmt"
	"strconv"
	"time"

	"github.com/sitelift/sitelift/internal/logging"
	"github.com/sitelift/sitelift/internal/models"
)

// clockLayout is the local clock-time format used by both APIs.
const clockLayout = "15:04:05"

// dailySyntheticEndOffset is added to the start time when a Daily
// schedule arrives without intervals: the cloud API requires an end
// for the synthesized hours interval.
const dailySyntheticEndOffset = 2 * time.Hour

// dailyHours are the hour counts the cloud accepts for Daily interval
// atoms.
var dailyHours = map[string]bool{
	"2": true, "4": true, "6": true, "8": true, "12": true, "24": true,
}

// TranslateError reports a schedule that cannot be expressed on the
// destination: unknown frequency, malformed interval atom, or missing
// required end time.
type TranslateError struct {
	ScheduleID string
	Reason     string
}

func (e *TranslateError) Error() string {
	return fmt.Sprintf("schedule %s cannot be translated: %s", e.ScheduleID, e.Reason)
}

// CloudIntervals is the wire wrapper around interval atoms.
type CloudIntervals struct {
	Interval []models.Interval `xml:"interval" json:"interval"`
}

// CloudFrequencyDetails nests the start/end clock times and the
// interval atoms.
type CloudFrequencyDetails struct {
	Start     string         `xml:"start,attr" json:"start"`
	End       string         `xml:"end,attr,omitempty" json:"end,omitempty"`
	Intervals CloudIntervals `xml:"intervals" json:"intervals"`
}

// CloudSchedule is the schedule element of a cloud create request:
// a frequency attribute plus nested frequencyDetails.
type CloudSchedule struct {
	XMLName          struct{}              `xml:"schedule" json:"-"`
	Frequency        models.Frequency      `xml:"frequency,attr" json:"frequency"`
	FrequencyDetails CloudFrequencyDetails `xml:"frequencyDetails" json:"frequencyDetails"`
}

// Translate converts a server schedule into the cloud request-body
// element, applying the destination's frequency rules:
//
//   - Monthly emits exactly one monthDay atom.
//   - Weekly emits the first weekDay atom only; later atoms are
//     dropped.
//   - Daily with no intervals synthesizes hours=24, all seven
//     weekDays, and an end time two hours after start.
//   - Daily with intervals classifies each atom as hours or weekDay by
//     value domain.
//   - Hourly requires an end time and classifies atoms as minutes,
//     hours, or weekDay.
func Translate(s models.Schedule) (CloudSchedule, error) {
	details := s.FrequencyDetails
	if details == nil {
		return CloudSchedule{}, &TranslateError{ScheduleID: s.ID, Reason: "missing frequency details"}
	}

	out := CloudSchedule{
		Frequency: s.Frequency,
		FrequencyDetails: CloudFrequencyDetails{
			Start: details.Start,
			End:   details.End,
		},
	}

	var err error
	switch s.Frequency {
	case models.FrequencyMonthly:
		out.FrequencyDetails.Intervals.Interval, err = monthlyIntervals(s)
	case models.FrequencyWeekly:
		out.FrequencyDetails.Intervals.Interval, err = weeklyIntervals(s)
	case models.FrequencyDaily:
		if len(details.Intervals) == 0 {
			out.FrequencyDetails.End, err = synthesizeEnd(s, details.Start)
			out.FrequencyDetails.Intervals.Interval = dailyDefaultIntervals()
		} else {
			out.FrequencyDetails.Intervals.Interval, err = dailyIntervals(s)
		}
	case models.FrequencyHourly:
		if details.End == "" {
			return CloudSchedule{}, &TranslateError{ScheduleID: s.ID, Reason: "hourly schedule requires an end time"}
		}
		out.FrequencyDetails.Intervals.Interval, err = hourlyIntervals(s)
	default:
		return CloudSchedule{}, &TranslateError{
			ScheduleID: s.ID,
			Reason:     fmt.Sprintf("unknown frequency %q", s.Frequency),
		}
	}
	if err != nil {
		return CloudSchedule{}, err
	}
	return out, nil
}

// monthlyIntervals emits the single monthDay atom. Accepts 1..31 and
// the FirstDay/LastDay keywords.
func monthlyIntervals(s models.Schedule) ([]models.Interval, error) {
	for _, atom := range s.FrequencyDetails.Intervals {
		if atom.MonthDay == "" {
			continue
		}
		if !validMonthDay(atom.MonthDay) {
			return nil, &TranslateError{
				ScheduleID: s.ID,
				Reason:     fmt.Sprintf("invalid monthDay %q", atom.MonthDay),
			}
		}
		return []models.Interval{{MonthDay: atom.MonthDay}}, nil
	}
	return nil, &TranslateError{ScheduleID: s.ID, Reason: "monthly schedule has no monthDay interval"}
}

func validMonthDay(v string) bool {
	if v == "FirstDay" || v == "LastDay" {
		return true
	}
	n, err := strconv.Atoi(v)
	return err == nil && n >= 1 && n <= 31
}

// weeklyIntervals emits the first weekDay atom only. The destination
// accepts a single weekday per weekly schedule; dropped atoms are
// logged at debug level.
func weeklyIntervals(s models.Schedule) ([]models.Interval, error) {
	var first string
	var dropped []string
	for _, atom := range s.FrequencyDetails.Intervals {
		if atom.WeekDay == "" {
			continue
		}
		if !models.IsWeekDay(atom.WeekDay) {
			return nil, &TranslateError{
				ScheduleID: s.ID,
				Reason:     fmt.Sprintf("invalid weekDay %q", atom.WeekDay),
			}
		}
		if first == "" {
			first = atom.WeekDay
		} else {
			dropped = append(dropped, atom.WeekDay)
		}
	}
	if first == "" {
		return nil, &TranslateError{ScheduleID: s.ID, Reason: "weekly schedule has no weekDay interval"}
	}
	if len(dropped) > 0 {
		logging.Debug().
			Str("schedule_id", s.ID).
			Strs("dropped_week_days", dropped).
			Msg("weekly schedule keeps only the first weekDay")
	}
	return []models.Interval{{WeekDay: first}}, nil
}

// dailyDefaultIntervals builds the every-day shape: hours=24 plus the
// seven weekDay atoms Monday through Sunday.
func dailyDefaultIntervals() []models.Interval {
	intervals := make([]models.Interval, 0, 1+len(models.WeekDays))
	intervals = append(intervals, models.Interval{Hours: "24"})
	for _, day := range models.WeekDays {
		intervals = append(intervals, models.Interval{WeekDay: day})
	}
	return intervals
}

// synthesizeEnd computes start + 2h for the synthesized Daily shape.
func synthesizeEnd(s models.Schedule, start string) (string, error) {
	t, err := time.Parse(clockLayout, start)
	if err != nil {
		return "", &TranslateError{
			ScheduleID: s.ID,
			Reason:     fmt.Sprintf("invalid start time %q", start),
		}
	}
	return t.Add(dailySyntheticEndOffset).Format(clockLayout), nil
}

// dailyIntervals classifies each atom by value domain: an allowed
// hour count becomes an hours atom, a weekday name a weekDay atom.
func dailyIntervals(s models.Schedule) ([]models.Interval, error) {
	var intervals []models.Interval
	for _, atom := range s.FrequencyDetails.Intervals {
		switch {
		case atom.Hours != "":
			if !dailyHours[atom.Hours] {
				return nil, &TranslateError{
					ScheduleID: s.ID,
					Reason:     fmt.Sprintf("daily hours interval %q not in {2,4,6,8,12,24}", atom.Hours),
				}
			}
			intervals = append(intervals, models.Interval{Hours: atom.Hours})
		case atom.WeekDay != "":
			if !models.IsWeekDay(atom.WeekDay) {
				return nil, &TranslateError{
					ScheduleID: s.ID,
					Reason:     fmt.Sprintf("invalid weekDay %q", atom.WeekDay),
				}
			}
			intervals = append(intervals, models.Interval{WeekDay: atom.WeekDay})
		default:
			return nil, &TranslateError{
				ScheduleID: s.ID,
				Reason:     fmt.Sprintf("daily schedule has unsupported interval %+v", atom),
			}
		}
	}
	return intervals, nil
}

// hourlyIntervals classifies each atom as minutes, hours, or weekDay.
// The destination only accepts minutes=60 and hours=1.
func hourlyIntervals(s models.Schedule) ([]models.Interval, error) {
	var intervals []models.Interval
	for _, atom := range s.FrequencyDetails.Intervals {
		switch {
		case atom.Minutes != "":
			if atom.Minutes != "60" {
				return nil, &TranslateError{
					ScheduleID: s.ID,
					Reason:     fmt.Sprintf("hourly minutes interval %q must be 60", atom.Minutes),
				}
			}
			intervals = append(intervals, models.Interval{Minutes: atom.Minutes})
		case atom.Hours != "":
			if atom.Hours != "1" {
				return nil, &TranslateError{
					ScheduleID: s.ID,
					Reason:     fmt.Sprintf("hourly hours interval %q must be 1", atom.Hours),
				}
			}
			intervals = append(intervals, models.Interval{Hours: atom.Hours})
		case atom.WeekDay != "":
			if !models.IsWeekDay(atom.WeekDay) {
				return nil, &TranslateError{
					ScheduleID: s.ID,
					Reason:     fmt.Sprintf("invalid weekDay %q", atom.WeekDay),
				}
			}
			intervals = append(intervals, models.Interval{WeekDay: atom.WeekDay})
		default:
			return nil, &TranslateError{
				ScheduleID: s.ID,
				Reason:     fmt.Sprintf("hourly schedule has unsupported interval %+v", atom),
			}
		}
	}
	if len(intervals) == 0 {
		return nil, &TranslateError{ScheduleID: s.ID, Reason: "hourly schedule has no intervals"}
	}
	return intervals, nil
}
