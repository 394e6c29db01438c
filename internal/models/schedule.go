// Sitelift - Analytics Platform Content Migration (Server to Cloud)
// Copyright 2026 R. Keene (sitelift)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sitelift/sitelift

package models

import "github.com/goccy/go-json"

// Frequency is a schedule recurrence class.
type Frequency string

// Schedule frequencies supported on both server and cloud.
const (
	FrequencyHourly  Frequency = "Hourly"
	FrequencyDaily   Frequency = "Daily"
	FrequencyWeekly  Frequency = "Weekly"
	FrequencyMonthly Frequency = "Monthly"
)

// WeekDays lists the weekday interval values Monday first, in the
// order the cloud API expects them for a synthesized every-day
// schedule.
var WeekDays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// IsWeekDay reports whether v is one of the seven weekday names.
func IsWeekDay(v string) bool {
	for _, d := range WeekDays {
		if v == d {
			return true
		}
	}
	return false
}

// Interval is one typed recurrence atom. Exactly one field is set per
// atom on the wire; the others serialize as absent. Values are strings
// because the API transports them as XML attributes.
type Interval struct {
	Hours    string `json:"hours,omitempty" xml:"hours,attr,omitempty"`
	Minutes  string `json:"minutes,omitempty" xml:"minutes,attr,omitempty"`
	WeekDay  string `json:"weekDay,omitempty" xml:"weekDay,attr,omitempty"`
	MonthDay string `json:"monthDay,omitempty" xml:"monthDay,attr,omitempty"`
}

// FrequencyDetails carries the start clock time, the optional end
// clock time (required for Hourly), and the interval atoms. Times are
// local "HH:MM:SS" clock strings, never instants.
type FrequencyDetails struct {
	Start     string     `json:"start" xml:"start,attr"`
	End       string     `json:"end,omitempty" xml:"end,attr,omitempty"`
	Intervals []Interval `json:"-"`
}

// frequencyDetailsWire mirrors the platform JSON, which wraps the
// interval list in a nested "intervals" object.
type frequencyDetailsWire struct {
	Start     string `json:"start"`
	End       string `json:"end,omitempty"`
	Intervals *struct {
		Interval []Interval `json:"interval,omitempty"`
	} `json:"intervals,omitempty"`
}

// UnmarshalJSON decodes the nested wire shape into the flat struct.
func (d *FrequencyDetails) UnmarshalJSON(data []byte) error {
	var wire frequencyDetailsWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	d.Start = wire.Start
	d.End = wire.End
	d.Intervals = nil
	if wire.Intervals != nil {
		d.Intervals = wire.Intervals.Interval
	}
	return nil
}

// MarshalJSON emits the nested wire shape so snapshots round-trip.
func (d FrequencyDetails) MarshalJSON() ([]byte, error) {
	wire := frequencyDetailsWire{Start: d.Start, End: d.End}
	if len(d.Intervals) > 0 {
		wire.Intervals = &struct {
			Interval []Interval `json:"interval,omitempty"`
		}{Interval: d.Intervals}
	}
	return json.Marshal(wire)
}

// Schedule is a server-side recurrence description. Interval details
// are only present after the deep per-schedule fetch; the plain list
// endpoint returns the summary fields.
type Schedule struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	State            string            `json:"state,omitempty"`
	Priority         int               `json:"priority,omitempty"`
	Type             string            `json:"type,omitempty"`
	Frequency        Frequency         `json:"frequency"`
	NextRunAt        string            `json:"nextRunAt,omitempty"`
	ExecutionOrder   string            `json:"executionOrder,omitempty"`
	FrequencyDetails *FrequencyDetails `json:"frequencyDetails,omitempty"`
}
