/*
session.go - Session reconstruction from raw punch events

PURPOSE:
  Pairs raw, possibly-malformed IN/OUT punches into work sessions, one
  group per calendar day. This is the first stage of the pipeline; its
  output still carries raw durations - shift clamping happens in
  reconcile.go.

ALGORITHM:
  Sort punches by timestamp, then walk each day with an "open IN" cursor:
  - IN with no open cursor opens a session and records first-IN if unset
  - OUT with an open cursor closes the session and clears the cursor
  - OUT with no open cursor is a data error: "missing check-in"
  - a day ending with an open cursor is a data error: "missing check-out"

  Every detected problem is recorded; a day can carry both a data error
  and, later, a lateness flag. Single-cause reporting hid concurrent
  problems, so tags are a set.

EDGE CASES:
  - A day with zero punches produces no group at all; the exception
    injector may still synthesize a remote-work day for it.
  - An IN while a session is already open re-opens nothing; the earlier
    cursor stays authoritative and the duplicate IN is ignored.
*/
package engine

import (
	"sort"
	"time"
)

// =============================================================================
// SESSION - A matched IN/OUT pair
// =============================================================================

type Session struct {
	In  time.Time
	Out time.Time
}

func (s Session) Minutes() int {
	m := int(s.Out.Sub(s.In) / time.Minute)
	if m < 0 {
		return 0
	}
	return m
}

// DaySessions is one day's worth of reconstructed sessions.
type DaySessions struct {
	Day      Day
	Sessions []Session
	FirstIn  time.Time
	LastOut  time.Time

	// RawMinutes is the summed duration of matched sessions before any
	// shift-based clamping.
	RawMinutes int

	Tags []DayTag

	// open IN cursor, only used while the day is being walked
	openIn *time.Time
}

// HasDataError reports whether the day carries a zeroing data error.
func (d DaySessions) HasDataError() bool {
	for _, t := range d.Tags {
		if t.IsDataError() {
			return true
		}
	}
	return false
}

// =============================================================================
// RECONSTRUCTOR
// =============================================================================

// ReconstructSessions groups one employee's punches by calendar day and
// pairs them into sessions. Result is sorted by day, ascending. Days with
// no punches do not appear.
func ReconstructSessions(punches []PunchEvent) []DaySessions {
	sorted := make([]PunchEvent, len(punches))
	copy(sorted, punches)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	byDay := make(map[Day]*DaySessions)
	var order []Day

	for _, p := range sorted {
		day := p.Day()
		ds, ok := byDay[day]
		if !ok {
			ds = &DaySessions{Day: day}
			byDay[day] = ds
			order = append(order, day)
		}
		ds.apply(p)
	}

	result := make([]DaySessions, 0, len(order))
	for _, day := range order {
		ds := byDay[day]
		ds.finish()
		result = append(result, *ds)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Day.Before(result[j].Day) })
	return result
}

func (d *DaySessions) apply(p PunchEvent) {
	switch p.Kind {
	case PunchIn:
		if d.openIn != nil {
			// Duplicate IN; the open cursor stays authoritative.
			return
		}
		at := p.At
		d.openIn = &at
		if d.FirstIn.IsZero() {
			d.FirstIn = at
		}
	case PunchOut:
		if d.openIn == nil {
			d.Tags = appendTag(d.Tags, TagMissingCheckIn)
			return
		}
		s := Session{In: *d.openIn, Out: p.At}
		d.Sessions = append(d.Sessions, s)
		d.RawMinutes += s.Minutes()
		d.LastOut = p.At
		d.openIn = nil
	}
}

func (d *DaySessions) finish() {
	if d.openIn != nil {
		d.Tags = appendTag(d.Tags, TagMissingCheckOut)
		d.openIn = nil
	}
}
