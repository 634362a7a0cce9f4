/*
policy.go - Named policy configuration for attendance computation

PURPOSE:
  Every constant that tunes the computation lives here, passed explicitly
  into each stage. Tests vary policy without touching logic; nothing in
  the pipeline reads globals.

SEE ALSO:
  - factory/policy.go: Builds a Policy from a YAML/JSON document
*/
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Policy holds every tunable constant of the computation.
type Policy struct {
	// GraceMinutes is the lateness tolerance past shift start. The same
	// tolerance gates early-departure classification.
	GraceMinutes int

	// Weekend days neither break nor extend streaks and are excluded
	// from standard-day proration concerns handled elsewhere.
	Weekend []time.Weekday

	// Default shift window used to classify salaried employees on days
	// with no scheduled shift. Hourly employees are never classified
	// late without a shift.
	DefaultShiftStart ClockTime
	DefaultShiftEnd   ClockTime

	// MinShiftMinutes guards against degenerate schedule rows. A shift
	// shorter than this is ignored and the day bills as unscheduled.
	MinShiftMinutes int

	// RemoteCreditHours is the flat credit for an approved remote-work
	// day with no recorded sessions.
	RemoteCreditHours decimal.Decimal

	// StreakLookbackDays bounds the backward streak scan.
	StreakLookbackDays int

	// FullDayHours caps paid hours per day for prorated-monthly
	// employees and converts daily rate to hourly rate.
	FullDayHours decimal.Decimal
}

// DefaultPolicy returns the stock configuration: 5 minute grace,
// Saturday/Sunday weekend, 08:30-17:30 default window, 8 hour day.
func DefaultPolicy() Policy {
	return Policy{
		GraceMinutes:       5,
		Weekend:            []time.Weekday{time.Saturday, time.Sunday},
		DefaultShiftStart:  NewClockTime(8, 30),
		DefaultShiftEnd:    NewClockTime(17, 30),
		MinShiftMinutes:    60,
		RemoteCreditHours:  decimal.NewFromInt(8),
		StreakLookbackDays: 60,
		FullDayHours:       decimal.NewFromInt(8),
	}
}

// IsWeekend reports whether the day falls in the policy's weekend set.
func (p Policy) IsWeekend(d Day) bool {
	wd := d.Weekday()
	for _, w := range p.Weekend {
		if w == wd {
			return true
		}
	}
	return false
}

// usableShift filters out missing or degenerate shifts. Returns nil when
// the day should bill as unscheduled.
func (p Policy) usableShift(shift *ScheduledShift) *ScheduledShift {
	if shift == nil {
		return nil
	}
	if shift.Minutes() < p.MinShiftMinutes {
		return nil
	}
	return shift
}

// Validate rejects configurations the pipeline cannot run with.
func (p Policy) Validate() error {
	if p.GraceMinutes < 0 {
		return fmt.Errorf("grace minutes must not be negative, got %d", p.GraceMinutes)
	}
	if !p.DefaultShiftStart.Before(p.DefaultShiftEnd) {
		return fmt.Errorf("default shift window must start before it ends, got %s-%s",
			p.DefaultShiftStart, p.DefaultShiftEnd)
	}
	if p.RemoteCreditHours.IsNegative() || p.RemoteCreditHours.IsZero() {
		return fmt.Errorf("remote credit hours must be positive, got %s", p.RemoteCreditHours)
	}
	if p.FullDayHours.IsNegative() || p.FullDayHours.IsZero() {
		return fmt.Errorf("full day hours must be positive, got %s", p.FullDayHours)
	}
	if p.StreakLookbackDays <= 0 {
		return fmt.Errorf("streak lookback must be positive, got %d", p.StreakLookbackDays)
	}
	return nil
}
