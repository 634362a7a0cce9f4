package engine_test

import (
	"testing"
	"time"

	"github.com/warp/attendance-engine/engine"
)

// April 2025 layout used below: Tue 1, Wed 2, Thu 3, Fri 4, weekend 5-6,
// Mon 7.

func streakOf(punches []engine.PunchEvent, exceptions []engine.ExceptionRequest, today engine.Day) int {
	return engine.ComputeStreak(punches, exceptions, today, engine.DefaultPolicy())
}

// =============================================================================
// STREAK TESTS
// =============================================================================

func TestComputeStreak_ConsecutiveOnTimeDays(t *testing.T) {
	// GIVEN: on-time INs on Wed, Thu, Fri; today is Friday
	// WHEN: computing the streak
	// THEN: 3

	today := day(2025, time.April, 4)
	punches := []engine.PunchEvent{
		in(day(2025, time.April, 2), "08:00"),
		in(day(2025, time.April, 3), "08:00"),
		in(today, "08:00"),
	}
	if got := streakOf(punches, nil, today); got != 3 {
		t.Errorf("expected streak 3, got %d", got)
	}
}

func TestComputeStreak_WeekendSkippedTransparently(t *testing.T) {
	// GIVEN: on-time Friday and Monday, nothing on the weekend
	// WHEN: computing on Monday
	// THEN: both days count; the weekend neither breaks nor extends

	today := day(2025, time.April, 7)
	punches := []engine.PunchEvent{
		in(day(2025, time.April, 4), "08:00"),
		in(today, "08:00"),
	}
	if got := streakOf(punches, nil, today); got != 2 {
		t.Errorf("expected streak 2 across the weekend, got %d", got)
	}
}

func TestComputeStreak_LateTodayResetsToZero(t *testing.T) {
	// GIVEN: a long on-time history but a late punch today
	// WHEN: computing
	// THEN: 0 regardless of history

	today := day(2025, time.April, 4)
	punches := []engine.PunchEvent{
		in(day(2025, time.April, 2), "08:00"),
		in(day(2025, time.April, 3), "08:00"),
		in(today, "10:00"),
	}
	if got := streakOf(punches, nil, today); got != 0 {
		t.Errorf("expected streak 0 after a late today, got %d", got)
	}
}

func TestComputeStreak_EarlierLateDayStopsScan(t *testing.T) {
	// GIVEN: late on Wednesday, on-time Thursday and Friday
	// WHEN: computing on Friday
	// THEN: 2; the late day ends the scan without counting itself

	today := day(2025, time.April, 4)
	punches := []engine.PunchEvent{
		in(day(2025, time.April, 2), "10:00"),
		in(day(2025, time.April, 3), "08:00"),
		in(today, "08:00"),
	}
	if got := streakOf(punches, nil, today); got != 2 {
		t.Errorf("expected streak 2, got %d", got)
	}
}

func TestComputeStreak_ApprovedLeaveContinues(t *testing.T) {
	// GIVEN: on-time Wed, approved leave Thu, on-time Fri
	// WHEN: computing on Friday
	// THEN: 3; leave counts like an on-time day

	today := day(2025, time.April, 4)
	punches := []engine.PunchEvent{
		in(day(2025, time.April, 2), "08:00"),
		in(today, "08:00"),
	}
	exceptions := []engine.ExceptionRequest{approvedLeave(day(2025, time.April, 3))}
	if got := streakOf(punches, exceptions, today); got != 3 {
		t.Errorf("expected streak 3 with a leave day, got %d", got)
	}
}

func TestComputeStreak_PendingLeaveDoesNotCount(t *testing.T) {
	today := day(2025, time.April, 4)
	punches := []engine.PunchEvent{
		in(day(2025, time.April, 2), "08:00"),
		in(today, "08:00"),
	}
	pending := approvedLeave(day(2025, time.April, 3))
	pending.Status = engine.StatusPending

	// The unexplained Thursday breaks the scan after today counts.
	if got := streakOf(punches, []engine.ExceptionRequest{pending}, today); got != 1 {
		t.Errorf("expected streak 1, got %d", got)
	}
}

func TestComputeStreak_NotYetStartedTodayIsLenient(t *testing.T) {
	// GIVEN: no punch yet today, on-time the two prior workdays
	// WHEN: computing
	// THEN: the unpunched today is skipped, streak is 2

	today := day(2025, time.April, 4)
	punches := []engine.PunchEvent{
		in(day(2025, time.April, 2), "08:00"),
		in(day(2025, time.April, 3), "08:00"),
	}
	if got := streakOf(punches, nil, today); got != 2 {
		t.Errorf("expected streak 2 before today's punch, got %d", got)
	}
}

func TestComputeStreak_UnexplainedGapBreaks(t *testing.T) {
	// GIVEN: on-time today, nothing Thursday, on-time Wednesday
	// WHEN: computing on Friday
	// THEN: 1; the gap on an earlier day breaks the streak

	today := day(2025, time.April, 4)
	punches := []engine.PunchEvent{
		in(day(2025, time.April, 2), "08:00"),
		in(today, "08:00"),
	}
	if got := streakOf(punches, nil, today); got != 1 {
		t.Errorf("expected streak 1, got %d", got)
	}
}

func TestComputeStreak_EarliestInOfDayDecides(t *testing.T) {
	// GIVEN: an on-time IN followed by a later IN the same day
	// WHEN: computing
	// THEN: the earliest IN decides; the day is on time

	today := day(2025, time.April, 4)
	punches := []engine.PunchEvent{
		in(today, "08:20"),
		in(today, "13:00"),
	}
	if got := streakOf(punches, nil, today); got != 1 {
		t.Errorf("expected streak 1, got %d", got)
	}
}

func TestComputeStreak_NoActivityAtAll(t *testing.T) {
	if got := streakOf(nil, nil, day(2025, time.April, 4)); got != 0 {
		t.Errorf("expected streak 0, got %d", got)
	}
}
