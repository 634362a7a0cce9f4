/*
streak.go - Consecutive qualifying workday streak

PURPOSE:
  Computes the count of consecutive qualifying workdays ending at "today"
  by scanning backward over punches and approved leave, bounded by the
  policy lookback window. Consumed by an external display collaborator.

RULES:
  - weekends are skipped transparently: they neither break nor extend
  - an on-time punch or an approved leave counts and continues
  - a late punch today zeroes the whole streak regardless of history
  - a late punch on an earlier day stops the scan, excluding that day
  - no punch and no leave on the first scanned day means "not yet
    started": continue from yesterday without incrementing; on any
    earlier day it breaks the streak

  On-time means the first IN of the day is within the policy default
  shift start plus grace. The streak deliberately consumes only punches
  and leave, so per-day schedules do not participate.
*/
package engine

// ComputeStreak scans backward from today. Punches and exceptions for
// other employees or outside the lookback window are ignored.
func ComputeStreak(punches []PunchEvent, exceptions []ExceptionRequest, today Day, pol Policy) int {
	firstIn := make(map[Day]ClockTime)
	for _, p := range punches {
		if p.Kind != PunchIn {
			continue
		}
		d := p.Day()
		ct := ClockTimeOf(p.At)
		if prev, ok := firstIn[d]; !ok || ct.Before(prev) {
			firstIn[d] = ct
		}
	}

	leave := make(map[Day]bool)
	for _, ex := range exceptions {
		if ex.Kind == ExceptionLeave && ex.Status == StatusApproved {
			leave[ex.Day] = true
		}
	}

	onTimeLimit := pol.DefaultShiftStart.MinuteOfDay() + pol.GraceMinutes

	streak := 0
	first := true
	for i := 0; i <= pol.StreakLookbackDays; i++ {
		d := today.AddDays(-i)
		if pol.IsWeekend(d) {
			continue
		}

		ct, punched := firstIn[d]
		switch {
		case punched && ct.MinuteOfDay() <= onTimeLimit:
			streak++
		case punched:
			// Late. Today's lateness resets everything; an earlier late
			// day just ends the scan without counting itself.
			if first {
				return 0
			}
			return streak
		case leave[d]:
			streak++
		default:
			if first {
				// Not yet started today; keep scanning from yesterday.
				first = false
				continue
			}
			return streak
		}
		first = false
	}
	return streak
}
