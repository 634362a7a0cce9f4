/*
classify.go - Lateness and early-departure classification

PURPOSE:
  Flags late arrivals and early departures for reporting. Classification
  never changes billing: a late arrival bills normally, and an early
  departure forgiven by an approved exception still shows up here so the
  violation report reflects what actually happened at the clock.

WINDOW SELECTION:
  - a usable scheduled shift wins
  - no shift: salaried employees compare against the policy default
    window; hourly employees are never classified without a shift
  - synthetic remote days have no first-IN and are never late
*/
package engine

// Classification is the per-day violation outcome.
type Classification struct {
	IsLate       bool
	LateMinutes  int
	IsEarlyOut   bool
	EarlyMinutes int
}

// classificationWindow picks the comparison window for a day.
// Returns ok=false when the day must not be classified.
func classificationWindow(shift *ScheduledShift, profile EmployeeProfile, pol Policy) (start, end ClockTime, ok bool) {
	if shift != nil {
		return shift.Start, shift.End, true
	}
	if profile.Type == ProratedMonthly {
		return pol.DefaultShiftStart, pol.DefaultShiftEnd, true
	}
	return ClockTime{}, ClockTime{}, false
}

// ClassifyDay computes the lateness and early-departure flags for one
// reconciled day.
func ClassifyDay(rd ReconciledDay, profile EmployeeProfile, pol Policy) Classification {
	var c Classification

	start, end, ok := classificationWindow(rd.Shift, profile, pol)
	if !ok {
		return c
	}

	if rd.HasFirstIn() {
		lateBy := rd.FirstIn.MinuteOfDay() - start.MinuteOfDay()
		if lateBy > pol.GraceMinutes {
			c.IsLate = true
			// Reported minutes count from shift start, not from the end
			// of the grace window.
			c.LateMinutes = lateBy
		}
	}

	if rd.HasLastOut() {
		earlyBy := end.MinuteOfDay() - rd.LastOut.MinuteOfDay()
		if earlyBy > pol.GraceMinutes {
			c.IsEarlyOut = true
			c.EarlyMinutes = earlyBy
		}
	}

	return c
}
