/*
reconcile.go - Clamping raw sessions against scheduled shifts

PURPOSE:
  Converts raw session durations into billed durations by applying the
  shift policy:

  - early arrival earns no credit: billed start clamps to shift start
  - late arrival bills normally: the classifier penalizes, billing never
    truncates
  - an early departure bills actual-out, unless an APPROVED early-leave
    exception forgives it (full shift credited); a PENDING one bills
    actual-out and annotates the day
  - overtime past shift end is credited uncapped here; the prorated
    monthly formula caps pay at a full day later, in salary.go
  - with no usable shift the raw interval bills unchanged

  Days carrying a data error (missing check-in / check-out) bill zero
  hours and are marked invalid; the reason string survives on the record.
*/
package engine

// ReconciledDay is a day's billed outcome before pay is attached.
type ReconciledDay struct {
	Day     Day
	FirstIn ClockTime
	LastOut ClockTime

	BilledMinutes int
	IsValid       bool
	Tags          []DayTag

	// Shift actually used for billing and classification; nil when the
	// day billed as unscheduled.
	Shift *ScheduledShift

	hasFirstIn bool
	hasLastOut bool
}

// HasFirstIn reports whether any matched IN exists for the day.
func (r ReconciledDay) HasFirstIn() bool { return r.hasFirstIn }

// HasLastOut reports whether any matched OUT exists for the day.
func (r ReconciledDay) HasLastOut() bool { return r.hasLastOut }

// earlyLeaveFor picks the relevant early-leave exception for a date.
// Approved wins over pending; rejected requests change nothing.
func earlyLeaveFor(day Day, exceptions []ExceptionRequest) (approved, pending bool) {
	for _, ex := range exceptions {
		if ex.Kind != ExceptionEarlyLeave || !ex.Day.Equal(day) {
			continue
		}
		switch ex.Status {
		case StatusApproved:
			approved = true
		case StatusPending:
			pending = true
		}
	}
	return approved, pending
}

// ReconcileDay clamps one day's sessions against its shift, if any.
func ReconcileDay(ds DaySessions, shift *ScheduledShift, exceptions []ExceptionRequest, pol Policy) ReconciledDay {
	rd := ReconciledDay{
		Day:   ds.Day,
		Tags:  append([]DayTag(nil), ds.Tags...),
		Shift: pol.usableShift(shift),
	}
	if !ds.FirstIn.IsZero() {
		rd.FirstIn = ClockTimeOf(ds.FirstIn)
		rd.hasFirstIn = true
	}
	if !ds.LastOut.IsZero() {
		rd.LastOut = ClockTimeOf(ds.LastOut)
		rd.hasLastOut = true
	}

	if ds.HasDataError() {
		// Data errors zero the whole day; the tags carry the reason.
		rd.IsValid = false
		rd.BilledMinutes = 0
		return rd
	}
	rd.IsValid = true

	if rd.Shift == nil {
		rd.BilledMinutes = ds.RawMinutes
		return rd
	}

	approved, pending := earlyLeaveFor(ds.Day, exceptions)
	shiftStart := rd.Shift.Start.MinuteOfDay()
	shiftEnd := rd.Shift.End.MinuteOfDay()

	billed := 0
	for i, s := range ds.Sessions {
		in := ClockTimeOf(s.In).MinuteOfDay()
		out := ClockTimeOf(s.Out).MinuteOfDay()
		last := i == len(ds.Sessions)-1

		// No credit for early arrival.
		if in < shiftStart {
			in = shiftStart
		}

		// Early departure handling applies to the session that ends the
		// day; forgiving a mid-day break would double count.
		if last && out < shiftEnd {
			switch {
			case approved:
				out = shiftEnd
				rd.Tags = appendTag(rd.Tags, TagEarlyLeaveApproved)
			case pending:
				rd.Tags = appendTag(rd.Tags, TagEarlyLeavePending)
			}
		}

		if out > in {
			billed += out - in
		}
	}

	rd.BilledMinutes = billed
	return rd
}
