/*
inject.go - Synthesizing exception-driven days

PURPOSE:
  Applies APPROVED leave and remote-work exceptions after reconciliation:

  - WFH with zero recorded sessions synthesizes a flat credited day
    (policy.RemoteCreditHours), tagged "remote work"
  - WFH on a day that already has sessions keeps the real hours and tags
    the day "remote work + check-in" - no double counting
  - LEAVE contributes zero hours and no DailyRecord; it only increments
    the leave count consumed by the full-time proration deduction

  Pending and rejected exceptions change nothing here; a pending
  EARLY_LEAVE already annotated its day in reconcile.go.
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Injected is the post-injection day set for a month.
type Injected struct {
	Days      []ReconciledDay // sorted by day, ascending
	LeaveDays int
}

// InjectExceptions folds approved exceptions into the reconciled days of
// one reporting period.
func InjectExceptions(days []ReconciledDay, exceptions []ExceptionRequest, period MonthPeriod, pol Policy) Injected {
	out := make([]ReconciledDay, len(days))
	copy(out, days)
	index := make(map[Day]int, len(out))
	for i := range out {
		index[out[i].Day] = i
	}

	leaveDays := 0
	remoteMinutes := int(pol.RemoteCreditHours.Mul(decimal.NewFromInt(60)).IntPart())

	for _, ex := range exceptions {
		if ex.Status != StatusApproved || !period.Contains(ex.Day) {
			continue
		}
		switch ex.Kind {
		case ExceptionLeave:
			leaveDays++
		case ExceptionRemote:
			i, exists := index[ex.Day]
			if exists && out[i].BilledMinutes > 0 {
				// Real hours stand; no double counting.
				out[i].Tags = appendTag(out[i].Tags, TagRemoteWorkCheckIn)
				continue
			}
			if exists {
				// The record holds no credited session (data error or
				// zero-length day): credit the flat remote day on top of
				// the recorded problem.
				out[i].BilledMinutes = remoteMinutes
				out[i].IsValid = true
				out[i].Tags = appendTag(out[i].Tags, TagRemoteWork)
				continue
			}
			out = append(out, ReconciledDay{
				Day:           ex.Day,
				BilledMinutes: remoteMinutes,
				IsValid:       true,
				Tags:          []DayTag{TagRemoteWork},
			})
			index[ex.Day] = len(out) - 1
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return Injected{Days: out, LeaveDays: leaveDays}
}
