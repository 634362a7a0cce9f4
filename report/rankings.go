/*
Package report builds organization-wide violation reports on top of the
attendance engine.

PURPOSE:
  Runs the lateness/early-departure classifier across every employee for
  a period and produces the two ranked lists the dashboard shows:

  - TopLate:      sorted by total late minutes, descending
  - TopEarlyBird: sorted by the earliest first check-in, ascending

  Employees with no relevant activity are excluded from the respective
  list (you cannot be an early bird without a punch).
*/
package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/warp/attendance-engine/engine"
)

// Standing is one employee's aggregate violation figures for a period.
type Standing struct {
	EmployeeID engine.EmployeeID
	Name       string

	LateCount        int
	TotalLateMinutes int
	EarlyLeaveCount  int

	// EarliestIn is the earliest first-IN time of day observed in the
	// period. Only meaningful when HasPunch is true.
	EarliestIn engine.ClockTime
	HasPunch   bool
}

// PeriodReport carries both rankings for one payroll month.
type PeriodReport struct {
	Period       engine.MonthPeriod
	TopLate      []Standing
	TopEarlyBird []Standing
}

// Build computes the report by running the monthly pipeline for every
// employee. Each per-employee computation is independent; failures abort
// the report rather than producing a partial one.
func Build(ctx context.Context, eng *engine.Engine, period engine.MonthPeriod) (*PeriodReport, error) {
	employees, err := eng.Employees.Employees(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}

	standings := make([]Standing, 0, len(employees))
	for _, emp := range employees {
		stats, err := eng.MonthlyStats(ctx, emp.ID, period.Start())
		if err != nil {
			return nil, fmt.Errorf("stats for %s: %w", emp.ID, err)
		}

		s := Standing{
			EmployeeID:       emp.ID,
			Name:             emp.Name,
			LateCount:        stats.LateCount,
			TotalLateMinutes: stats.TotalLateMinutes,
			EarlyLeaveCount:  stats.EarlyLeaveCount,
		}
		for _, day := range stats.Daily {
			if day.FirstIn.IsZero() {
				continue
			}
			in := engine.ClockTimeOf(day.FirstIn)
			if !s.HasPunch || in.Before(s.EarliestIn) {
				s.EarliestIn = in
				s.HasPunch = true
			}
		}
		standings = append(standings, s)
	}

	return &PeriodReport{
		Period:       period,
		TopLate:      rankLate(standings),
		TopEarlyBird: rankEarlyBird(standings),
	}, nil
}

func rankLate(standings []Standing) []Standing {
	var ranked []Standing
	for _, s := range standings {
		if s.LateCount > 0 {
			ranked = append(ranked, s)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalLateMinutes > ranked[j].TotalLateMinutes
	})
	return ranked
}

func rankEarlyBird(standings []Standing) []Standing {
	var ranked []Standing
	for _, s := range standings {
		if s.HasPunch {
			ranked = append(ranked, s)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EarliestIn.Before(ranked[j].EarliestIn)
	})
	return ranked
}
