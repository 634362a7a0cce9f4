/*
scenarios.go - Demo scenario seed data

PURPOSE:
  Seeds the store with recognizable demo data so the API can be explored
  without a frontend or an import pipeline. Each scenario is a small,
  self-contained cast of employees with punches, shifts and exceptions
  spread over one month.

SCENARIOS:
  standard-month  A salaried employee with a clean month of punches
  late-arrivals   Shifted workers with a mix of late and on-time days
  exceptions      Leave, WFH and early-leave approval flows mid-month

  Scenario employees use distinct ID prefixes so loading one scenario
  never collides with another.

SEE ALSO:
  - handlers.go: /api/scenarios endpoints
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/engine"
)

type scenario struct {
	ID          string
	Name        string
	Description string
	Load        func(ctx context.Context, s engine.Store) error
}

var scenarios = []scenario{
	{
		ID:          "standard-month",
		Name:        "Standard Month",
		Description: "One salaried employee, clean punches, no violations",
		Load:        loadStandardMonth,
	},
	{
		ID:          "late-arrivals",
		Name:        "Late Arrivals",
		Description: "Shifted workers with late and on-time days for the leaderboard",
		Load:        loadLateArrivals,
	},
	{
		ID:          "exceptions",
		Name:        "Exception Flows",
		Description: "Leave, WFH and early-leave requests in various states",
		Load:        loadExceptions,
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = ScenarioDTO{ID: s.ID, Name: s.Name, Description: s.Description}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the most recently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"current": h.currentScenario})
}

// LoadScenario seeds the store with one scenario's data.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	for _, s := range scenarios {
		if s.ID == req.ScenarioID {
			if err := s.Load(r.Context(), h.Store); err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
				return
			}
			h.currentScenario = s.ID
			writeJSON(w, http.StatusOK, map[string]string{"loaded": s.ID})
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown scenario %q", req.ScenarioID), nil)
}

// =============================================================================
// SEED DATA
// =============================================================================

// demoMonth is the previous calendar month, so seeded data always lands
// in a complete period.
func demoMonth() engine.MonthPeriod {
	return engine.PeriodOf(engine.PeriodOf(engine.Today()).Start().AddDays(-1))
}

func punchPair(ctx context.Context, s engine.Store, id engine.EmployeeID, day engine.Day, in, out string) error {
	inCT, err := engine.ParseClockTime(in)
	if err != nil {
		return err
	}
	outCT, err := engine.ParseClockTime(out)
	if err != nil {
		return err
	}
	if _, err := s.AppendPunch(ctx, engine.PunchEvent{
		EmployeeID: id, Kind: engine.PunchIn, At: day.At(inCT),
	}); err != nil {
		return err
	}
	_, err = s.AppendPunch(ctx, engine.PunchEvent{
		EmployeeID: id, Kind: engine.PunchOut, At: day.At(outCT),
	})
	return err
}

// workdays returns the first n non-weekend days of the period.
func workdays(p engine.MonthPeriod, n int) []engine.Day {
	var days []engine.Day
	for d := p.Start(); d.BeforeOrEqual(p.End()) && len(days) < n; d = d.AddDays(1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		days = append(days, d)
	}
	return days
}

func loadStandardMonth(ctx context.Context, s engine.Store) error {
	period := demoMonth()
	emp := engine.EmployeeProfile{
		ID:            "std-alice",
		Name:          "Alice Chen",
		Email:         "alice@example.com",
		Type:          engine.ProratedMonthly,
		MonthlySalary: decimal.NewFromInt(6000000),
	}
	if err := s.SaveEmployee(ctx, emp); err != nil {
		return err
	}

	for _, day := range workdays(period, 20) {
		if err := punchPair(ctx, s, emp.ID, day, "08:25", "17:35"); err != nil {
			return err
		}
	}
	return nil
}

func loadLateArrivals(ctx context.Context, s engine.Store) error {
	period := demoMonth()

	bob := engine.EmployeeProfile{
		ID:         "late-bob",
		Name:       "Bob Tran",
		Email:      "bob@example.com",
		Type:       engine.Hourly,
		HourlyRate: decimal.NewFromInt(50000),
	}
	carol := engine.EmployeeProfile{
		ID:         "late-carol",
		Name:       "Carol Pham",
		Email:      "carol@example.com",
		Type:       engine.Hourly,
		HourlyRate: decimal.NewFromInt(55000),
	}
	for _, emp := range []engine.EmployeeProfile{bob, carol} {
		if err := s.SaveEmployee(ctx, emp); err != nil {
			return err
		}
	}

	days := workdays(period, 10)
	for i, day := range days {
		for _, emp := range []engine.EmployeeProfile{bob, carol} {
			if err := s.SaveShift(ctx, engine.ScheduledShift{
				EmployeeID: emp.ID,
				Day:        day,
				Start:      engine.NewClockTime(9, 0),
				End:        engine.NewClockTime(18, 0),
			}); err != nil {
				return err
			}
		}

		// Bob is chronically late; Carol is the early bird.
		bobIn := "08:55"
		if i%2 == 0 {
			bobIn = "09:30"
		}
		if err := punchPair(ctx, s, bob.ID, day, bobIn, "18:05"); err != nil {
			return err
		}
		if err := punchPair(ctx, s, carol.ID, day, "08:15", "18:00"); err != nil {
			return err
		}
	}
	return nil
}

func loadExceptions(ctx context.Context, s engine.Store) error {
	period := demoMonth()
	emp := engine.EmployeeProfile{
		ID:            "exc-dave",
		Name:          "Dave Nguyen",
		Email:         "dave@example.com",
		Type:          engine.ProratedMonthly,
		MonthlySalary: decimal.NewFromInt(7800000),
	}
	if err := s.SaveEmployee(ctx, emp); err != nil {
		return err
	}

	days := workdays(period, 8)
	for _, day := range days[:5] {
		if err := punchPair(ctx, s, emp.ID, day, "08:20", "17:40"); err != nil {
			return err
		}
	}

	// Approved leave day.
	leave, err := s.CreateException(ctx, engine.ExceptionRequest{
		EmployeeID: emp.ID, Day: days[5], Kind: engine.ExceptionLeave, Reason: "family trip",
	})
	if err != nil {
		return err
	}
	if err := s.ResolveException(ctx, leave.ID, engine.StatusApproved, "hr-demo"); err != nil {
		return err
	}

	// Approved WFH day with no punches: credited by injection.
	wfh, err := s.CreateException(ctx, engine.ExceptionRequest{
		EmployeeID: emp.ID, Day: days[6], Kind: engine.ExceptionRemote, Reason: "internet install",
	})
	if err != nil {
		return err
	}
	if err := s.ResolveException(ctx, wfh.ID, engine.StatusApproved, "hr-demo"); err != nil {
		return err
	}

	// Pending early-leave on a shifted day with an early departure.
	if err := s.SaveShift(ctx, engine.ScheduledShift{
		EmployeeID: emp.ID,
		Day:        days[7],
		Start:      engine.NewClockTime(8, 30),
		End:        engine.NewClockTime(17, 30),
	}); err != nil {
		return err
	}
	if err := punchPair(ctx, s, emp.ID, days[7], "08:30", "16:00"); err != nil {
		return err
	}
	_, err = s.CreateException(ctx, engine.ExceptionRequest{
		EmployeeID: emp.ID, Day: days[7], Kind: engine.ExceptionEarlyLeave, Reason: "doctor appointment",
	})
	return err
}
