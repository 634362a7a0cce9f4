/*
engine.go - Pipeline orchestration

PURPOSE:
  Wires the pipeline stages together. Two layers:

  - Compute(): the pure, synchronous transformation over an
    already-fetched input snapshot. No I/O, no shared state; any number
    of concurrent calls run fully in parallel.
  - Engine: fetches the snapshot through the collaborator ports, then
    calls Compute(). Also drives the streak scan and the payroll period
    close/reopen lifecycle.

DATA FLOW:
  punches + schedule + exceptions + holidays
    -> ReconstructSessions -> ReconcileDay -> InjectExceptions
    -> BuildMonthlyStats (classification + pay + aggregation)
*/
package engine

import (
	"context"
	"errors"
	"fmt"
)

// =============================================================================
// PURE COMPUTATION
// =============================================================================

// ComputeInput is the full input snapshot for one employee and month.
type ComputeInput struct {
	Employee    EmployeeProfile
	Period      MonthPeriod
	Punches     []PunchEvent
	Shifts      []ScheduledShift
	Exceptions  []ExceptionRequest
	Holidays    []HolidayRule
	Adjustments []AdjustmentEntry
	Policy      Policy
}

// Compute runs the whole pipeline over a snapshot. Recomputing from an
// identical snapshot yields an identical result.
func Compute(in ComputeInput) (*MonthlyStats, error) {
	if in.Period.Year == 0 || in.Period.Month < 1 || in.Period.Month > 12 {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidPeriod, in.Period.Year, int(in.Period.Month))
	}

	// A snapshot may carry rows for several employees; only the subject's
	// rows enter the pipeline.
	shiftByDay := make(map[Day]ScheduledShift, len(in.Shifts))
	for _, s := range in.Shifts {
		if s.EmployeeID == in.Employee.ID {
			shiftByDay[s.Day] = s
		}
	}
	var punches []PunchEvent
	for _, p := range in.Punches {
		if p.EmployeeID == in.Employee.ID {
			punches = append(punches, p)
		}
	}
	var exceptions []ExceptionRequest
	for _, ex := range in.Exceptions {
		if ex.EmployeeID == in.Employee.ID {
			exceptions = append(exceptions, ex)
		}
	}

	var reconciled []ReconciledDay
	for _, ds := range ReconstructSessions(punches) {
		if !in.Period.Contains(ds.Day) {
			continue
		}
		var shift *ScheduledShift
		if s, ok := shiftByDay[ds.Day]; ok {
			shift = &s
		}
		reconciled = append(reconciled, ReconcileDay(ds, shift, exceptions, in.Policy))
	}

	inj := InjectExceptions(reconciled, exceptions, in.Period, in.Policy)
	return BuildMonthlyStats(in.Employee, in.Period, inj, in.Holidays, in.Adjustments, in.Policy), nil
}

// =============================================================================
// ENGINE - Port-backed orchestrator
// =============================================================================

type Engine struct {
	Events      EventStore
	Schedules   ScheduleStore
	Exceptions  ExceptionLedger
	Holidays    HolidayCalendar
	Adjustments AdjustmentLedger
	Employees   EmployeeDirectory

	// Optional period lifecycle; nil disables close/reopen and snapshot
	// serving.
	Periods   PeriodStore
	Snapshots StatsSnapshotStore

	Policy Policy
}

// New builds an engine on a single aggregated store.
func New(store Store, pol Policy) *Engine {
	return &Engine{
		Events:      store,
		Schedules:   store,
		Exceptions:  store,
		Holidays:    store,
		Adjustments: store,
		Employees:   store,
		Periods:     store,
		Snapshots:   store,
		Policy:      pol,
	}
}

// MonthlyStats computes the stats for the month containing targetDate.
// For a CLOSED period the frozen snapshot is served so concurrent readers
// never observe a half-written close.
func (e *Engine) MonthlyStats(ctx context.Context, id EmployeeID, targetDate Day) (*MonthlyStats, error) {
	period := PeriodOf(targetDate)

	profile, err := e.Employees.Employee(ctx, id)
	if err != nil {
		return nil, err
	}

	if e.Periods != nil && e.Snapshots != nil {
		closed, err := e.Periods.IsPeriodClosed(ctx, period)
		if err != nil {
			return nil, err
		}
		if closed {
			snap, err := e.Snapshots.StatsSnapshot(ctx, id, period)
			if err == nil {
				return snap, nil
			}
			if !errors.Is(err, ErrSnapshotNotFound) {
				return nil, err
			}
			// No frozen copy for this employee; fall through and compute.
		}
	}

	in, err := e.snapshot(ctx, *profile, period)
	if err != nil {
		return nil, err
	}
	return Compute(*in)
}

// Streak computes the consecutive qualifying-workday count ending today.
func (e *Engine) Streak(ctx context.Context, id EmployeeID, today Day) (int, error) {
	if _, err := e.Employees.Employee(ctx, id); err != nil {
		return 0, err
	}

	from := today.AddDays(-e.Policy.StreakLookbackDays)
	punches, err := e.Events.PunchesInRange(ctx, id, from, today)
	if err != nil {
		return 0, fmt.Errorf("loading punches: %w", err)
	}
	exceptions, err := e.Exceptions.ExceptionsInRange(ctx, id, from, today)
	if err != nil {
		return 0, fmt.Errorf("loading exceptions: %w", err)
	}
	return ComputeStreak(punches, exceptions, today, e.Policy), nil
}

// ClosePeriod freezes every employee's stats for the period, then flips
// the period CLOSED. The unique (year, month) row in the PeriodStore
// makes the flip atomic.
func (e *Engine) ClosePeriod(ctx context.Context, period MonthPeriod) error {
	if e.Periods == nil || e.Snapshots == nil {
		return fmt.Errorf("period lifecycle is not configured")
	}

	employees, err := e.Employees.Employees(ctx)
	if err != nil {
		return fmt.Errorf("listing employees: %w", err)
	}
	for _, emp := range employees {
		in, err := e.snapshot(ctx, emp, period)
		if err != nil {
			return err
		}
		stats, err := Compute(*in)
		if err != nil {
			return fmt.Errorf("computing stats for %s: %w", emp.ID, err)
		}
		if err := e.Snapshots.SaveStatsSnapshot(ctx, stats); err != nil {
			return fmt.Errorf("freezing stats for %s: %w", emp.ID, err)
		}
	}

	return e.Periods.ClosePeriod(ctx, period)
}

// ReopenPeriod inverts a close and invalidates the frozen snapshots.
func (e *Engine) ReopenPeriod(ctx context.Context, period MonthPeriod) error {
	if e.Periods == nil || e.Snapshots == nil {
		return fmt.Errorf("period lifecycle is not configured")
	}
	if err := e.Periods.ReopenPeriod(ctx, period); err != nil {
		return err
	}
	return e.Snapshots.DeleteStatsSnapshots(ctx, period)
}

// snapshot fetches one employee-month input set through the ports.
func (e *Engine) snapshot(ctx context.Context, profile EmployeeProfile, period MonthPeriod) (*ComputeInput, error) {
	from, to := period.Start(), period.End()

	punches, err := e.Events.PunchesInRange(ctx, profile.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading punches: %w", err)
	}
	shifts, err := e.Schedules.ShiftsInRange(ctx, profile.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading shifts: %w", err)
	}
	exceptions, err := e.Exceptions.ExceptionsInRange(ctx, profile.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading exceptions: %w", err)
	}
	holidays, err := e.Holidays.HolidaysInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading holidays: %w", err)
	}
	adjustments, err := e.Adjustments.AdjustmentsInRange(ctx, profile.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("loading adjustments: %w", err)
	}

	return &ComputeInput{
		Employee:    profile,
		Period:      period,
		Punches:     punches,
		Shifts:      shifts,
		Exceptions:  exceptions,
		Holidays:    holidays,
		Adjustments: adjustments,
		Policy:      e.Policy,
	}, nil
}
