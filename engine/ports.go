/*
ports.go - Collaborator interfaces

PURPOSE:
  The engine is a pure transformation over an already-fetched snapshot of
  inputs. These ports are how the snapshot is fetched and how the
  approval/period lifecycles are driven. Implementations:

  - engine/store/memory.go: in-memory, for tests and demos
  - store/sqlite/: production persistence

CONTRACTS:
  - EventStore appends are serialized per employee: an IN while the last
    event is an unmatched IN fails with ErrOpenPunchExists, an OUT with
    no open IN fails with ErrNoOpenPunch. Punches are immutable; admin
    corrections delete and recreate.
  - ExceptionLedger transitions PENDING to a terminal status exactly
    once. Re-resolving with the same status is a no-op; a different
    status fails with ErrRequestFinalized.
  - PeriodStore close is an atomic OPEN->CLOSED transition guarded by a
    unique (year, month) key; reopen is the inverse.
  - The engine never writes the AdjustmentLedger; gamification and
    review features own the writes.
*/
package engine

import "context"

// EventStore holds the append-only per-employee punch log.
type EventStore interface {
	// AppendPunch persists a punch, filling in the ID when empty.
	AppendPunch(ctx context.Context, p PunchEvent) (PunchEvent, error)

	// DeletePunch removes a punch as the first half of an admin
	// delete-and-recreate correction.
	DeletePunch(ctx context.Context, employeeID EmployeeID, id PunchID) error

	// PunchesInRange returns punches with At in [from, to], ordered by
	// timestamp.
	PunchesInRange(ctx context.Context, employeeID EmployeeID, from, to Day) ([]PunchEvent, error)

	// LastPunch returns the employee's most recent punch, or nil.
	LastPunch(ctx context.Context, employeeID EmployeeID) (*PunchEvent, error)
}

// ScheduleStore holds planned shift intervals.
type ScheduleStore interface {
	SaveShift(ctx context.Context, s ScheduledShift) error

	// ShiftsInRange returns at most one shift per employee per day.
	ShiftsInRange(ctx context.Context, employeeID EmployeeID, from, to Day) ([]ScheduledShift, error)
}

// ExceptionLedger holds approval-gated exception requests.
type ExceptionLedger interface {
	CreateException(ctx context.Context, ex ExceptionRequest) (ExceptionRequest, error)

	// ResolveException transitions a pending request to approved or
	// rejected. Terminal once; same-status re-resolution is a no-op.
	ResolveException(ctx context.Context, id ExceptionID, status ExceptionStatus, actor string) error

	ExceptionsInRange(ctx context.Context, employeeID EmployeeID, from, to Day) ([]ExceptionRequest, error)

	PendingExceptions(ctx context.Context) ([]ExceptionRequest, error)
}

// HolidayCalendar maps dates to pay multipliers. Absence of a rule is a
// documented default (multiplier 1), never an error.
type HolidayCalendar interface {
	SaveHoliday(ctx context.Context, h HolidayRule) error
	HolidaysInRange(ctx context.Context, from, to Day) ([]HolidayRule, error)
}

// AdjustmentLedger holds signed bonus/penalty entries. Append-only; the
// engine only reads it.
type AdjustmentLedger interface {
	AppendAdjustment(ctx context.Context, a AdjustmentEntry) (AdjustmentEntry, error)
	AdjustmentsInRange(ctx context.Context, employeeID EmployeeID, from, to Day) ([]AdjustmentEntry, error)
}

// EmployeeDirectory resolves employee profiles.
type EmployeeDirectory interface {
	SaveEmployee(ctx context.Context, p EmployeeProfile) error

	// Employee returns *EmployeeNotFoundError when the id is unknown.
	Employee(ctx context.Context, id EmployeeID) (*EmployeeProfile, error)

	Employees(ctx context.Context) ([]EmployeeProfile, error)
}

// PeriodStore drives the payroll period lifecycle.
type PeriodStore interface {
	// ClosePeriod transitions OPEN->CLOSED atomically. Closing a closed
	// period fails with ErrPeriodClosed.
	ClosePeriod(ctx context.Context, p MonthPeriod) error

	// ReopenPeriod inverts the transition. Reopening an open period
	// fails with ErrPeriodNotClosed.
	ReopenPeriod(ctx context.Context, p MonthPeriod) error

	IsPeriodClosed(ctx context.Context, p MonthPeriod) (bool, error)
}

// StatsSnapshotStore caches frozen MonthlyStats for closed periods. A
// reopen must invalidate the period's snapshots.
type StatsSnapshotStore interface {
	SaveStatsSnapshot(ctx context.Context, stats *MonthlyStats) error

	// StatsSnapshot returns ErrSnapshotNotFound when no frozen stats
	// exist.
	StatsSnapshot(ctx context.Context, id EmployeeID, p MonthPeriod) (*MonthlyStats, error)

	DeleteStatsSnapshots(ctx context.Context, p MonthPeriod) error
}

// Store aggregates every port. Both provided implementations satisfy it.
type Store interface {
	EventStore
	ScheduleStore
	ExceptionLedger
	HolidayCalendar
	AdjustmentLedger
	EmployeeDirectory
	PeriodStore
	StatsSnapshotStore
}
