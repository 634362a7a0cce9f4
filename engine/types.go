/*
Package engine provides the core attendance and payroll computation engine.

PURPOSE:
  This package contains the domain types and algorithms that turn raw
  punch-clock events into billed work sessions, reconcile them against
  scheduled shifts and approval-gated exceptions, and derive daily and
  monthly pay figures plus secondary indicators (lateness, streaks).

KEY CONCEPTS IN THIS FILE (types.go):
  - PunchEvent: A single immutable IN/OUT clock action
  - ScheduledShift: The planned work interval for an employee and date
  - ExceptionRequest: An approval-gated override (leave, remote, early-out)
  - AdjustmentEntry: A signed ledger entry written by external features
  - DailyRecord / MonthlyStats: Derived outputs, recomputed on every query

DESIGN PRINCIPLES:
  1. Purity: The engine is a synchronous transformation over a snapshot
     of inputs; it holds no shared mutable state between invocations.
  2. Precision: Uses decimal.Decimal for hours and money - floating point
     never touches pay.
  3. Type Safety: Tagged variants for punch kinds, exception kinds and
     statuses, validated at the input boundary.
  4. Derivation: Nothing is incrementally mutated; statistics are always
     rebuilt from source records, which makes recomputation idempotent.

SEE ALSO:
  - session.go: Pairing punches into sessions
  - reconcile.go: Clamping sessions against shifts
  - salary.go: Employment-type-specific pay formulas
  - ports.go: Collaborator interfaces (event store, ledgers, calendar)
*/
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type PunchID string
type ExceptionID string
type AdjustmentID string

// =============================================================================
// PUNCH EVENT - A single timestamped IN or OUT clock action
// =============================================================================

type PunchKind string

const (
	PunchIn  PunchKind = "in"
	PunchOut PunchKind = "out"
)

// ParsePunchKind validates a punch kind at the input boundary.
func ParsePunchKind(s string) (PunchKind, error) {
	switch PunchKind(s) {
	case PunchIn, PunchOut:
		return PunchKind(s), nil
	}
	return "", fmt.Errorf("invalid punch kind %q", s)
}

// OriginTag records who produced a punch. Admin corrections never mutate
// a punch in place; they delete and recreate with OriginManual.
type OriginTag string

const (
	OriginCheckIn OriginTag = "checkin"
	OriginManual  OriginTag = "manual"
)

// PunchEvent is immutable once created.
type PunchEvent struct {
	ID         PunchID
	EmployeeID EmployeeID
	Kind       PunchKind
	At         time.Time
	Note       string
	Origin     OriginTag
}

func (p PunchEvent) Day() Day { return DayOf(p.At) }

// =============================================================================
// SCHEDULED SHIFT - Planned work interval for an employee and date
// =============================================================================

// ScheduledShift is created at registration. At most one shift is relevant
// per employee per day for billing purposes.
type ScheduledShift struct {
	EmployeeID EmployeeID
	Day        Day
	Start      ClockTime
	End        ClockTime
	SwapOpen   bool
}

// Minutes returns the planned shift length.
func (s ScheduledShift) Minutes() int { return s.End.MinuteOfDay() - s.Start.MinuteOfDay() }

// =============================================================================
// EXCEPTION REQUEST - Approval-gated billing override
// =============================================================================

type ExceptionKind string

const (
	ExceptionLeave      ExceptionKind = "leave"
	ExceptionRemote     ExceptionKind = "wfh"
	ExceptionEarlyLeave ExceptionKind = "early_leave"
)

func ParseExceptionKind(s string) (ExceptionKind, error) {
	switch ExceptionKind(s) {
	case ExceptionLeave, ExceptionRemote, ExceptionEarlyLeave:
		return ExceptionKind(s), nil
	}
	return "", fmt.Errorf("invalid exception kind %q", s)
}

type ExceptionStatus string

const (
	StatusPending  ExceptionStatus = "pending"
	StatusApproved ExceptionStatus = "approved"
	StatusRejected ExceptionStatus = "rejected"
)

func ParseExceptionStatus(s string) (ExceptionStatus, error) {
	switch ExceptionStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return ExceptionStatus(s), nil
	}
	return "", fmt.Errorf("invalid exception status %q", s)
}

// Terminal reports whether the status can no longer transition.
// PENDING moves to APPROVED or REJECTED exactly once.
func (s ExceptionStatus) Terminal() bool { return s == StatusApproved || s == StatusRejected }

type ExceptionRequest struct {
	ID         ExceptionID
	EmployeeID EmployeeID
	Day        Day
	Kind       ExceptionKind
	Status     ExceptionStatus
	Reason     string

	ResolvedBy *string
	ResolvedAt *time.Time
	CreatedAt  time.Time
}

// =============================================================================
// HOLIDAY RULE - Per-date pay multiplier
// =============================================================================

type HolidayRule struct {
	Day        Day
	Name       string
	Multiplier decimal.Decimal
}

// DefaultMultiplier is applied when no rule covers a date. A missing
// holiday rule is a configuration gap, never an error.
func DefaultMultiplier() decimal.Decimal { return decimal.NewFromInt(1) }

// =============================================================================
// ADJUSTMENT ENTRY - Signed bonus/penalty written by external features
// =============================================================================

// AdjustmentEntry is append-only. The engine only reads the adjustment
// ledger; lucky-wheel payouts, birthday bonuses and review payouts are
// written by external collaborators.
type AdjustmentEntry struct {
	ID         AdjustmentID
	EmployeeID EmployeeID
	Day        Day
	Amount     decimal.Decimal
	Reason     string
}

// =============================================================================
// EMPLOYEE PROFILE - Employment mode and rates
// =============================================================================

type EmploymentType string

const (
	// Hourly pay: every billed hour is paid at HourlyRate times the
	// day's holiday multiplier.
	Hourly EmploymentType = "hourly"

	// ProratedMonthly pay: a fixed MonthlySalary prorated over standard
	// workdays, with billed hours capped at a full day.
	ProratedMonthly EmploymentType = "prorated_monthly"
)

func ParseEmploymentType(s string) (EmploymentType, error) {
	switch EmploymentType(s) {
	case Hourly, ProratedMonthly:
		return EmploymentType(s), nil
	}
	return "", fmt.Errorf("invalid employment type %q", s)
}

type EmployeeProfile struct {
	ID            EmployeeID
	Name          string
	Email         string
	Type          EmploymentType
	HourlyRate    decimal.Decimal
	MonthlySalary decimal.Decimal
	HireDate      Day
}

// =============================================================================
// DERIVED OUTPUTS - Never persisted, recomputed on every query
// =============================================================================

// DailyRecord is the per-day outcome of the full pipeline.
type DailyRecord struct {
	Day     Day
	FirstIn time.Time // zero when the day has no matched IN
	LastOut time.Time // zero when the day has no matched OUT

	BilledHours decimal.Decimal
	Multiplier  decimal.Decimal
	Salary      decimal.Decimal

	IsValid     bool // false when a data error zeroes the day
	IsLate      bool
	IsEarlyOut  bool
	LateMinutes int

	// Tags carries every annotation detected for the day, in detection
	// order. Data errors, pending-approval warnings, and remote-work
	// markers all land here; nothing is silently dropped.
	Tags []DayTag
}

// Reason returns the explanatory string shown instead of an hours figure
// for invalid days. A repaired day keeps its data-error tags for the
// audit trail but no longer reports a reason.
func (r DailyRecord) Reason() string {
	if r.IsValid {
		return ""
	}
	for _, t := range r.Tags {
		if t == TagMissingCheckIn || t == TagMissingCheckOut {
			return string(t)
		}
	}
	return ""
}

// MonthlyStats aggregates a full payroll month for one employee.
type MonthlyStats struct {
	EmployeeID EmployeeID
	Period     MonthPeriod

	TotalHours decimal.Decimal
	DaysWorked int // distinct dates with credited activity, incl. remote days
	LeaveDays  int // approved LEAVE days (drives proration deduction only)

	LateCount        int
	TotalLateMinutes int
	EarlyLeaveCount  int

	// BaseSalary is the audit figure: the sum of per-day salaries.
	BaseSalary decimal.Decimal

	TotalAdjustments decimal.Decimal

	// TotalSalary = BaseSalary + TotalAdjustments.
	TotalSalary decimal.Decimal

	// ProjectedSalary is the forecast figure. For prorated-monthly
	// employees it is MonthlySalary - leave deduction + adjustments and
	// may legitimately diverge from TotalSalary; both are exposed. For
	// hourly employees there is no contract figure to forecast from, so
	// it equals TotalSalary.
	ProjectedSalary decimal.Decimal

	// Daily details, sorted newest-first.
	Daily []DailyRecord
}
