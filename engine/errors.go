/*
errors.go - Centralized error types and day annotations

PURPOSE:
  All engine error types in one place. Two distinct channels exist:

  1. Go errors - structural failures that abort a computation entirely
     (unknown employee, invalid period, closed-period conflicts).
  2. Day tags - per-day data problems and policy warnings recorded as
     annotations on the derived DailyRecord. These never abort the
     monthly computation and are never silently dropped.

SEE ALSO:
  - session.go: emits the data-error tags
  - reconcile.go: emits the policy-warning tags
  - ports.go: store implementations return the sentinel errors
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound aborts the whole computation; no partial
	// result is returned for an unknown employee.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrInvalidPeriod is returned for a malformed reporting range.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrOpenPunchExists is returned when appending an IN while the
	// employee's last event is an unmatched IN. Appends are serialized
	// per employee at the store boundary.
	ErrOpenPunchExists = errors.New("check-in already open")

	// ErrNoOpenPunch is returned when appending an OUT with no open IN.
	ErrNoOpenPunch = errors.New("no open check-in")

	// ErrRequestFinalized is returned when resolving an exception that
	// already reached a different terminal status. Re-resolving with the
	// same status is a no-op, so approvals are idempotent.
	ErrRequestFinalized = errors.New("exception request already finalized")

	// ErrPeriodClosed is returned when writing into a closed payroll period.
	ErrPeriodClosed = errors.New("payroll period is closed")

	// ErrPeriodNotClosed is returned when reopening a period that is open.
	ErrPeriodNotClosed = errors.New("payroll period is not closed")

	// ErrPunchNotFound is returned by delete-and-recreate corrections.
	ErrPunchNotFound = errors.New("punch not found")

	// ErrSnapshotNotFound is returned when no frozen stats exist for a
	// closed period.
	ErrSnapshotNotFound = errors.New("stats snapshot not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

type EmployeeNotFoundError struct {
	ID EmployeeID
}

func (e *EmployeeNotFoundError) Error() string {
	return fmt.Sprintf("employee not found: %s", e.ID)
}

func (e *EmployeeNotFoundError) Unwrap() error { return ErrEmployeeNotFound }

type PeriodClosedError struct {
	Period MonthPeriod
}

func (e *PeriodClosedError) Error() string {
	return fmt.Sprintf("payroll period %s is closed", e.Period)
}

func (e *PeriodClosedError) Unwrap() error { return ErrPeriodClosed }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrPunchNotFound) ||
		errors.Is(err, ErrSnapshotNotFound)
}

// IsClientError returns true if the error is due to invalid client input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrOpenPunchExists) ||
		errors.Is(err, ErrNoOpenPunch) ||
		errors.Is(err, ErrRequestFinalized) ||
		errors.Is(err, ErrPeriodClosed) ||
		errors.Is(err, ErrPeriodNotClosed) ||
		errors.Is(err, ErrInvalidPeriod)
}

// =============================================================================
// DAY TAGS - Per-day annotations (data errors and policy warnings)
// =============================================================================

type DayTag string

const (
	// Data errors: the day is invalid and contributes zero hours.
	TagMissingCheckIn  DayTag = "missing check-in"
	TagMissingCheckOut DayTag = "missing check-out"

	// Policy warning: billed with actual-out until the exception resolves.
	TagEarlyLeavePending DayTag = "early leave pending approval"

	// Informational: full shift credited despite an early actual-out.
	TagEarlyLeaveApproved DayTag = "early leave approved"

	// Remote-work markers from the exception injector.
	TagRemoteWork        DayTag = "remote work"
	TagRemoteWorkCheckIn DayTag = "remote work + check-in"
)

// IsDataError reports whether the tag zeroes the day.
func (t DayTag) IsDataError() bool {
	return t == TagMissingCheckIn || t == TagMissingCheckOut
}

// appendTag adds a tag unless it is already present. Every detected
// problem is kept; detection order is preserved.
func appendTag(tags []DayTag, tag DayTag) []DayTag {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}
