/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Salary amounts cross the wire as strings to preserve decimal precision.
  Hours and minutes are plain numbers.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/types.go: Domain model these map from
*/
package api

import (
	"time"

	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/report"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	EmploymentType string `json:"employment_type"`
	HourlyRate     string `json:"hourly_rate"`
	MonthlySalary  string `json:"monthly_salary"`
	HireDate       string `json:"hire_date,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	EmploymentType string `json:"employment_type"`
	HourlyRate     string `json:"hourly_rate,omitempty"`
	MonthlySalary  string `json:"monthly_salary,omitempty"`
	HireDate       string `json:"hire_date,omitempty"`
}

// PunchRequest is the request body for recording a punch.
type PunchRequest struct {
	Kind string `json:"kind"` // "in" or "out"
	At   string `json:"at,omitempty"`
	Note string `json:"note,omitempty"`
}

// PunchDTO represents a punch event.
type PunchDTO struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	At     string `json:"at"`
	Note   string `json:"note,omitempty"`
	Origin string `json:"origin"`
}

// ShiftRequest is the request to schedule a shift.
type ShiftRequest struct {
	EmployeeID string `json:"employee_id"`
	Day        string `json:"day"`
	Start      string `json:"start"` // "HH:MM"
	End        string `json:"end"`
	SwapOpen   bool   `json:"swap_open,omitempty"`
}

// ShiftDTO represents a scheduled shift.
type ShiftDTO struct {
	EmployeeID string `json:"employee_id"`
	Day        string `json:"day"`
	Start      string `json:"start"`
	End        string `json:"end"`
	SwapOpen   bool   `json:"swap_open"`
}

// CreateExceptionRequest is the request to file an exception.
type CreateExceptionRequest struct {
	EmployeeID string `json:"employee_id"`
	Day        string `json:"day"`
	Kind       string `json:"kind"` // "leave", "wfh", "early_leave"
	Reason     string `json:"reason,omitempty"`
}

// ExceptionDTO represents an exception request.
type ExceptionDTO struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Day        string  `json:"day"`
	Kind       string  `json:"kind"`
	Status     string  `json:"status"`
	Reason     string  `json:"reason,omitempty"`
	ResolvedBy *string `json:"resolved_by,omitempty"`
}

// ResolveRequest carries the approver identity.
type ResolveRequest struct {
	Actor string `json:"actor"`
}

// HolidayRequest is the request to register a holiday.
type HolidayRequest struct {
	Day        string  `json:"day"`
	Name       string  `json:"name,omitempty"`
	Multiplier float64 `json:"multiplier"`
}

// AdjustmentRequestDTO is the request to append a pay adjustment.
type AdjustmentRequestDTO struct {
	EmployeeID string  `json:"employee_id"`
	Day        string  `json:"day"`
	Amount     float64 `json:"amount"`
	Reason     string  `json:"reason"`
}

// AdjustmentDTO represents a ledger adjustment.
type AdjustmentDTO struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Day        string `json:"day"`
	Amount     string `json:"amount"`
	Reason     string `json:"reason,omitempty"`
}

// PeriodRequest names a payroll month.
type PeriodRequest struct {
	Month string `json:"month"` // "2006-01"
}

// DailyRecordDTO is one reconciled day in a stats response.
type DailyRecordDTO struct {
	Day         string   `json:"day"`
	FirstIn     string   `json:"first_in,omitempty"`
	LastOut     string   `json:"last_out,omitempty"`
	BilledHours float64  `json:"billed_hours"`
	Multiplier  float64  `json:"multiplier"`
	Salary      string   `json:"salary"`
	IsValid     bool     `json:"is_valid"`
	IsLate      bool     `json:"is_late"`
	IsEarlyOut  bool     `json:"is_early_out"`
	LateMinutes int      `json:"late_minutes"`
	Tags        []string `json:"tags,omitempty"`
}

// MonthlyStatsDTO is the full monthly aggregate for one employee.
type MonthlyStatsDTO struct {
	EmployeeID       string           `json:"employee_id"`
	Month            string           `json:"month"`
	TotalHours       float64          `json:"total_hours"`
	DaysWorked       int              `json:"days_worked"`
	LeaveDays        int              `json:"leave_days"`
	LateCount        int              `json:"late_count"`
	TotalLateMinutes int              `json:"total_late_minutes"`
	EarlyLeaveCount  int              `json:"early_leave_count"`
	BaseSalary       string           `json:"base_salary"`
	TotalAdjustments string           `json:"total_adjustments"`
	TotalSalary      string           `json:"total_salary"`
	ProjectedSalary  string           `json:"projected_salary"`
	Daily            []DailyRecordDTO `json:"daily"`
}

// StreakDTO is the punctuality streak response.
type StreakDTO struct {
	EmployeeID string `json:"employee_id"`
	AsOf       string `json:"as_of"`
	Streak     int    `json:"streak"`
}

// StandingDTO is one row in a ranking.
type StandingDTO struct {
	EmployeeID       string `json:"employee_id"`
	Name             string `json:"name"`
	LateCount        int    `json:"late_count,omitempty"`
	TotalLateMinutes int    `json:"total_late_minutes,omitempty"`
	EarlyLeaveCount  int    `json:"early_leave_count,omitempty"`
	EarliestIn       string `json:"earliest_in,omitempty"`
}

// RankingsDTO carries both leaderboards for a month.
type RankingsDTO struct {
	Month        string        `json:"month"`
	TopLate      []StandingDTO `json:"top_late"`
	TopEarlyBird []StandingDTO `json:"top_early_bird"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(p engine.EmployeeProfile) EmployeeDTO {
	dto := EmployeeDTO{
		ID:             string(p.ID),
		Name:           p.Name,
		Email:          p.Email,
		EmploymentType: string(p.Type),
		HourlyRate:     p.HourlyRate.String(),
		MonthlySalary:  p.MonthlySalary.String(),
	}
	if !p.HireDate.IsZero() {
		dto.HireDate = p.HireDate.String()
	}
	return dto
}

func toPunchDTO(p engine.PunchEvent) PunchDTO {
	return PunchDTO{
		ID:     string(p.ID),
		Kind:   string(p.Kind),
		At:     p.At.Format(time.RFC3339),
		Note:   p.Note,
		Origin: string(p.Origin),
	}
}

func toExceptionDTO(ex engine.ExceptionRequest) ExceptionDTO {
	return ExceptionDTO{
		ID:         string(ex.ID),
		EmployeeID: string(ex.EmployeeID),
		Day:        ex.Day.String(),
		Kind:       string(ex.Kind),
		Status:     string(ex.Status),
		Reason:     ex.Reason,
		ResolvedBy: ex.ResolvedBy,
	}
}

func toStatsDTO(stats *engine.MonthlyStats) MonthlyStatsDTO {
	daily := make([]DailyRecordDTO, len(stats.Daily))
	for i, d := range stats.Daily {
		rec := DailyRecordDTO{
			Day:         d.Day.String(),
			BilledHours: d.BilledHours.InexactFloat64(),
			Multiplier:  d.Multiplier.InexactFloat64(),
			Salary:      d.Salary.String(),
			IsValid:     d.IsValid,
			IsLate:      d.IsLate,
			IsEarlyOut:  d.IsEarlyOut,
			LateMinutes: d.LateMinutes,
		}
		if !d.FirstIn.IsZero() {
			rec.FirstIn = d.FirstIn.Format(time.RFC3339)
		}
		if !d.LastOut.IsZero() {
			rec.LastOut = d.LastOut.Format(time.RFC3339)
		}
		for _, t := range d.Tags {
			rec.Tags = append(rec.Tags, string(t))
		}
		daily[i] = rec
	}

	return MonthlyStatsDTO{
		EmployeeID:       string(stats.EmployeeID),
		Month:            stats.Period.String(),
		TotalHours:       stats.TotalHours.InexactFloat64(),
		DaysWorked:       stats.DaysWorked,
		LeaveDays:        stats.LeaveDays,
		LateCount:        stats.LateCount,
		TotalLateMinutes: stats.TotalLateMinutes,
		EarlyLeaveCount:  stats.EarlyLeaveCount,
		BaseSalary:       stats.BaseSalary.String(),
		TotalAdjustments: stats.TotalAdjustments.String(),
		TotalSalary:      stats.TotalSalary.String(),
		ProjectedSalary:  stats.ProjectedSalary.String(),
		Daily:            daily,
	}
}

func toRankingsDTO(r *report.PeriodReport) RankingsDTO {
	dto := RankingsDTO{Month: r.Period.String()}
	for _, s := range r.TopLate {
		dto.TopLate = append(dto.TopLate, StandingDTO{
			EmployeeID:       string(s.EmployeeID),
			Name:             s.Name,
			LateCount:        s.LateCount,
			TotalLateMinutes: s.TotalLateMinutes,
			EarlyLeaveCount:  s.EarlyLeaveCount,
		})
	}
	for _, s := range r.TopEarlyBird {
		dto.TopEarlyBird = append(dto.TopEarlyBird, StandingDTO{
			EmployeeID: string(s.EmployeeID),
			Name:       s.Name,
			EarliestIn: s.EarliestIn.String(),
		})
	}
	return dto
}
