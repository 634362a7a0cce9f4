/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes the attendance/payroll engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees                        List all employees
    POST   /api/employees                        Create employee
    GET    /api/employees/{id}                   Get employee details
    GET    /api/employees/{id}/stats?month=      Monthly attendance + pay
    GET    /api/employees/{id}/streak            Punctuality streak
    GET    /api/employees/{id}/punches?month=    Raw punch log
    POST   /api/employees/{id}/punches           Record a punch
    DELETE /api/employees/{id}/punches/{punchID} Admin correction
    GET    /api/employees/{id}/shifts?month=     Scheduled shifts
    GET    /api/employees/{id}/adjustments?month= Pay adjustments

  Exceptions:
    POST   /api/exceptions                       File leave/wfh/early-leave
    GET    /api/exceptions/pending               Approval queue
    POST   /api/exceptions/{id}/approve          Approve
    POST   /api/exceptions/{id}/reject           Reject

  Admin:
    POST   /api/admin/shifts                     Schedule a shift
    POST   /api/admin/holidays                   Register a holiday
    POST   /api/admin/adjustments                Append a pay adjustment
    POST   /api/admin/periods/close              Close a payroll month
    POST   /api/admin/periods/reopen             Reopen a payroll month

  Reports:
    GET    /api/reports/rankings?month=          TopLate / TopEarlyBird

  Scenarios:
    GET    /api/scenarios                        List demo scenarios
    POST   /api/scenarios/load                   Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown employee
  - 409: Conflict (open punch, finalized request, closed period)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/report"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  engine.Store
	Engine *engine.Engine

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler on the given store.
func NewHandler(store engine.Store, eng *engine.Engine) *Handler {
	return &Handler{Store: store, Engine: eng}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.Employees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.Employee(r.Context(), id)
	if err != nil {
		writeEngineError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	empType, err := engine.ParseEmploymentType(req.EmploymentType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid employment_type", err)
		return
	}

	profile := engine.EmployeeProfile{
		ID:   engine.EmployeeID(req.ID),
		Name: req.Name,

		Email: req.Email,
		Type:  empType,
	}
	if req.HourlyRate != "" {
		rate, err := decimal.NewFromString(req.HourlyRate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid hourly_rate", err)
			return
		}
		profile.HourlyRate = rate
	}
	if req.MonthlySalary != "" {
		salary, err := decimal.NewFromString(req.MonthlySalary)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid monthly_salary", err)
			return
		}
		profile.MonthlySalary = salary
	}
	if req.HireDate != "" {
		d, err := engine.ParseDay(req.HireDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
			return
		}
		profile.HireDate = d
	}

	if err := h.Store.SaveEmployee(r.Context(), profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(profile))
}

// =============================================================================
// PUNCH HANDLERS
// =============================================================================

// RecordPunch appends an IN or OUT punch for an employee.
func (h *Handler) RecordPunch(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))

	if _, err := h.Store.Employee(r.Context(), id); err != nil {
		writeEngineError(w, "Failed to get employee", err)
		return
	}

	var req PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	kind, err := engine.ParsePunchKind(req.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid punch kind", err)
		return
	}

	at := time.Now().UTC()
	if req.At != "" {
		at, err = time.Parse(time.RFC3339, req.At)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid at timestamp (use RFC3339)", err)
			return
		}
	}

	punch, err := h.Store.AppendPunch(r.Context(), engine.PunchEvent{
		EmployeeID: id,
		Kind:       kind,
		At:         at,
		Note:       req.Note,
		Origin:     engine.OriginCheckIn,
	})
	if err != nil {
		writeEngineError(w, "Failed to record punch", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPunchDTO(punch))
}

// ListPunches returns the raw punch log for a month.
func (h *Handler) ListPunches(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	period, ok := monthParam(w, r)
	if !ok {
		return
	}

	punches, err := h.Store.PunchesInRange(r.Context(), id, period.Start(), period.End())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list punches", err)
		return
	}

	dtos := make([]PunchDTO, len(punches))
	for i, p := range punches {
		dtos[i] = toPunchDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DeletePunch removes a punch as the first half of a delete-and-recreate
// admin correction.
func (h *Handler) DeletePunch(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	punchID := engine.PunchID(chi.URLParam(r, "punchID"))

	if err := h.Store.DeletePunch(r.Context(), id, punchID); err != nil {
		writeEngineError(w, "Failed to delete punch", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// STATS + STREAK HANDLERS
// =============================================================================

// GetMonthlyStats runs the full pipeline (or serves the frozen snapshot
// for a closed month).
func (h *Handler) GetMonthlyStats(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	period, ok := monthParam(w, r)
	if !ok {
		return
	}

	stats, err := h.Engine.MonthlyStats(r.Context(), id, period.Start())
	if err != nil {
		writeEngineError(w, "Failed to compute stats", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatsDTO(stats))
}

// GetStreak returns the consecutive qualifying-workday count ending today.
func (h *Handler) GetStreak(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))

	today := engine.Today()
	if v := r.URL.Query().Get("as_of"); v != "" {
		d, err := engine.ParseDay(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid as_of (use YYYY-MM-DD)", err)
			return
		}
		today = d
	}

	streak, err := h.Engine.Streak(r.Context(), id, today)
	if err != nil {
		writeEngineError(w, "Failed to compute streak", err)
		return
	}
	writeJSON(w, http.StatusOK, StreakDTO{
		EmployeeID: string(id),
		AsOf:       today.String(),
		Streak:     streak,
	})
}

// =============================================================================
// EXCEPTION HANDLERS
// =============================================================================

// CreateException files a leave/wfh/early-leave request (PENDING).
func (h *Handler) CreateException(w http.ResponseWriter, r *http.Request) {
	var req CreateExceptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	day, err := engine.ParseDay(req.Day)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day format (use YYYY-MM-DD)", err)
		return
	}
	switch engine.ExceptionKind(req.Kind) {
	case engine.ExceptionLeave, engine.ExceptionRemote, engine.ExceptionEarlyLeave:
	default:
		writeError(w, http.StatusBadRequest, "Invalid exception kind", nil)
		return
	}

	if _, err := h.Store.Employee(r.Context(), engine.EmployeeID(req.EmployeeID)); err != nil {
		writeEngineError(w, "Failed to get employee", err)
		return
	}

	ex, err := h.Store.CreateException(r.Context(), engine.ExceptionRequest{
		EmployeeID: engine.EmployeeID(req.EmployeeID),
		Day:        day,
		Kind:       engine.ExceptionKind(req.Kind),
		Reason:     req.Reason,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create exception", err)
		return
	}
	writeJSON(w, http.StatusCreated, toExceptionDTO(ex))
}

// ListPendingExceptions returns the approval queue.
func (h *Handler) ListPendingExceptions(w http.ResponseWriter, r *http.Request) {
	pending, err := h.Store.PendingExceptions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list pending exceptions", err)
		return
	}

	dtos := make([]ExceptionDTO, len(pending))
	for i, ex := range pending {
		dtos[i] = toExceptionDTO(ex)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ApproveException transitions PENDING -> APPROVED.
func (h *Handler) ApproveException(w http.ResponseWriter, r *http.Request) {
	h.resolveException(w, r, engine.StatusApproved)
}

// RejectException transitions PENDING -> REJECTED.
func (h *Handler) RejectException(w http.ResponseWriter, r *http.Request) {
	h.resolveException(w, r, engine.StatusRejected)
}

func (h *Handler) resolveException(w http.ResponseWriter, r *http.Request, status engine.ExceptionStatus) {
	id := engine.ExceptionID(chi.URLParam(r, "id"))

	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Actor == "" {
		writeError(w, http.StatusBadRequest, "actor is required", err)
		return
	}

	if err := h.Store.ResolveException(r.Context(), id, status, req.Actor); err != nil {
		writeEngineError(w, "Failed to resolve exception", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": string(id), "status": string(status)})
}

// =============================================================================
// SCHEDULE + HOLIDAY HANDLERS
// =============================================================================

// CreateShift schedules (or replaces) a shift for an employee-day.
func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req ShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	day, err := engine.ParseDay(req.Day)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day format (use YYYY-MM-DD)", err)
		return
	}
	start, err := engine.ParseClockTime(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start (use HH:MM)", err)
		return
	}
	end, err := engine.ParseClockTime(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end (use HH:MM)", err)
		return
	}

	shift := engine.ScheduledShift{
		EmployeeID: engine.EmployeeID(req.EmployeeID),
		Day:        day,
		Start:      start,
		End:        end,
		SwapOpen:   req.SwapOpen,
	}
	if err := h.Store.SaveShift(r.Context(), shift); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save shift", err)
		return
	}
	writeJSON(w, http.StatusCreated, ShiftDTO{
		EmployeeID: req.EmployeeID,
		Day:        day.String(),
		Start:      start.String(),
		End:        end.String(),
		SwapOpen:   req.SwapOpen,
	})
}

// ListShifts returns an employee's shifts for a month.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	period, ok := monthParam(w, r)
	if !ok {
		return
	}

	shifts, err := h.Store.ShiftsInRange(r.Context(), id, period.Start(), period.End())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}

	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = ShiftDTO{
			EmployeeID: string(s.EmployeeID),
			Day:        s.Day.String(),
			Start:      s.Start.String(),
			End:        s.End.String(),
			SwapOpen:   s.SwapOpen,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday registers a holiday pay rule.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	day, err := engine.ParseDay(req.Day)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day format (use YYYY-MM-DD)", err)
		return
	}
	if req.Multiplier <= 0 {
		writeError(w, http.StatusBadRequest, "multiplier must be positive", nil)
		return
	}

	rule := engine.HolidayRule{
		Day:        day,
		Name:       req.Name,
		Multiplier: decimal.NewFromFloat(req.Multiplier),
	}
	if err := h.Store.SaveHoliday(r.Context(), rule); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// =============================================================================
// ADJUSTMENT HANDLERS
// =============================================================================

// CreateAdjustment appends a signed bonus/penalty entry.
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req AdjustmentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	day, err := engine.ParseDay(req.Day)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid day format (use YYYY-MM-DD)", err)
		return
	}
	if _, err := h.Store.Employee(r.Context(), engine.EmployeeID(req.EmployeeID)); err != nil {
		writeEngineError(w, "Failed to get employee", err)
		return
	}

	entry, err := h.Store.AppendAdjustment(r.Context(), engine.AdjustmentEntry{
		EmployeeID: engine.EmployeeID(req.EmployeeID),
		Day:        day,
		Amount:     decimal.NewFromFloat(req.Amount),
		Reason:     req.Reason,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to append adjustment", err)
		return
	}
	writeJSON(w, http.StatusCreated, AdjustmentDTO{
		ID:         string(entry.ID),
		EmployeeID: string(entry.EmployeeID),
		Day:        entry.Day.String(),
		Amount:     entry.Amount.String(),
		Reason:     entry.Reason,
	})
}

// ListAdjustments returns an employee's adjustments for a month.
func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	id := engine.EmployeeID(chi.URLParam(r, "id"))
	period, ok := monthParam(w, r)
	if !ok {
		return
	}

	entries, err := h.Store.AdjustmentsInRange(r.Context(), id, period.Start(), period.End())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list adjustments", err)
		return
	}

	dtos := make([]AdjustmentDTO, len(entries))
	for i, a := range entries {
		dtos[i] = AdjustmentDTO{
			ID:         string(a.ID),
			EmployeeID: string(a.EmployeeID),
			Day:        a.Day.String(),
			Amount:     a.Amount.String(),
			Reason:     a.Reason,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PERIOD LIFECYCLE HANDLERS
// =============================================================================

// ClosePeriod freezes every employee's stats and flips the month CLOSED.
func (h *Handler) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	period, ok := periodBody(w, r)
	if !ok {
		return
	}
	if err := h.Engine.ClosePeriod(r.Context(), period); err != nil {
		writeEngineError(w, "Failed to close period", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"month": period.String(), "status": "closed"})
}

// ReopenPeriod inverts a close and invalidates the frozen snapshots.
func (h *Handler) ReopenPeriod(w http.ResponseWriter, r *http.Request) {
	period, ok := periodBody(w, r)
	if !ok {
		return
	}
	if err := h.Engine.ReopenPeriod(r.Context(), period); err != nil {
		writeEngineError(w, "Failed to reopen period", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"month": period.String(), "status": "open"})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetRankings returns the TopLate / TopEarlyBird leaderboards.
func (h *Handler) GetRankings(w http.ResponseWriter, r *http.Request) {
	period, ok := monthParam(w, r)
	if !ok {
		return
	}

	rep, err := report.Build(r.Context(), h.Engine, period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build rankings", err)
		return
	}
	writeJSON(w, http.StatusOK, toRankingsDTO(rep))
}

// =============================================================================
// HELPERS
// =============================================================================

// monthParam reads the ?month=YYYY-MM query parameter, defaulting to the
// current month.
func monthParam(w http.ResponseWriter, r *http.Request) (engine.MonthPeriod, bool) {
	v := r.URL.Query().Get("month")
	if v == "" {
		return engine.PeriodOf(engine.Today()), true
	}
	period, err := engine.ParseMonthPeriod(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return engine.MonthPeriod{}, false
	}
	return period, true
}

func periodBody(w http.ResponseWriter, r *http.Request) (engine.MonthPeriod, bool) {
	var req PeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return engine.MonthPeriod{}, false
	}
	period, err := engine.ParseMonthPeriod(req.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return engine.MonthPeriod{}, false
	}
	return period, true
}

// writeEngineError maps domain errors onto HTTP statuses.
func writeEngineError(w http.ResponseWriter, message string, err error) {
	switch {
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, engine.ErrOpenPunchExists),
		errors.Is(err, engine.ErrNoOpenPunch),
		errors.Is(err, engine.ErrRequestFinalized),
		errors.Is(err, engine.ErrPeriodClosed),
		errors.Is(err, engine.ErrPeriodNotClosed):
		writeError(w, http.StatusConflict, message, err)
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
