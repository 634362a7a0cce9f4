/*
Package sqlite provides a SQLite-backed implementation of the engine
storage ports.

PURPOSE:
  Implements every collaborator port (event store, schedule store,
  exception ledger, holiday calendar, adjustment ledger, employee
  directory, period lifecycle, stats snapshots) using SQLite. In
  production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

EVENT STORE CONTRACT:
  Punch appends are serialized under the store lock:
  - an IN while the last event is an unmatched IN is rejected
  - an OUT with no open IN is rejected
  Punches are never UPDATEd; admin corrections DELETE and re-INSERT.

PERIOD LIFECYCLE:
  payroll_periods is keyed UNIQUE(year, month), so OPEN->CLOSED is an
  atomic single-row transition and a concurrent reader never observes a
  half-written close. Reopening removes the row; the engine invalidates
  the frozen snapshots alongside.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, one writer at a time.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  eng := engine.New(store, engine.DefaultPolicy())

SEE ALSO:
  - engine/ports.go: Port definitions and contracts
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/engine"
)

// Store implements every engine storage port using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ engine.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Employees
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		employment_type TEXT NOT NULL,
		hourly_rate TEXT NOT NULL DEFAULT '0',
		monthly_salary TEXT NOT NULL DEFAULT '0',
		hire_date TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	-- Punch events (immutable; corrections delete and recreate)
	CREATE TABLE IF NOT EXISTS punches (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		at TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		origin TEXT NOT NULL DEFAULT 'checkin'
	);
	CREATE INDEX IF NOT EXISTS idx_punches_employee_at ON punches(employee_id, at);

	-- Scheduled shifts: one relevant shift per employee per day
	CREATE TABLE IF NOT EXISTS shifts (
		employee_id TEXT NOT NULL,
		day TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		swap_open INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (employee_id, day)
	);

	-- Exception requests (leave / wfh / early_leave)
	CREATE TABLE IF NOT EXISTS exceptions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		day TEXT NOT NULL,
		kind TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		resolved_by TEXT,
		resolved_at TEXT,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	CREATE INDEX IF NOT EXISTS idx_exceptions_employee_day ON exceptions(employee_id, day);
	CREATE INDEX IF NOT EXISTS idx_exceptions_status ON exceptions(status);

	-- Holiday calendar
	CREATE TABLE IF NOT EXISTS holidays (
		day TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		multiplier TEXT NOT NULL
	);

	-- Adjustment ledger (append-only; written by external features)
	CREATE TABLE IF NOT EXISTS adjustments (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		day TEXT NOT NULL,
		amount TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_adjustments_employee_day ON adjustments(employee_id, day);

	-- Payroll period lifecycle, unique (year, month)
	CREATE TABLE IF NOT EXISTS payroll_periods (
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		status TEXT NOT NULL,
		closed_at TEXT,
		PRIMARY KEY (year, month)
	);

	-- Frozen monthly stats for closed periods
	CREATE TABLE IF NOT EXISTS stats_snapshots (
		employee_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		payload TEXT NOT NULL,
		taken_at TEXT NOT NULL DEFAULT (datetime('now')),
		PRIMARY KEY (employee_id, year, month)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// timeLayout is fixed-width so SQLite's byte-wise TEXT comparison agrees
// with chronological order. RFC3339Nano trims trailing fractional zeros
// and does not sort.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// =============================================================================
// EVENT STORE
// =============================================================================

func (s *Store) AppendPunch(ctx context.Context, p engine.PunchEvent) (engine.PunchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, err := s.lastPunchLocked(ctx, p.EmployeeID)
	if err != nil {
		return engine.PunchEvent{}, err
	}
	switch p.Kind {
	case engine.PunchIn:
		if last != nil && last.Kind == engine.PunchIn {
			return engine.PunchEvent{}, engine.ErrOpenPunchExists
		}
	case engine.PunchOut:
		if last == nil || last.Kind == engine.PunchOut {
			return engine.PunchEvent{}, engine.ErrNoOpenPunch
		}
	default:
		return engine.PunchEvent{}, fmt.Errorf("invalid punch kind %q", p.Kind)
	}

	if p.ID == "" {
		p.ID = engine.PunchID(ulid.Make().String())
	}
	if p.Origin == "" {
		p.Origin = engine.OriginCheckIn
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO punches (id, employee_id, kind, at, note, origin)
		VALUES (?, ?, ?, ?, ?, ?)`,
		string(p.ID), string(p.EmployeeID), string(p.Kind),
		p.At.UTC().Format(timeLayout), p.Note, string(p.Origin))
	if err != nil {
		return engine.PunchEvent{}, fmt.Errorf("inserting punch: %w", err)
	}
	return p, nil
}

func (s *Store) DeletePunch(ctx context.Context, employeeID engine.EmployeeID, id engine.PunchID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM punches WHERE id = ? AND employee_id = ?`,
		string(id), string(employeeID))
	if err != nil {
		return fmt.Errorf("deleting punch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return engine.ErrPunchNotFound
	}
	return nil
}

func (s *Store) PunchesInRange(ctx context.Context, employeeID engine.EmployeeID, from, to engine.Day) ([]engine.PunchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, kind, at, note, origin
		FROM punches
		WHERE employee_id = ? AND at >= ? AND at < ?
		ORDER BY at`,
		string(employeeID),
		from.Time.UTC().Format(timeLayout),
		to.AddDays(1).Time.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("querying punches: %w", err)
	}
	defer rows.Close()

	var result []engine.PunchEvent
	for rows.Next() {
		p, err := scanPunch(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (s *Store) LastPunch(ctx context.Context, employeeID engine.EmployeeID) (*engine.PunchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPunchLocked(ctx, employeeID)
}

func (s *Store) lastPunchLocked(ctx context.Context, employeeID engine.EmployeeID) (*engine.PunchEvent, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, kind, at, note, origin
		FROM punches
		WHERE employee_id = ?
		ORDER BY at DESC
		LIMIT 1`,
		string(employeeID))

	p, err := scanPunch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPunch(r rowScanner) (engine.PunchEvent, error) {
	var p engine.PunchEvent
	var id, employeeID, kind, at, origin string
	if err := r.Scan(&id, &employeeID, &kind, &at, &p.Note, &origin); err != nil {
		return engine.PunchEvent{}, err
	}
	t, err := time.Parse(timeLayout, at)
	if err != nil {
		return engine.PunchEvent{}, fmt.Errorf("parsing punch time: %w", err)
	}
	p.ID = engine.PunchID(id)
	p.EmployeeID = engine.EmployeeID(employeeID)
	p.Kind = engine.PunchKind(kind)
	p.At = t
	p.Origin = engine.OriginTag(origin)
	return p, nil
}

// =============================================================================
// SCHEDULE STORE
// =============================================================================

func (s *Store) SaveShift(ctx context.Context, shift engine.ScheduledShift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shifts (employee_id, day, start_time, end_time, swap_open)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, day) DO UPDATE SET
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			swap_open = excluded.swap_open`,
		string(shift.EmployeeID), shift.Day.String(),
		shift.Start.String(), shift.End.String(), boolToInt(shift.SwapOpen))
	if err != nil {
		return fmt.Errorf("saving shift: %w", err)
	}
	return nil
}

func (s *Store) ShiftsInRange(ctx context.Context, employeeID engine.EmployeeID, from, to engine.Day) ([]engine.ScheduledShift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_id, day, start_time, end_time, swap_open
		FROM shifts
		WHERE employee_id = ? AND day >= ? AND day <= ?
		ORDER BY day`,
		string(employeeID), from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("querying shifts: %w", err)
	}
	defer rows.Close()

	var result []engine.ScheduledShift
	for rows.Next() {
		var empID, day, start, end string
		var swapOpen int
		if err := rows.Scan(&empID, &day, &start, &end, &swapOpen); err != nil {
			return nil, err
		}
		d, err := engine.ParseDay(day)
		if err != nil {
			return nil, err
		}
		startCT, err := engine.ParseClockTime(start)
		if err != nil {
			return nil, err
		}
		endCT, err := engine.ParseClockTime(end)
		if err != nil {
			return nil, err
		}
		result = append(result, engine.ScheduledShift{
			EmployeeID: engine.EmployeeID(empID),
			Day:        d,
			Start:      startCT,
			End:        endCT,
			SwapOpen:   swapOpen != 0,
		})
	}
	return result, rows.Err()
}

// =============================================================================
// EXCEPTION LEDGER
// =============================================================================

func (s *Store) CreateException(ctx context.Context, ex engine.ExceptionRequest) (engine.ExceptionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ex.ID == "" {
		ex.ID = engine.ExceptionID(ulid.Make().String())
	}
	if ex.Status == "" {
		ex.Status = engine.StatusPending
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exceptions (id, employee_id, day, kind, status, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(ex.ID), string(ex.EmployeeID), ex.Day.String(),
		string(ex.Kind), string(ex.Status), ex.Reason,
		ex.CreatedAt.Format(timeLayout))
	if err != nil {
		return engine.ExceptionRequest{}, fmt.Errorf("inserting exception: %w", err)
	}
	return ex, nil
}

func (s *Store) ResolveException(ctx context.Context, id engine.ExceptionID, status engine.ExceptionStatus, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current string
	err := s.db.QueryRowContext(ctx,
		`SELECT status FROM exceptions WHERE id = ?`, string(id)).Scan(&current)
	if err == sql.ErrNoRows {
		return engine.ErrRequestFinalized
	}
	if err != nil {
		return fmt.Errorf("loading exception: %w", err)
	}

	if engine.ExceptionStatus(current).Terminal() {
		if engine.ExceptionStatus(current) == status {
			return nil // idempotent re-resolution
		}
		return engine.ErrRequestFinalized
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE exceptions
		SET status = ?, resolved_by = ?, resolved_at = ?
		WHERE id = ? AND status = ?`,
		string(status), actor, time.Now().UTC().Format(timeLayout),
		string(id), string(engine.StatusPending))
	if err != nil {
		return fmt.Errorf("resolving exception: %w", err)
	}
	return nil
}

func (s *Store) ExceptionsInRange(ctx context.Context, employeeID engine.EmployeeID, from, to engine.Day) ([]engine.ExceptionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, day, kind, status, reason, resolved_by, resolved_at
		FROM exceptions
		WHERE employee_id = ? AND day >= ? AND day <= ?
		ORDER BY day`,
		string(employeeID), from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("querying exceptions: %w", err)
	}
	defer rows.Close()
	return scanExceptions(rows)
}

func (s *Store) PendingExceptions(ctx context.Context) ([]engine.ExceptionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, day, kind, status, reason, resolved_by, resolved_at
		FROM exceptions
		WHERE status = ?
		ORDER BY day`,
		string(engine.StatusPending))
	if err != nil {
		return nil, fmt.Errorf("querying pending exceptions: %w", err)
	}
	defer rows.Close()
	return scanExceptions(rows)
}

func scanExceptions(rows *sql.Rows) ([]engine.ExceptionRequest, error) {
	var result []engine.ExceptionRequest
	for rows.Next() {
		var ex engine.ExceptionRequest
		var id, empID, day, kind, status string
		var resolvedBy, resolvedAt sql.NullString
		if err := rows.Scan(&id, &empID, &day, &kind, &status, &ex.Reason, &resolvedBy, &resolvedAt); err != nil {
			return nil, err
		}
		d, err := engine.ParseDay(day)
		if err != nil {
			return nil, err
		}
		ex.ID = engine.ExceptionID(id)
		ex.EmployeeID = engine.EmployeeID(empID)
		ex.Day = d
		ex.Kind = engine.ExceptionKind(kind)
		ex.Status = engine.ExceptionStatus(status)
		if resolvedBy.Valid {
			v := resolvedBy.String
			ex.ResolvedBy = &v
		}
		if resolvedAt.Valid {
			if t, err := time.Parse(timeLayout, resolvedAt.String); err == nil {
				ex.ResolvedAt = &t
			}
		}
		result = append(result, ex)
	}
	return result, rows.Err()
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

func (s *Store) SaveHoliday(ctx context.Context, h engine.HolidayRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holidays (day, name, multiplier)
		VALUES (?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			name = excluded.name,
			multiplier = excluded.multiplier`,
		h.Day.String(), h.Name, h.Multiplier.String())
	if err != nil {
		return fmt.Errorf("saving holiday: %w", err)
	}
	return nil
}

func (s *Store) HolidaysInRange(ctx context.Context, from, to engine.Day) ([]engine.HolidayRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT day, name, multiplier
		FROM holidays
		WHERE day >= ? AND day <= ?
		ORDER BY day`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("querying holidays: %w", err)
	}
	defer rows.Close()

	var result []engine.HolidayRule
	for rows.Next() {
		var day, name, mult string
		if err := rows.Scan(&day, &name, &mult); err != nil {
			return nil, err
		}
		d, err := engine.ParseDay(day)
		if err != nil {
			return nil, err
		}
		m, err := decimal.NewFromString(mult)
		if err != nil {
			return nil, fmt.Errorf("parsing multiplier: %w", err)
		}
		result = append(result, engine.HolidayRule{Day: d, Name: name, Multiplier: m})
	}
	return result, rows.Err()
}

// =============================================================================
// ADJUSTMENT LEDGER - Append-only; the engine never writes it
// =============================================================================

func (s *Store) AppendAdjustment(ctx context.Context, a engine.AdjustmentEntry) (engine.AdjustmentEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = engine.AdjustmentID(ulid.Make().String())
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO adjustments (id, employee_id, day, amount, reason)
		VALUES (?, ?, ?, ?, ?)`,
		string(a.ID), string(a.EmployeeID), a.Day.String(), a.Amount.String(), a.Reason)
	if err != nil {
		return engine.AdjustmentEntry{}, fmt.Errorf("inserting adjustment: %w", err)
	}
	return a, nil
}

func (s *Store) AdjustmentsInRange(ctx context.Context, employeeID engine.EmployeeID, from, to engine.Day) ([]engine.AdjustmentEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, day, amount, reason
		FROM adjustments
		WHERE employee_id = ? AND day >= ? AND day <= ?
		ORDER BY day`,
		string(employeeID), from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("querying adjustments: %w", err)
	}
	defer rows.Close()

	var result []engine.AdjustmentEntry
	for rows.Next() {
		var id, empID, day, amount string
		var a engine.AdjustmentEntry
		if err := rows.Scan(&id, &empID, &day, &amount, &a.Reason); err != nil {
			return nil, err
		}
		d, err := engine.ParseDay(day)
		if err != nil {
			return nil, err
		}
		amt, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parsing adjustment amount: %w", err)
		}
		a.ID = engine.AdjustmentID(id)
		a.EmployeeID = engine.EmployeeID(empID)
		a.Day = d
		a.Amount = amt
		result = append(result, a)
	}
	return result, rows.Err()
}

// =============================================================================
// EMPLOYEE DIRECTORY
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, p engine.EmployeeProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, email, employment_type, hourly_rate, monthly_salary, hire_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			employment_type = excluded.employment_type,
			hourly_rate = excluded.hourly_rate,
			monthly_salary = excluded.monthly_salary,
			hire_date = excluded.hire_date`,
		string(p.ID), p.Name, p.Email, string(p.Type),
		p.HourlyRate.String(), p.MonthlySalary.String(), p.HireDate.String())
	if err != nil {
		return fmt.Errorf("saving employee: %w", err)
	}
	return nil
}

func (s *Store) Employee(ctx context.Context, id engine.EmployeeID) (*engine.EmployeeProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, employment_type, hourly_rate, monthly_salary, hire_date
		FROM employees
		WHERE id = ?`,
		string(id))

	p, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, &engine.EmployeeNotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Employees(ctx context.Context) ([]engine.EmployeeProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, employment_type, hourly_rate, monthly_salary, hire_date
		FROM employees
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying employees: %w", err)
	}
	defer rows.Close()

	var result []engine.EmployeeProfile
	for rows.Next() {
		p, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func scanEmployee(r rowScanner) (engine.EmployeeProfile, error) {
	var p engine.EmployeeProfile
	var id, empType, hourlyRate, monthlySalary, hireDate string
	if err := r.Scan(&id, &p.Name, &p.Email, &empType, &hourlyRate, &monthlySalary, &hireDate); err != nil {
		return engine.EmployeeProfile{}, err
	}
	rate, err := decimal.NewFromString(hourlyRate)
	if err != nil {
		return engine.EmployeeProfile{}, fmt.Errorf("parsing hourly rate: %w", err)
	}
	salary, err := decimal.NewFromString(monthlySalary)
	if err != nil {
		return engine.EmployeeProfile{}, fmt.Errorf("parsing monthly salary: %w", err)
	}
	p.ID = engine.EmployeeID(id)
	p.Type = engine.EmploymentType(empType)
	p.HourlyRate = rate
	p.MonthlySalary = salary
	if hireDate != "" {
		if d, err := engine.ParseDay(hireDate); err == nil {
			p.HireDate = d
		}
	}
	return p, nil
}

// =============================================================================
// PERIOD LIFECYCLE
// =============================================================================

func (s *Store) ClosePeriod(ctx context.Context, p engine.MonthPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	closed, err := s.isClosedLocked(ctx, p)
	if err != nil {
		return err
	}
	if closed {
		return &engine.PeriodClosedError{Period: p}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO payroll_periods (year, month, status, closed_at)
		VALUES (?, ?, 'closed', ?)
		ON CONFLICT(year, month) DO UPDATE SET
			status = 'closed',
			closed_at = excluded.closed_at`,
		p.Year, int(p.Month), time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("closing period: %w", err)
	}
	return nil
}

func (s *Store) ReopenPeriod(ctx context.Context, p engine.MonthPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	closed, err := s.isClosedLocked(ctx, p)
	if err != nil {
		return err
	}
	if !closed {
		return engine.ErrPeriodNotClosed
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM payroll_periods WHERE year = ? AND month = ?`,
		p.Year, int(p.Month))
	if err != nil {
		return fmt.Errorf("reopening period: %w", err)
	}
	return nil
}

func (s *Store) IsPeriodClosed(ctx context.Context, p engine.MonthPeriod) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isClosedLocked(ctx, p)
}

func (s *Store) isClosedLocked(ctx context.Context, p engine.MonthPeriod) (bool, error) {
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT status FROM payroll_periods WHERE year = ? AND month = ?`,
		p.Year, int(p.Month)).Scan(&status)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying period: %w", err)
	}
	return status == "closed", nil
}

// =============================================================================
// STATS SNAPSHOTS
// =============================================================================

func (s *Store) SaveStatsSnapshot(ctx context.Context, stats *engine.MonthlyStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO stats_snapshots (employee_id, year, month, payload, taken_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, year, month) DO UPDATE SET
			payload = excluded.payload,
			taken_at = excluded.taken_at`,
		string(stats.EmployeeID), stats.Period.Year, int(stats.Period.Month),
		string(payload), time.Now().UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func (s *Store) StatsSnapshot(ctx context.Context, id engine.EmployeeID, p engine.MonthPeriod) (*engine.MonthlyStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM stats_snapshots
		WHERE employee_id = ? AND year = ? AND month = ?`,
		string(id), p.Year, int(p.Month)).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, engine.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}

	var stats engine.MonthlyStats
	if err := json.Unmarshal([]byte(payload), &stats); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &stats, nil
}

func (s *Store) DeleteStatsSnapshots(ctx context.Context, p engine.MonthPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM stats_snapshots WHERE year = ? AND month = ?`,
		p.Year, int(p.Month))
	if err != nil {
		return fmt.Errorf("deleting snapshots: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
