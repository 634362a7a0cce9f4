// Package store provides engine.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/warp/attendance-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	punches     map[engine.EmployeeID][]engine.PunchEvent
	shifts      map[engine.EmployeeID]map[engine.Day]engine.ScheduledShift
	exceptions  map[engine.ExceptionID]engine.ExceptionRequest
	holidays    map[engine.Day]engine.HolidayRule
	adjustments map[engine.EmployeeID][]engine.AdjustmentEntry
	employees   map[engine.EmployeeID]engine.EmployeeProfile
	closed      map[engine.MonthPeriod]bool
	snapshots   map[snapshotKey]engine.MonthlyStats
}

type snapshotKey struct {
	EmployeeID engine.EmployeeID
	Period     engine.MonthPeriod
}

var _ engine.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		punches:     make(map[engine.EmployeeID][]engine.PunchEvent),
		shifts:      make(map[engine.EmployeeID]map[engine.Day]engine.ScheduledShift),
		exceptions:  make(map[engine.ExceptionID]engine.ExceptionRequest),
		holidays:    make(map[engine.Day]engine.HolidayRule),
		adjustments: make(map[engine.EmployeeID][]engine.AdjustmentEntry),
		employees:   make(map[engine.EmployeeID]engine.EmployeeProfile),
		closed:      make(map[engine.MonthPeriod]bool),
		snapshots:   make(map[snapshotKey]engine.MonthlyStats),
	}
}

// =============================================================================
// EVENT STORE
// =============================================================================

// AppendPunch enforces the per-employee alternation invariant under the
// store lock, which serializes appends per employee.
func (m *Memory) AppendPunch(_ context.Context, p engine.PunchEvent) (engine.PunchEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	last := m.lastPunchLocked(p.EmployeeID)
	switch p.Kind {
	case engine.PunchIn:
		if last != nil && last.Kind == engine.PunchIn {
			return engine.PunchEvent{}, engine.ErrOpenPunchExists
		}
	case engine.PunchOut:
		if last == nil || last.Kind == engine.PunchOut {
			return engine.PunchEvent{}, engine.ErrNoOpenPunch
		}
	}

	if p.ID == "" {
		p.ID = engine.PunchID(ulid.Make().String())
	}

	// Binary search keeps the slice ordered by timestamp.
	txs := m.punches[p.EmployeeID]
	i := sort.Search(len(txs), func(i int) bool { return txs[i].At.After(p.At) })
	txs = append(txs, engine.PunchEvent{})
	copy(txs[i+1:], txs[i:])
	txs[i] = p
	m.punches[p.EmployeeID] = txs

	return p, nil
}

func (m *Memory) DeletePunch(_ context.Context, employeeID engine.EmployeeID, id engine.PunchID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	txs := m.punches[employeeID]
	for i, p := range txs {
		if p.ID == id {
			m.punches[employeeID] = append(txs[:i:i], txs[i+1:]...)
			return nil
		}
	}
	return engine.ErrPunchNotFound
}

func (m *Memory) PunchesInRange(_ context.Context, employeeID engine.EmployeeID, from, to engine.Day) ([]engine.PunchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.PunchEvent
	for _, p := range m.punches[employeeID] {
		d := p.Day()
		if from.BeforeOrEqual(d) && d.BeforeOrEqual(to) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *Memory) LastPunch(_ context.Context, employeeID engine.EmployeeID) (*engine.PunchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastPunchLocked(employeeID), nil
}

func (m *Memory) lastPunchLocked(employeeID engine.EmployeeID) *engine.PunchEvent {
	txs := m.punches[employeeID]
	if len(txs) == 0 {
		return nil
	}
	last := txs[len(txs)-1]
	return &last
}

// =============================================================================
// SCHEDULE STORE
// =============================================================================

func (m *Memory) SaveShift(_ context.Context, s engine.ScheduledShift) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	byDay, ok := m.shifts[s.EmployeeID]
	if !ok {
		byDay = make(map[engine.Day]engine.ScheduledShift)
		m.shifts[s.EmployeeID] = byDay
	}
	// One relevant shift per employee per day.
	byDay[s.Day] = s
	return nil
}

func (m *Memory) ShiftsInRange(_ context.Context, employeeID engine.EmployeeID, from, to engine.Day) ([]engine.ScheduledShift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.ScheduledShift
	for d, s := range m.shifts[employeeID] {
		if from.BeforeOrEqual(d) && d.BeforeOrEqual(to) {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Day.Before(result[j].Day) })
	return result, nil
}

// =============================================================================
// EXCEPTION LEDGER
// =============================================================================

func (m *Memory) CreateException(_ context.Context, ex engine.ExceptionRequest) (engine.ExceptionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ex.ID == "" {
		ex.ID = engine.ExceptionID(ulid.Make().String())
	}
	if ex.Status == "" {
		ex.Status = engine.StatusPending
	}
	m.exceptions[ex.ID] = ex
	return ex, nil
}

func (m *Memory) ResolveException(_ context.Context, id engine.ExceptionID, status engine.ExceptionStatus, actor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ex, ok := m.exceptions[id]
	if !ok {
		return engine.ErrRequestFinalized
	}
	if ex.Status.Terminal() {
		if ex.Status == status {
			return nil // idempotent re-resolution
		}
		return engine.ErrRequestFinalized
	}

	ex.Status = status
	ex.ResolvedBy = &actor
	m.exceptions[id] = ex
	return nil
}

func (m *Memory) ExceptionsInRange(_ context.Context, employeeID engine.EmployeeID, from, to engine.Day) ([]engine.ExceptionRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.ExceptionRequest
	for _, ex := range m.exceptions {
		if ex.EmployeeID == employeeID && from.BeforeOrEqual(ex.Day) && ex.Day.BeforeOrEqual(to) {
			result = append(result, ex)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Day.Before(result[j].Day) })
	return result, nil
}

func (m *Memory) PendingExceptions(_ context.Context) ([]engine.ExceptionRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.ExceptionRequest
	for _, ex := range m.exceptions {
		if ex.Status == engine.StatusPending {
			result = append(result, ex)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Day.Before(result[j].Day) })
	return result, nil
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

func (m *Memory) SaveHoliday(_ context.Context, h engine.HolidayRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.Day] = h
	return nil
}

func (m *Memory) HolidaysInRange(_ context.Context, from, to engine.Day) ([]engine.HolidayRule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.HolidayRule
	for d, h := range m.holidays {
		if from.BeforeOrEqual(d) && d.BeforeOrEqual(to) {
			result = append(result, h)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Day.Before(result[j].Day) })
	return result, nil
}

// =============================================================================
// ADJUSTMENT LEDGER - Append-only
// =============================================================================

func (m *Memory) AppendAdjustment(_ context.Context, a engine.AdjustmentEntry) (engine.AdjustmentEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a.ID == "" {
		a.ID = engine.AdjustmentID(ulid.Make().String())
	}
	m.adjustments[a.EmployeeID] = append(m.adjustments[a.EmployeeID], a)
	return a, nil
}

func (m *Memory) AdjustmentsInRange(_ context.Context, employeeID engine.EmployeeID, from, to engine.Day) ([]engine.AdjustmentEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.AdjustmentEntry
	for _, a := range m.adjustments[employeeID] {
		if from.BeforeOrEqual(a.Day) && a.Day.BeforeOrEqual(to) {
			result = append(result, a)
		}
	}
	return result, nil
}

// =============================================================================
// EMPLOYEE DIRECTORY
// =============================================================================

func (m *Memory) SaveEmployee(_ context.Context, p engine.EmployeeProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[p.ID] = p
	return nil
}

func (m *Memory) Employee(_ context.Context, id engine.EmployeeID) (*engine.EmployeeProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.employees[id]
	if !ok {
		return nil, &engine.EmployeeNotFoundError{ID: id}
	}
	return &p, nil
}

func (m *Memory) Employees(_ context.Context) ([]engine.EmployeeProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]engine.EmployeeProfile, 0, len(m.employees))
	for _, p := range m.employees {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// =============================================================================
// PERIOD LIFECYCLE + SNAPSHOTS
// =============================================================================

func (m *Memory) ClosePeriod(_ context.Context, p engine.MonthPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed[p] {
		return &engine.PeriodClosedError{Period: p}
	}
	m.closed[p] = true
	return nil
}

func (m *Memory) ReopenPeriod(_ context.Context, p engine.MonthPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed[p] {
		return engine.ErrPeriodNotClosed
	}
	delete(m.closed, p)
	return nil
}

func (m *Memory) IsPeriodClosed(_ context.Context, p engine.MonthPeriod) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed[p], nil
}

func (m *Memory) SaveStatsSnapshot(_ context.Context, stats *engine.MonthlyStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapshotKey{EmployeeID: stats.EmployeeID, Period: stats.Period}] = *stats
	return nil
}

func (m *Memory) StatsSnapshot(_ context.Context, id engine.EmployeeID, p engine.MonthPeriod) (*engine.MonthlyStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats, ok := m.snapshots[snapshotKey{EmployeeID: id, Period: p}]
	if !ok {
		return nil, engine.ErrSnapshotNotFound
	}
	return &stats, nil
}

func (m *Memory) DeleteStatsSnapshots(_ context.Context, p engine.MonthPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.snapshots {
		if k.Period == p {
			delete(m.snapshots, k)
		}
	}
	return nil
}
