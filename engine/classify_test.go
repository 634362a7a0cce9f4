package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/engine"
)

func hourlyProfile() engine.EmployeeProfile {
	return engine.EmployeeProfile{
		ID:         "emp-1",
		Name:       "Hourly Worker",
		Type:       engine.Hourly,
		HourlyRate: decimal.NewFromInt(50000),
	}
}

func salariedProfile() engine.EmployeeProfile {
	return engine.EmployeeProfile{
		ID:            "emp-1",
		Name:          "Salaried Worker",
		Type:          engine.ProratedMonthly,
		MonthlySalary: decimal.NewFromInt(6000000),
	}
}

// =============================================================================
// LATENESS CLASSIFICATION TESTS
// =============================================================================

func TestClassifyDay_LateBeyondGrace(t *testing.T) {
	// GIVEN: shift start 08:30, grace 5 min, first IN 09:00
	// WHEN: classifying
	// THEN: late, with 30 minutes counted from shift start

	d := day(2025, time.April, 7)
	rd := reconcileOne(t,
		[]engine.PunchEvent{in(d, "09:00"), out(d, "17:30")},
		shiftOn(d, clock(8, 30), clock(17, 30)),
		nil, engine.DefaultPolicy())

	cls := engine.ClassifyDay(rd, hourlyProfile(), engine.DefaultPolicy())
	if !cls.IsLate {
		t.Fatal("expected a late classification")
	}
	if cls.LateMinutes != 30 {
		t.Errorf("expected 30 late minutes, got %d", cls.LateMinutes)
	}
}

func TestClassifyDay_WithinGraceIsNotLate(t *testing.T) {
	// GIVEN: arrival exactly at the grace boundary (08:35 with 5 min grace)
	// WHEN: classifying
	// THEN: not late; the boundary is inclusive

	d := day(2025, time.April, 7)
	rd := reconcileOne(t,
		[]engine.PunchEvent{in(d, "08:35"), out(d, "17:30")},
		shiftOn(d, clock(8, 30), clock(17, 30)),
		nil, engine.DefaultPolicy())

	cls := engine.ClassifyDay(rd, hourlyProfile(), engine.DefaultPolicy())
	if cls.IsLate {
		t.Errorf("expected on-time at the grace boundary, got %d late minutes", cls.LateMinutes)
	}
}

func TestClassifyDay_OneMinutePastGrace(t *testing.T) {
	d := day(2025, time.April, 7)
	rd := reconcileOne(t,
		[]engine.PunchEvent{in(d, "08:36"), out(d, "17:30")},
		shiftOn(d, clock(8, 30), clock(17, 30)),
		nil, engine.DefaultPolicy())

	cls := engine.ClassifyDay(rd, hourlyProfile(), engine.DefaultPolicy())
	if !cls.IsLate || cls.LateMinutes != 6 {
		t.Errorf("expected 6 late minutes, got late=%v minutes=%d", cls.IsLate, cls.LateMinutes)
	}
}

func TestClassifyDay_HourlyWithoutShiftNotClassified(t *testing.T) {
	// GIVEN: an hourly employee with no scheduled shift
	// WHEN: classifying a very late-looking day
	// THEN: no classification at all

	d := day(2025, time.April, 7)
	rd := reconcileOne(t,
		[]engine.PunchEvent{in(d, "11:00"), out(d, "15:00")},
		nil, nil, engine.DefaultPolicy())

	cls := engine.ClassifyDay(rd, hourlyProfile(), engine.DefaultPolicy())
	if cls.IsLate || cls.IsEarlyOut {
		t.Errorf("hourly employee without a shift must not be classified, got %+v", cls)
	}
}

func TestClassifyDay_SalariedFallsBackToDefaultWindow(t *testing.T) {
	// GIVEN: a salaried employee with no shift, IN 09:00 vs default 08:30
	// WHEN: classifying
	// THEN: late against the policy default window

	d := day(2025, time.April, 7)
	rd := reconcileOne(t,
		[]engine.PunchEvent{in(d, "09:00"), out(d, "17:30")},
		nil, nil, engine.DefaultPolicy())

	cls := engine.ClassifyDay(rd, salariedProfile(), engine.DefaultPolicy())
	if !cls.IsLate || cls.LateMinutes != 30 {
		t.Errorf("expected 30 late minutes against the default window, got %+v", cls)
	}
}

func TestClassifyDay_EarlyDeparture(t *testing.T) {
	// GIVEN: last OUT 16:00 against a 17:30 shift end
	// WHEN: classifying
	// THEN: early departure of 90 minutes

	d := day(2025, time.April, 7)
	rd := reconcileOne(t,
		[]engine.PunchEvent{in(d, "08:30"), out(d, "16:00")},
		shiftOn(d, clock(8, 30), clock(17, 30)),
		nil, engine.DefaultPolicy())

	cls := engine.ClassifyDay(rd, hourlyProfile(), engine.DefaultPolicy())
	if !cls.IsEarlyOut || cls.EarlyMinutes != 90 {
		t.Errorf("expected 90-minute early departure, got %+v", cls)
	}
}

func TestClassifyDay_ForgivenEarlyDepartureStillClassified(t *testing.T) {
	// GIVEN: an APPROVED early-leave that credits the full shift
	// WHEN: classifying
	// THEN: the early departure still shows; billing and reporting diverge

	d := day(2025, time.April, 7)
	rd := reconcileOne(t,
		[]engine.PunchEvent{in(d, "08:30"), out(d, "16:00")},
		shiftOn(d, clock(8, 30), clock(17, 30)),
		[]engine.ExceptionRequest{earlyLeave(d, engine.StatusApproved)},
		engine.DefaultPolicy())

	cls := engine.ClassifyDay(rd, hourlyProfile(), engine.DefaultPolicy())
	if !cls.IsEarlyOut {
		t.Error("forgiveness changes billing, not the violation report")
	}
}
