package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/attendance-engine/engine"
)

// April 2025 has 30 days and 4 Sundays -> 26 standard workdays.
func april() engine.MonthPeriod { return engine.MonthPeriod{Year: 2025, Month: time.April} }

func approvedLeave(d engine.Day) engine.ExceptionRequest {
	return engine.ExceptionRequest{
		ID:         "leave-1",
		EmployeeID: "emp-1",
		Day:        d,
		Kind:       engine.ExceptionLeave,
		Status:     engine.StatusApproved,
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// =============================================================================
// PAY RATE TESTS
// =============================================================================

func TestStandardDays_ExcludesSundays(t *testing.T) {
	if got := engine.StandardDays(april()); got != 26 {
		t.Errorf("expected 26 standard days in April 2025, got %d", got)
	}
}

func TestPayRates_ProratedDerivation(t *testing.T) {
	// GIVEN: monthly salary 6,000,000 over 26 standard days, 8h full day
	// WHEN: deriving rates
	// THEN: dailyRate ~ 230,769.23 and hourly ~ 28,846.15

	rates := engine.NewPayRates(salariedProfile(), april(), engine.DefaultPolicy())

	wantDaily := dec(6000000).Div(dec(26))
	if !rates.DailyRate.Equal(wantDaily) {
		t.Errorf("expected daily rate %s, got %s", wantDaily, rates.DailyRate)
	}
	if !rates.DynamicHourlyRate.Equal(wantDaily.Div(dec(8))) {
		t.Errorf("expected hourly rate %s, got %s", wantDaily.Div(dec(8)), rates.DynamicHourlyRate)
	}
}

func TestPayRates_ProratedCapsAtFullDay(t *testing.T) {
	// GIVEN: 10 billed hours under the prorated formula
	// WHEN: pricing the day
	// THEN: only 8 hours are paid; overtime earns nothing

	rates := engine.NewPayRates(salariedProfile(), april(), engine.DefaultPolicy())

	capped := rates.DaySalary(dec(10), engine.DefaultMultiplier())
	full := rates.DaySalary(dec(8), engine.DefaultMultiplier())
	if !capped.Equal(full) {
		t.Errorf("expected 10h to pay like 8h, got %s vs %s", capped, full)
	}
}

func TestPayRates_HourlyUncapped(t *testing.T) {
	rates := engine.NewPayRates(hourlyProfile(), april(), engine.DefaultPolicy())

	got := rates.DaySalary(dec(10), engine.DefaultMultiplier())
	if !got.Equal(dec(500000)) {
		t.Errorf("expected 500000 for 10h at 50000/h, got %s", got)
	}
}

// =============================================================================
// MONTHLY ASSEMBLY TESTS
// =============================================================================

func TestCompute_ProjectedSalaryDeductsLeave(t *testing.T) {
	// GIVEN: salaried 6,000,000, April 2025 (26 standard days), one
	//        approved leave day, zero adjustments
	// WHEN: computing the month
	// THEN: projectedSalary ~ 6,000,000 - 230,769 = 5,769,231

	stats, err := engine.Compute(engine.ComputeInput{
		Employee:   salariedProfile(),
		Period:     april(),
		Exceptions: []engine.ExceptionRequest{approvedLeave(day(2025, time.April, 7))},
		Policy:     engine.DefaultPolicy(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.LeaveDays != 1 {
		t.Fatalf("expected 1 leave day, got %d", stats.LeaveDays)
	}
	if got := stats.ProjectedSalary.Round(0); !got.Equal(dec(5769231)) {
		t.Errorf("expected projected salary 5769231, got %s", got)
	}
	if !stats.BaseSalary.IsZero() {
		t.Errorf("no worked days means zero base salary, got %s", stats.BaseSalary)
	}
}

func TestCompute_HolidayMultiplierAppliesToDayPay(t *testing.T) {
	// GIVEN: an hourly employee working 8h on a double-pay holiday
	// WHEN: computing the month
	// THEN: the day pays 8 * 50000 * 2

	d := day(2025, time.April, 7)
	stats, err := engine.Compute(engine.ComputeInput{
		Employee: hourlyProfile(),
		Period:   april(),
		Punches:  []engine.PunchEvent{in(d, "09:00"), out(d, "17:00")},
		Holidays: []engine.HolidayRule{{Day: d, Name: "Liberation Day", Multiplier: dec(2)}},
		Policy:   engine.DefaultPolicy(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !stats.BaseSalary.Equal(dec(800000)) {
		t.Errorf("expected 800000, got %s", stats.BaseSalary)
	}
}

func TestCompute_MissingHolidayRuleDefaultsToOne(t *testing.T) {
	d := day(2025, time.April, 7)
	stats, err := engine.Compute(engine.ComputeInput{
		Employee: hourlyProfile(),
		Period:   april(),
		Punches:  []engine.PunchEvent{in(d, "09:00"), out(d, "17:00")},
		Policy:   engine.DefaultPolicy(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stats.BaseSalary.Equal(dec(400000)) {
		t.Errorf("expected 400000 at multiplier 1, got %s", stats.BaseSalary)
	}
}

func TestCompute_AdjustmentsFlowIntoBothTotals(t *testing.T) {
	// GIVEN: a salaried month with one worked day and a +100000 bonus
	// WHEN: computing
	// THEN: the adjustment lands in TotalSalary AND ProjectedSalary

	d := day(2025, time.April, 7)
	adj := engine.AdjustmentEntry{
		ID:         "adj-1",
		EmployeeID: "emp-1",
		Day:        d,
		Amount:     dec(100000),
		Reason:     "quarterly bonus",
	}

	stats, err := engine.Compute(engine.ComputeInput{
		Employee:    salariedProfile(),
		Period:      april(),
		Punches:     []engine.PunchEvent{in(d, "08:30"), out(d, "16:30")},
		Adjustments: []engine.AdjustmentEntry{adj},
		Policy:      engine.DefaultPolicy(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !stats.TotalAdjustments.Equal(dec(100000)) {
		t.Fatalf("expected 100000 adjustments, got %s", stats.TotalAdjustments)
	}
	if !stats.TotalSalary.Equal(stats.BaseSalary.Add(dec(100000))) {
		t.Errorf("TotalSalary must be base + adjustments, got %s", stats.TotalSalary)
	}
	wantProjected := dec(6000000).Add(dec(100000))
	if !stats.ProjectedSalary.Equal(wantProjected) {
		t.Errorf("expected projected %s, got %s", wantProjected, stats.ProjectedSalary)
	}
}

func TestCompute_HourlyProjectedEqualsTotal(t *testing.T) {
	d := day(2025, time.April, 7)
	stats, err := engine.Compute(engine.ComputeInput{
		Employee: hourlyProfile(),
		Period:   april(),
		Punches:  []engine.PunchEvent{in(d, "09:00"), out(d, "17:00")},
		Policy:   engine.DefaultPolicy(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stats.ProjectedSalary.Equal(stats.TotalSalary) {
		t.Errorf("hourly projected must equal total, got %s vs %s",
			stats.ProjectedSalary, stats.TotalSalary)
	}
}

func TestCompute_DailyRecordsNewestFirst(t *testing.T) {
	d1 := day(2025, time.April, 7)
	d2 := day(2025, time.April, 8)
	stats, err := engine.Compute(engine.ComputeInput{
		Employee: hourlyProfile(),
		Period:   april(),
		Punches: []engine.PunchEvent{
			in(d1, "09:00"), out(d1, "17:00"),
			in(d2, "09:00"), out(d2, "17:00"),
		},
		Policy: engine.DefaultPolicy(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats.Daily) != 2 {
		t.Fatalf("expected 2 daily records, got %d", len(stats.Daily))
	}
	if !stats.Daily[0].Day.Equal(d2) || !stats.Daily[1].Day.Equal(d1) {
		t.Errorf("daily records must be newest-first, got %s then %s",
			stats.Daily[0].Day, stats.Daily[1].Day)
	}
}

func TestCompute_InvalidDayContributesZeroButIsReported(t *testing.T) {
	// GIVEN: a day with only a dangling OUT
	// WHEN: computing
	// THEN: zero hours and pay, but the record and its tag survive

	d := day(2025, time.April, 7)
	stats, err := engine.Compute(engine.ComputeInput{
		Employee: hourlyProfile(),
		Period:   april(),
		Punches:  []engine.PunchEvent{out(d, "17:00")},
		Policy:   engine.DefaultPolicy(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.DaysWorked != 0 || !stats.TotalHours.IsZero() {
		t.Errorf("invalid day must not contribute, got %d days / %s hours",
			stats.DaysWorked, stats.TotalHours)
	}
	if len(stats.Daily) != 1 {
		t.Fatalf("expected the invalid day to be reported, got %d records", len(stats.Daily))
	}
	rec := stats.Daily[0]
	if rec.IsValid {
		t.Error("expected an invalid record")
	}
	if !hasTag(rec.Tags, engine.TagMissingCheckIn) {
		t.Errorf("expected missing check-in tag, got %v", rec.Tags)
	}
	if got := rec.Reason(); got != string(engine.TagMissingCheckIn) {
		t.Errorf("expected the data error as reason, got %q", got)
	}
}

func TestCompute_RepairedRemoteDayReportsNoReason(t *testing.T) {
	// GIVEN: a day zeroed by a missing check-out, then repaired by an
	//        approved WFH credit
	// WHEN: computing
	// THEN: the record is valid and reports no reason; the data-error tag
	//       stays for the audit trail

	d := day(2025, time.April, 7)
	stats, err := engine.Compute(engine.ComputeInput{
		Employee:   hourlyProfile(),
		Period:     april(),
		Punches:    []engine.PunchEvent{in(d, "09:00")},
		Exceptions: []engine.ExceptionRequest{remote(d, engine.StatusApproved)},
		Policy:     engine.DefaultPolicy(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stats.Daily) != 1 {
		t.Fatalf("expected 1 daily record, got %d", len(stats.Daily))
	}
	rec := stats.Daily[0]
	if !rec.IsValid {
		t.Fatal("expected the repaired day to be valid")
	}
	if got := rec.Reason(); got != "" {
		t.Errorf("a valid day must report no reason, got %q", got)
	}
	if !hasTag(rec.Tags, engine.TagMissingCheckOut) || !hasTag(rec.Tags, engine.TagRemoteWork) {
		t.Errorf("expected both tags to survive, got %v", rec.Tags)
	}
}

func TestCompute_IgnoresOtherEmployeesRows(t *testing.T) {
	// GIVEN: a snapshot carrying another employee's punches and approved
	//        leave alongside the subject's single worked day
	// WHEN: computing
	// THEN: only the subject's rows count

	d := day(2025, time.April, 7)
	stats, err := engine.Compute(engine.ComputeInput{
		Employee: hourlyProfile(),
		Period:   april(),
		Punches: []engine.PunchEvent{
			in(d, "09:00"), out(d, "17:00"),
			{EmployeeID: "emp-2", Kind: engine.PunchIn, At: d.At(engine.NewClockTime(10, 0))},
			{EmployeeID: "emp-2", Kind: engine.PunchOut, At: d.At(engine.NewClockTime(18, 0))},
		},
		Exceptions: []engine.ExceptionRequest{{
			ID:         "leave-2",
			EmployeeID: "emp-2",
			Day:        day(2025, time.April, 8),
			Kind:       engine.ExceptionLeave,
			Status:     engine.StatusApproved,
		}},
		Policy: engine.DefaultPolicy(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.DaysWorked != 1 || !stats.TotalHours.Equal(dec(8)) {
		t.Errorf("expected 1 day / 8 hours for the subject, got %d / %s",
			stats.DaysWorked, stats.TotalHours)
	}
	if stats.LeaveDays != 0 {
		t.Errorf("another employee's leave must not count, got %d", stats.LeaveDays)
	}
}

func TestCompute_RejectsInvalidPeriod(t *testing.T) {
	_, err := engine.Compute(engine.ComputeInput{
		Employee: hourlyProfile(),
		Period:   engine.MonthPeriod{},
		Policy:   engine.DefaultPolicy(),
	})
	if err == nil {
		t.Fatal("expected an error for the zero period")
	}
}
