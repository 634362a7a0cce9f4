/*
salary.go - Employment-type-specific pay formulas and monthly assembly

PURPOSE:
  Attaches money to reconciled days and assembles the MonthlyStats value.
  Exactly one formula applies per employee per period:

  HOURLY:
    periodSalary = sum(day.billedHours * hourlyRate * day.multiplier)

  PRORATED_MONTHLY:
    standardDays      = daysInMonth - sundaysInMonth
    dailyRate         = monthlySalary / standardDays
    dynamicHourlyRate = dailyRate / fullDayHours
    daySalary         = min(billedHours, fullDayHours) * dynamicHourlyRate * multiplier

  Overtime beyond a full day earns no additional pay under the prorated
  formula; that is explicit policy, not an accident. Salaried employees
  get TWO totals: BaseSalary (audit: sum of days) and ProjectedSalary
  (forecast: contract minus leave deduction plus adjustments). They are
  allowed to diverge and both are exposed.

  The adjustment ledger is summed into TotalAdjustments and added to
  both totals. Holiday multipliers default to 1 when no rule covers a
  date - a configuration gap, never an error.
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

func hoursFromMinutes(m int) decimal.Decimal {
	return decimal.NewFromInt(int64(m)).Div(minutesPerHour)
}

// StandardDays returns the number of standard workdays used for monthly
// proration: calendar days minus Sundays.
func StandardDays(p MonthPeriod) int { return p.DaysInMonth() - p.Sundays() }

// =============================================================================
// PAY RATES
// =============================================================================

// PayRates holds the per-period derived rates for one employee.
type PayRates struct {
	Type EmploymentType

	HourlyRate decimal.Decimal

	// Prorated-monthly only.
	MonthlySalary     decimal.Decimal
	DailyRate         decimal.Decimal
	DynamicHourlyRate decimal.Decimal

	fullDay decimal.Decimal
}

// NewPayRates derives the applicable rates for an employee and period.
func NewPayRates(profile EmployeeProfile, period MonthPeriod, pol Policy) PayRates {
	r := PayRates{
		Type:       profile.Type,
		HourlyRate: profile.HourlyRate,
		fullDay:    pol.FullDayHours,
	}
	if profile.Type == ProratedMonthly {
		std := decimal.NewFromInt(int64(StandardDays(period)))
		r.MonthlySalary = profile.MonthlySalary
		r.DailyRate = profile.MonthlySalary.Div(std)
		r.DynamicHourlyRate = r.DailyRate.Div(pol.FullDayHours)
	}
	return r
}

// DaySalary computes pay for one day's billed hours under the employee's
// formula.
func (r PayRates) DaySalary(billedHours, multiplier decimal.Decimal) decimal.Decimal {
	switch r.Type {
	case ProratedMonthly:
		h := billedHours
		if h.GreaterThan(r.fullDay) {
			h = r.fullDay
		}
		return h.Mul(r.DynamicHourlyRate).Mul(multiplier)
	default:
		return billedHours.Mul(r.HourlyRate).Mul(multiplier)
	}
}

// =============================================================================
// MONTHLY ASSEMBLY
// =============================================================================

// BuildMonthlyStats classifies, prices, and aggregates the injected days
// of one reporting period into the MonthlyStats value object.
func BuildMonthlyStats(
	profile EmployeeProfile,
	period MonthPeriod,
	inj Injected,
	holidays []HolidayRule,
	adjustments []AdjustmentEntry,
	pol Policy,
) *MonthlyStats {
	multipliers := make(map[Day]decimal.Decimal, len(holidays))
	for _, h := range holidays {
		multipliers[h.Day] = h.Multiplier
	}

	rates := NewPayRates(profile, period, pol)

	stats := &MonthlyStats{
		EmployeeID:       profile.ID,
		Period:           period,
		TotalHours:       decimal.Zero,
		LeaveDays:        inj.LeaveDays,
		BaseSalary:       decimal.Zero,
		TotalAdjustments: decimal.Zero,
	}

	for _, rd := range inj.Days {
		if !period.Contains(rd.Day) {
			continue
		}

		multiplier, ok := multipliers[rd.Day]
		if !ok {
			multiplier = DefaultMultiplier()
		}

		billed := hoursFromMinutes(rd.BilledMinutes)
		cls := ClassifyDay(rd, profile, pol)
		salary := rates.DaySalary(billed, multiplier)

		record := DailyRecord{
			Day:         rd.Day,
			BilledHours: billed,
			Multiplier:  multiplier,
			Salary:      salary,
			IsValid:     rd.IsValid,
			IsLate:      cls.IsLate,
			IsEarlyOut:  cls.IsEarlyOut,
			LateMinutes: cls.LateMinutes,
			Tags:        rd.Tags,
		}
		if rd.HasFirstIn() {
			record.FirstIn = rd.Day.At(rd.FirstIn)
		}
		if rd.HasLastOut() {
			record.LastOut = rd.Day.At(rd.LastOut)
		}

		stats.TotalHours = stats.TotalHours.Add(billed)
		if rd.BilledMinutes > 0 {
			stats.DaysWorked++
		}
		if cls.IsLate {
			stats.LateCount++
			stats.TotalLateMinutes += cls.LateMinutes
		}
		if cls.IsEarlyOut {
			stats.EarlyLeaveCount++
		}
		stats.BaseSalary = stats.BaseSalary.Add(salary)
		stats.Daily = append(stats.Daily, record)
	}

	for _, adj := range adjustments {
		if period.Contains(adj.Day) && adj.EmployeeID == profile.ID {
			stats.TotalAdjustments = stats.TotalAdjustments.Add(adj.Amount)
		}
	}

	stats.TotalSalary = stats.BaseSalary.Add(stats.TotalAdjustments)

	if profile.Type == ProratedMonthly {
		leaveDeduction := rates.DailyRate.Mul(decimal.NewFromInt(int64(stats.LeaveDays)))
		stats.ProjectedSalary = rates.MonthlySalary.Sub(leaveDeduction).Add(stats.TotalAdjustments)
	} else {
		stats.ProjectedSalary = stats.TotalSalary
	}

	// Daily details newest-first.
	sort.Slice(stats.Daily, func(i, j int) bool {
		return stats.Daily[i].Day.After(stats.Daily[j].Day)
	})

	return stats
}
