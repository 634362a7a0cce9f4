package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Date-granularity value (this IS a daily attendance system)
// =============================================================================

// Day is a calendar date. All punch grouping, shift lookup, and holiday
// lookup is keyed by Day. Times are kept in UTC; display formatting is a
// collaborator concern.
type Day struct {
	Time time.Time
}

func NewDay(year int, month time.Month, day int) Day {
	return Day{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates a timestamp to its calendar date.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

func Today() Day {
	now := time.Now().UTC()
	return DayOf(now)
}

// Comparison
func (d Day) Before(other Day) bool        { return d.Time.Before(other.Time) }
func (d Day) After(other Day) bool         { return d.Time.After(other.Time) }
func (d Day) Equal(other Day) bool         { return d.Time.Equal(other.Time) }
func (d Day) BeforeOrEqual(other Day) bool { return d.Before(other) || d.Equal(other) }
func (d Day) AfterOrEqual(other Day) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Day) AddDays(n int) Day { return Day{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Day) Year() int             { return d.Time.Year() }
func (d Day) Month() time.Month     { return d.Time.Month() }
func (d Day) DayOfMonth() int       { return d.Time.Day() }
func (d Day) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Day) IsZero() bool          { return d.Time.IsZero() }

func (d Day) String() string { return d.Time.Format("2006-01-02") }

// At combines the date with a time of day into a full timestamp.
func (d Day) At(ct ClockTime) time.Time {
	return time.Date(d.Year(), d.Month(), d.DayOfMonth(), ct.Hour, ct.Minute, 0, 0, time.UTC)
}

// ParseDay parses "2006-01-02".
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DayOf(t), nil
}

// =============================================================================
// CLOCK TIME - Time of day, minute granularity
// =============================================================================

// ClockTime is a wall-clock time of day. Shift boundaries and policy
// default windows are ClockTimes; lateness compares time-of-day, never
// full timestamps.
type ClockTime struct {
	Hour   int
	Minute int
}

func NewClockTime(hour, minute int) ClockTime { return ClockTime{Hour: hour, Minute: minute} }

// ClockTimeOf extracts the time of day from a timestamp.
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}
}

// ParseClockTime parses "15:04".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (ct ClockTime) MinuteOfDay() int { return ct.Hour*60 + ct.Minute }
func (ct ClockTime) IsZero() bool     { return ct.Hour == 0 && ct.Minute == 0 }

func (ct ClockTime) Before(other ClockTime) bool { return ct.MinuteOfDay() < other.MinuteOfDay() }
func (ct ClockTime) After(other ClockTime) bool  { return ct.MinuteOfDay() > other.MinuteOfDay() }

func (ct ClockTime) String() string { return fmt.Sprintf("%02d:%02d", ct.Hour, ct.Minute) }

// =============================================================================
// MONTH PERIOD - The reporting period for payroll
// =============================================================================

// MonthPeriod identifies a payroll month. Stats are ALWAYS computed for a
// whole month; the (Year, Month) pair is also the uniqueness key for the
// period close lifecycle.
type MonthPeriod struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the payroll month containing the given date.
func PeriodOf(d Day) MonthPeriod { return MonthPeriod{Year: d.Year(), Month: d.Month()} }

func (p MonthPeriod) Start() Day { return NewDay(p.Year, p.Month, 1) }

func (p MonthPeriod) End() Day {
	return NewDay(p.Year, p.Month, 1).AddDays(p.DaysInMonth() - 1)
}

func (p MonthPeriod) Contains(d Day) bool {
	return d.Year() == p.Year && d.Month() == p.Month
}

// DaysInMonth returns the number of calendar days in the month.
func (p MonthPeriod) DaysInMonth() int {
	// Day zero of the next month is the last day of this month.
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Sundays returns the number of Sundays in the month. Standard workdays
// for monthly proration are calendar days minus Sundays.
func (p MonthPeriod) Sundays() int {
	count := 0
	for d := p.Start(); p.Contains(d); d = d.AddDays(1) {
		if d.Weekday() == time.Sunday {
			count++
		}
	}
	return count
}

func (p MonthPeriod) String() string { return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month)) }

// ParseMonthPeriod parses "2006-01".
func ParseMonthPeriod(s string) (MonthPeriod, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthPeriod{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return MonthPeriod{Year: t.Year(), Month: t.Month()}, nil
}
