package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	standardMonthDays = 22
	standardDayHours  = 8
)

var overtimeMultiplier = decimal.NewFromFloat(1.5)

// Summary is the attendance picture of one employee over a date range.
type Summary struct {
	TotalWorkingDays int
	PresentDays      int
	AbsentDays       int
	LeaveDays        int
	HolidayDays      int
	OvertimeHours    decimal.Decimal
}

// statusCount is one row of the grouped summary query.
type statusCount struct {
	Status        string
	Days          int
	OvertimeHours decimal.Decimal
}

func buildSummary(start, end time.Time, rows []statusCount) Summary {
	s := Summary{
		TotalWorkingDays: CalendarDays(start, end),
		OvertimeHours:    decimal.Zero,
	}

	for _, row := range rows {
		switch row.Status {
		case StatusPresent:
			s.PresentDays += row.Days
		case StatusAbsent:
			s.AbsentDays += row.Days
		case StatusLeave:
			s.LeaveDays += row.Days
		case StatusHoliday:
			s.HolidayDays += row.Days
		}
		s.OvertimeHours = s.OvertimeHours.Add(row.OvertimeHours)
	}

	return s
}

// CalendarDays counts the days of [start, end], both inclusive.
func CalendarDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// OvertimeAmount pays overtime at 1.5 times the hourly rate of a 22 day, 8
// hour month.
func (s Summary) OvertimeAmount(basicSalary decimal.Decimal) decimal.Decimal {
	if s.OvertimeHours.IsZero() || basicSalary.IsZero() {
		return decimal.Zero
	}
	hourly := basicSalary.Div(decimal.NewFromInt(standardMonthDays * standardDayHours))
	return s.OvertimeHours.Mul(hourly).Mul(overtimeMultiplier).Round(2)
}
