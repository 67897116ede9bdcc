package attendance

import "github.com/shopspring/decimal"

type SummaryQuery struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
	StartDate  string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string `form:"end_date" binding:"required,datetime=2006-01-02"`
}

type SummaryResponse struct {
	EmployeeID       string          `json:"employee_id"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	TotalWorkingDays int             `json:"total_working_days"`
	PresentDays      int             `json:"present_days"`
	AbsentDays       int             `json:"absent_days"`
	LeaveDays        int             `json:"leave_days"`
	HolidayDays      int             `json:"holiday_days"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`
}
