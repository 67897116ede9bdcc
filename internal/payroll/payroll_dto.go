package payroll

import "github.com/shopspring/decimal"

type CreatePayrollRequest struct {
	EmployeeID      string           `json:"employee_id" binding:"required,uuid"`
	PayrollPeriodID string           `json:"payroll_period_id" binding:"required,uuid"`
	Bonus           *decimal.Decimal `json:"bonus"`
	PaymentMethod   string           `json:"payment_method" binding:"omitempty,oneof=bank_transfer cheque cash online"`
	Notes           *string          `json:"notes"`
}

type ListPayrollsQuery struct {
	Status          string `form:"status" binding:"omitempty,oneof=draft calculated approved paid cancelled"`
	PayrollPeriodID string `form:"payroll_period_id" binding:"omitempty,uuid"`
	EmployeeID      string `form:"employee_id" binding:"omitempty,uuid"`
	DepartmentID    string `form:"department_id" binding:"omitempty,uuid"`
	PayrollRunID    string `form:"payroll_run_id" binding:"omitempty,uuid"`
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
}

type PayPayrollRequest struct {
	PaymentMethod    string  `json:"payment_method" binding:"omitempty,oneof=bank_transfer cheque cash online"`
	PaymentDate      string  `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	PaymentReference *string `json:"payment_reference" binding:"omitempty,max=100"`
}

type SummaryQuery struct {
	Year int `form:"year" binding:"omitempty,gte=1900,lte=9999"`
}

type PayrollResponse struct {
	ID              string  `json:"id"`
	PayrollNumber   string  `json:"payroll_number"`
	EmployeeID      string  `json:"employee_id"`
	PayrollPeriodID string  `json:"payroll_period_id"`
	PayrollRunID    *string `json:"payroll_run_id,omitempty"`

	TotalWorkingDays int             `json:"total_working_days"`
	PresentDays      int             `json:"present_days"`
	AbsentDays       int             `json:"absent_days"`
	LeaveDays        int             `json:"leave_days"`
	HolidayDays      int             `json:"holiday_days"`
	OvertimeHours    decimal.Decimal `json:"overtime_hours"`

	BasicSalary         decimal.Decimal `json:"basic_salary"`
	HRA                 decimal.Decimal `json:"hra"`
	ConveyanceAllowance decimal.Decimal `json:"conveyance_allowance"`
	MedicalAllowance    decimal.Decimal `json:"medical_allowance"`
	SpecialAllowance    decimal.Decimal `json:"special_allowance"`
	OvertimeAmount      decimal.Decimal `json:"overtime_amount"`
	Bonus               decimal.Decimal `json:"bonus"`
	OtherEarnings       decimal.Decimal `json:"other_earnings"`

	ProvidentFund    decimal.Decimal `json:"provident_fund"`
	ProfessionalTax  decimal.Decimal `json:"professional_tax"`
	IncomeTax        decimal.Decimal `json:"income_tax"`
	LoanDeduction    decimal.Decimal `json:"loan_deduction"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	OtherDeductions  decimal.Decimal `json:"other_deductions"`

	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	GrossSalary     decimal.Decimal `json:"gross_salary"`
	NetSalary       decimal.Decimal `json:"net_salary"`

	Status           string  `json:"status"`
	PaymentMethod    string  `json:"payment_method"`
	PaymentDate      *string `json:"payment_date,omitempty"`
	PaymentReference *string `json:"payment_reference,omitempty"`
	CreatedBy        *string `json:"created_by,omitempty"`
	ApprovedBy       *string `json:"approved_by,omitempty"`
	ApprovedAt       *string `json:"approved_at,omitempty"`
	ProcessedBy      *string `json:"processed_by,omitempty"`
	ProcessedAt      *string `json:"processed_at,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

type PayrollItemResponse struct {
	ID              string          `json:"id"`
	Source          string          `json:"source"`
	SourceID        *string         `json:"source_id,omitempty"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	ItemType        string          `json:"item_type"`
	Amount          decimal.Decimal `json:"amount"`
	CalculationNote string          `json:"calculation_note"`
}

type PayrollItemsResponse struct {
	PayrollID       string                `json:"payroll_id"`
	Earnings        []PayrollItemResponse `json:"earnings"`
	Deductions      []PayrollItemResponse `json:"deductions"`
	TotalEarnings   decimal.Decimal       `json:"total_earnings"`
	TotalDeductions decimal.Decimal       `json:"total_deductions"`
	NetSalary       decimal.Decimal       `json:"net_salary"`
}

type PayslipResponse struct {
	ID           string  `json:"id"`
	PayrollID    string  `json:"payroll_id"`
	Generated    bool    `json:"generated"`
	GeneratedAt  *string `json:"generated_at,omitempty"`
	GeneratedBy  *string `json:"generated_by,omitempty"`
	DocumentRef  *string `json:"document_ref,omitempty"`
	IsDownloaded bool    `json:"is_downloaded"`
}

type MonthlySummary struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
	Count  int64           `json:"count"`
}

type DepartmentSummary struct {
	DepartmentID *string         `json:"department_id"`
	Amount       decimal.Decimal `json:"amount"`
	Count        int64           `json:"count"`
}

type SummaryResponse struct {
	Year              int                 `json:"year"`
	MonthlySummary    []MonthlySummary    `json:"monthly_summary"`
	DepartmentSummary []DepartmentSummary `json:"department_summary"`
	TotalPaid         decimal.Decimal     `json:"total_paid"`
	PendingPayrolls   int64               `json:"pending_payrolls"`
}
