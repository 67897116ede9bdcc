package payrollrun

import "github.com/shopspring/decimal"

type CreateRunRequest struct {
	RunType         string   `json:"run_type" binding:"required,oneof=department company branch custom all"`
	PayrollPeriodID string   `json:"payroll_period_id" binding:"required,uuid"`
	DepartmentID    string   `json:"department_id" binding:"omitempty,uuid"`
	BranchID        string   `json:"branch_id" binding:"omitempty,uuid"`
	EmployeeIDs     []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
	Notes           *string  `json:"notes"`
	// Async queues the run for the consumer instead of processing it in the
	// request.
	Async bool `json:"async"`
}

type ListRunsQuery struct {
	Status          string `form:"status" binding:"omitempty,oneof=pending processing completed failed"`
	PayrollPeriodID string `form:"payroll_period_id" binding:"omitempty,uuid"`
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
}

type RunResponse struct {
	ID                 string          `json:"id"`
	RunNumber          string          `json:"run_number"`
	RunType            string          `json:"run_type"`
	PayrollPeriodID    string          `json:"payroll_period_id"`
	DepartmentID       *string         `json:"department_id,omitempty"`
	BranchID           *string         `json:"branch_id,omitempty"`
	EmployeeIDs        []string        `json:"employee_ids,omitempty"`
	Status             string          `json:"status"`
	TotalEmployees     int             `json:"total_employees"`
	ProcessedEmployees int             `json:"processed_employees"`
	FailedEmployees    int             `json:"failed_employees"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	StartedBy          *string         `json:"started_by,omitempty"`
	StartedAt          *string         `json:"started_at,omitempty"`
	CompletedBy        *string         `json:"completed_by,omitempty"`
	CompletedAt        *string         `json:"completed_at,omitempty"`
	Notes              *string         `json:"notes,omitempty"`
	ErrorLog           string          `json:"error_log"`
}
