package loan

import "github.com/shopspring/decimal"

type CreateLoanRequest struct {
	EmployeeID   string           `json:"employee_id" binding:"required,uuid"`
	LoanType     string           `json:"loan_type" binding:"required,oneof=personal housing vehicle education medical other"`
	LoanAmount   decimal.Decimal  `json:"loan_amount"`
	InterestRate *decimal.Decimal `json:"interest_rate"`
	TenureMonths int              `json:"tenure_months" binding:"required,gte=1,lte=360"`
	StartDate    string           `json:"start_date" binding:"required,datetime=2006-01-02"`
	Notes        *string          `json:"notes"`
}

type ListLoansQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected active closed"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type LoanResponse struct {
	ID               string          `json:"id"`
	LoanNumber       string          `json:"loan_number"`
	EmployeeID       string          `json:"employee_id"`
	LoanType         string          `json:"loan_type"`
	LoanAmount       decimal.Decimal `json:"loan_amount"`
	InterestRate     decimal.Decimal `json:"interest_rate"`
	TenureMonths     int             `json:"tenure_months"`
	EMIAmount        decimal.Decimal `json:"emi_amount"`
	StartDate        string          `json:"start_date"`
	EndDate          *string         `json:"end_date,omitempty"`
	Status           string          `json:"status"`
	PrincipalBalance decimal.Decimal `json:"principal_balance"`
	InterestBalance  decimal.Decimal `json:"interest_balance"`
	ApprovedBy       *string         `json:"approved_by,omitempty"`
	ApprovedAt       *string         `json:"approved_at,omitempty"`
	DisbursedAt      *string         `json:"disbursed_at,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
}

type InstallmentResponse struct {
	ID                string          `json:"id"`
	InstallmentNumber int             `json:"installment_number"`
	DueDate           string          `json:"due_date"`
	PrincipalAmount   decimal.Decimal `json:"principal_amount"`
	InterestAmount    decimal.Decimal `json:"interest_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Status            string          `json:"status"`
	PaidDate          *string         `json:"paid_date,omitempty"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	PayrollID         *string         `json:"payroll_id,omitempty"`
}
