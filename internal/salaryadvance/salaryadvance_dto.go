package salaryadvance

import "github.com/shopspring/decimal"

type CreateAdvanceRequest struct {
	EmployeeID      string          `json:"employee_id" binding:"required,uuid"`
	AdvanceAmount   decimal.Decimal `json:"advance_amount"`
	RequestedDate   string          `json:"requested_date" binding:"omitempty,datetime=2006-01-02"`
	RepaymentMonths int             `json:"repayment_months" binding:"omitempty,gte=1,lte=24"`
	Reason          *string         `json:"reason"`
	Notes           *string         `json:"notes"`
}

type ListAdvancesQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected disbursed repaid"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type AdvanceResponse struct {
	ID               string          `json:"id"`
	AdvanceNumber    string          `json:"advance_number"`
	EmployeeID       string          `json:"employee_id"`
	AdvanceAmount    decimal.Decimal `json:"advance_amount"`
	RequestedDate    string          `json:"requested_date"`
	ApprovedDate     *string         `json:"approved_date,omitempty"`
	DisbursedDate    *string         `json:"disbursed_date,omitempty"`
	RepaymentMonths  int             `json:"repayment_months"`
	MonthlyDeduction decimal.Decimal `json:"monthly_deduction"`
	RemainingAmount  decimal.Decimal `json:"remaining_amount"`
	Status           string          `json:"status"`
	ApprovedBy       *string         `json:"approved_by,omitempty"`
	Reason           *string         `json:"reason,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
}
