package salarystructure

import "github.com/shopspring/decimal"

type ComponentValueRequest struct {
	ComponentID string           `json:"component_id" binding:"required,uuid"`
	Amount      *decimal.Decimal `json:"amount"`
	Percentage  *decimal.Decimal `json:"percentage"`
	Formula     *string          `json:"formula"`
}

type CreateStructureRequest struct {
	EmployeeID    string                  `json:"employee_id" binding:"required,uuid"`
	EffectiveFrom string                  `json:"effective_from" binding:"required,datetime=2006-01-02"`
	EffectiveTo   *string                 `json:"effective_to" binding:"omitempty,datetime=2006-01-02"`
	BasicSalary   decimal.Decimal         `json:"basic_salary"`
	IsActive      *bool                   `json:"is_active"`
	Notes         *string                 `json:"notes"`
	Components    []ComponentValueRequest `json:"components" binding:"dive"`
}

type UpdateStructureRequest = CreateStructureRequest

type ListStructuresQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	IsActive   *bool  `form:"is_active"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

type ComponentValueResponse struct {
	ComponentID     string          `json:"component_id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	ComponentType   string          `json:"component_type"`
	CalculationType string          `json:"calculation_type"`
	Amount          decimal.Decimal `json:"amount"`
	Percentage      decimal.Decimal `json:"percentage"`
	Formula         *string         `json:"formula,omitempty"`
}

type StructureResponse struct {
	ID            string                   `json:"id"`
	EmployeeID    string                   `json:"employee_id"`
	EffectiveFrom string                   `json:"effective_from"`
	EffectiveTo   *string                  `json:"effective_to,omitempty"`
	BasicSalary   decimal.Decimal          `json:"basic_salary"`
	TotalCTC      decimal.Decimal          `json:"total_ctc"`
	IsActive      bool                     `json:"is_active"`
	Notes         *string                  `json:"notes,omitempty"`
	Components    []ComponentValueResponse `json:"components"`
}

// EmployeeStructureResponse is the compact shape used by payroll forms.
type EmployeeStructureResponse struct {
	StructureID string                   `json:"structure_id"`
	BasicSalary decimal.Decimal          `json:"basic_salary"`
	Components  []ComponentValueResponse `json:"components"`
}
