package payrollcomponent

import "github.com/shopspring/decimal"

type CreateComponentRequest struct {
	Code            string          `json:"code" binding:"required,max=20"`
	Name            string          `json:"name" binding:"required,max=100"`
	ComponentType   string          `json:"component_type" binding:"required,oneof=earning deduction"`
	CalculationType string          `json:"calculation_type" binding:"required,oneof=fixed percentage formula attendance"`
	DefaultValue    decimal.Decimal `json:"default_value"`
	PercentageOf    *string         `json:"percentage_of" binding:"omitempty,max=50"`
	Formula         *string         `json:"formula"`
	IsTaxable       *bool           `json:"is_taxable"`
	IsActive        *bool           `json:"is_active"`
	Priority        int             `json:"priority" binding:"gte=0"`
	Description     *string         `json:"description"`
}

type UpdateComponentRequest = CreateComponentRequest

type ListComponentsQuery struct {
	ComponentType string `form:"component_type" binding:"omitempty,oneof=earning deduction"`
	IsActive      *bool  `form:"is_active"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
}

type ComponentResponse struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	ComponentType   string          `json:"component_type"`
	CalculationType string          `json:"calculation_type"`
	DefaultValue    decimal.Decimal `json:"default_value"`
	PercentageOf    *string         `json:"percentage_of,omitempty"`
	Formula         *string         `json:"formula,omitempty"`
	Slot            string          `json:"slot"`
	IsTaxable       bool            `json:"is_taxable"`
	IsActive        bool            `json:"is_active"`
	Priority        int             `json:"priority"`
	Description     *string         `json:"description,omitempty"`
}

type ComponentOption struct {
	ID              string          `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	ComponentType   string          `json:"component_type"`
	CalculationType string          `json:"calculation_type"`
	DefaultValue    decimal.Decimal `json:"default_value"`
}
