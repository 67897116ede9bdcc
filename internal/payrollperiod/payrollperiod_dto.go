package payrollperiod

type CreatePeriodRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	PeriodType  string  `json:"period_type" binding:"omitempty,oneof=monthly biweekly weekly custom"`
	StartDate   string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     string  `json:"end_date" binding:"required,datetime=2006-01-02"`
	PaymentDate *string `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	Notes       *string `json:"notes"`
}

type ListPeriodsQuery struct {
	IsProcessed *bool `form:"is_processed"`
	Year        int   `form:"year" binding:"omitempty,gte=1900,lte=9999"`
	Page        int   `form:"page"`
	PageSize    int   `form:"page_size"`
}

type PeriodResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	PeriodType  string  `json:"period_type"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	PaymentDate *string `json:"payment_date,omitempty"`
	IsLocked    bool    `json:"is_locked"`
	IsProcessed bool    `json:"is_processed"`
	ProcessedAt *string `json:"processed_at,omitempty"`
	ProcessedBy *string `json:"processed_by,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}
