package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusDraft      = "draft"
	StatusCalculated = "calculated"
	StatusApproved   = "approved"
	StatusPaid       = "paid"
	StatusCancelled  = "cancelled"
)

const (
	SourceComponent = "component"
	SourceLoan      = "loan"
	SourceAdvance   = "advance"

	ItemEarning   = "earning"
	ItemDeduction = "deduction"

	PaymentBankTransfer = "bank_transfer"
	PaymentCheque       = "cheque"
	PaymentCash         = "cash"
	PaymentOnline       = "online"
)

type Payroll struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_payrolls_company_status"`
	PayrollNumber   string     `gorm:"type:varchar(50);not null"`
	EmployeeID      uuid.UUID  `gorm:"type:uuid;not null"`
	PayrollPeriodID uuid.UUID  `gorm:"type:uuid;not null;index"`
	PayrollRunID    *uuid.UUID `gorm:"type:uuid;index"`

	TotalWorkingDays int             `gorm:"not null;default:0"`
	PresentDays      int             `gorm:"not null;default:0"`
	AbsentDays       int             `gorm:"not null;default:0"`
	LeaveDays        int             `gorm:"not null;default:0"`
	HolidayDays      int             `gorm:"not null;default:0"`
	OvertimeHours    decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	BasicSalary         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	HRA                 decimal.Decimal `gorm:"column:hra;type:numeric(14,2);not null;default:0"`
	ConveyanceAllowance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	MedicalAllowance    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	SpecialAllowance    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	OvertimeAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Bonus               decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	OtherEarnings       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	ProvidentFund    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ProfessionalTax  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	IncomeTax        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	LoanDeduction    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	AdvanceDeduction decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	OtherDeductions  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	TotalEarnings   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	GrossSalary     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	NetSalary       decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	Status           string     `gorm:"type:varchar(20);not null;default:'draft';index:idx_payrolls_company_status"`
	PaymentMethod    string     `gorm:"type:varchar(20);not null;default:'bank_transfer'"`
	PaymentDate      *time.Time `gorm:"type:date"`
	PaymentReference *string    `gorm:"type:varchar(100)"`

	CreatedBy   *uuid.UUID `gorm:"type:uuid"`
	ApprovedBy  *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt  *time.Time
	ProcessedBy *uuid.UUID `gorm:"type:uuid"`
	ProcessedAt *time.Time
	Notes       *string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []PayrollItem `gorm:"foreignKey:PayrollID"`
}

func (Payroll) TableName() string {
	return "payrolls"
}

// CalculateTotals rebuilds the four totals from the individual earning and
// deduction fields.
func (p *Payroll) CalculateTotals() {
	p.TotalEarnings = p.BasicSalary.
		Add(p.HRA).
		Add(p.ConveyanceAllowance).
		Add(p.MedicalAllowance).
		Add(p.SpecialAllowance).
		Add(p.OvertimeAmount).
		Add(p.Bonus).
		Add(p.OtherEarnings)

	p.TotalDeductions = p.ProvidentFund.
		Add(p.ProfessionalTax).
		Add(p.IncomeTax).
		Add(p.LoanDeduction).
		Add(p.AdvanceDeduction).
		Add(p.OtherDeductions)

	p.GrossSalary = p.TotalEarnings
	p.NetSalary = p.TotalEarnings.Sub(p.TotalDeductions)
}

func (p *Payroll) BeforeSave(*gorm.DB) error {
	p.CalculateTotals()
	return nil
}

// IsEditable reports whether the computed amounts may still change.
func (p *Payroll) IsEditable() bool {
	return p.Status == StatusDraft || p.Status == StatusCalculated
}

// IsDeletable also admits cancelled payrolls so they can be cleared away.
func (p *Payroll) IsDeletable() bool {
	return p.IsEditable() || p.Status == StatusCancelled
}

// resetAmounts zeroes every computed field ahead of a recalculation.
func (p *Payroll) resetAmounts() {
	zero := decimal.Zero
	p.OvertimeHours = zero
	p.BasicSalary, p.HRA, p.ConveyanceAllowance, p.MedicalAllowance = zero, zero, zero, zero
	p.SpecialAllowance, p.OvertimeAmount, p.OtherEarnings = zero, zero, zero
	p.ProvidentFund, p.ProfessionalTax, p.IncomeTax = zero, zero, zero
	p.LoanDeduction, p.AdvanceDeduction, p.OtherDeductions = zero, zero, zero
}

type PayrollItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CompanyID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Source          string          `gorm:"type:varchar(20);not null"`
	SourceID        *uuid.UUID      `gorm:"type:uuid"`
	Code            string          `gorm:"type:varchar(60);not null"`
	Name            string          `gorm:"type:varchar(120);not null"`
	ItemType        string          `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CalculationNote string          `gorm:"type:text"`
	CreatedAt       time.Time
}

func (PayrollItem) TableName() string {
	return "payroll_items"
}

type Payslip struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	PayrollID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	GeneratedAt  *time.Time
	GeneratedBy  *uuid.UUID `gorm:"type:uuid"`
	DocumentRef  *string    `gorm:"type:varchar(255)"`
	IsDownloaded bool       `gorm:"not null;default:false"`
	DownloadedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Payslip) TableName() string {
	return "payslips"
}
