package salaryadvance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusDisbursed = "disbursed"
	StatusRepaid    = "repaid"
)

type SalaryAdvance struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmployeeID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	AdvanceNumber    string          `gorm:"type:varchar(50);not null"`
	AdvanceAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	RequestedDate    time.Time       `gorm:"type:date;not null"`
	ApprovedDate     *time.Time      `gorm:"type:date"`
	DisbursedDate    *time.Time      `gorm:"type:date"`
	RepaymentMonths  int             `gorm:"not null;default:1"`
	MonthlyDeduction decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	RemainingAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Status           string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	ApprovedBy       *uuid.UUID      `gorm:"type:uuid"`
	Reason           *string         `gorm:"type:text"`
	Notes            *string         `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (SalaryAdvance) TableName() string {
	return "salary_advances"
}

// Recover deducts the next repayment, min(monthly, remaining), and returns
// it. The advance flips to repaid exactly when nothing remains.
func (a *SalaryAdvance) Recover() decimal.Decimal {
	if a.Status != StatusDisbursed || !a.RemainingAmount.IsPositive() {
		return decimal.Zero
	}

	amount := decimal.Min(a.MonthlyDeduction, a.RemainingAmount)
	a.RemainingAmount = a.RemainingAmount.Sub(amount)
	if a.RemainingAmount.IsZero() {
		a.Status = StatusRepaid
	}
	return amount
}

// Restore gives back a repayment taken by Recover.
func (a *SalaryAdvance) Restore(amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	a.RemainingAmount = decimal.Min(a.RemainingAmount.Add(amount), a.AdvanceAmount)
	if a.Status == StatusRepaid {
		a.Status = StatusDisbursed
	}
}
