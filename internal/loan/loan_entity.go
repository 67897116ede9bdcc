package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusActive   = "active"
	StatusClosed   = "closed"

	InstallmentPending = "pending"
	InstallmentDue     = "due"
	InstallmentPaid    = "paid"
	InstallmentPartial = "partial"
	InstallmentOverdue = "overdue"
)

type Loan struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	EmployeeID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	LoanNumber       string          `gorm:"type:varchar(50);not null"`
	LoanType         string          `gorm:"type:varchar(20);not null"`
	LoanAmount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	InterestRate     decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	TenureMonths     int             `gorm:"not null"`
	EMIAmount        decimal.Decimal `gorm:"column:emi_amount;type:numeric(14,2);not null"`
	StartDate        time.Time       `gorm:"type:date;not null"`
	EndDate          *time.Time      `gorm:"type:date"`
	Status           string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	PrincipalBalance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	InterestBalance  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ApprovedBy       *uuid.UUID      `gorm:"type:uuid"`
	ApprovedAt       *time.Time
	DisbursedAt      *time.Time
	Notes            *string    `gorm:"type:text"`
	CreatedBy        *uuid.UUID `gorm:"type:uuid"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Loan) TableName() string {
	return "loans"
}

type LoanInstallment struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	LoanID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	InstallmentNumber int             `gorm:"not null"`
	DueDate           time.Time       `gorm:"type:date;not null;index"`
	PrincipalAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	InterestAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalAmount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Status            string          `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaidDate          *time.Time      `gorm:"type:date"`
	PaidAmount        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	PayrollID         *uuid.UUID      `gorm:"type:uuid;index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (LoanInstallment) TableName() string {
	return "loan_installments"
}

func (i LoanInstallment) IsCollectable() bool {
	return i.Status == InstallmentPending || i.Status == InstallmentDue
}

// ApplyPayment records inst as collected by payrollID and draws down the
// loan balances. Balances never go below zero.
func (l *Loan) ApplyPayment(inst *LoanInstallment, payrollID uuid.UUID, paidOn time.Time) {
	inst.Status = InstallmentPaid
	inst.PaidAmount = inst.TotalAmount
	inst.PaidDate = &paidOn
	inst.PayrollID = &payrollID

	l.PrincipalBalance = decimal.Max(l.PrincipalBalance.Sub(inst.PrincipalAmount), decimal.Zero)
	l.InterestBalance = decimal.Max(l.InterestBalance.Sub(inst.InterestAmount), decimal.Zero)
}

// ReversePayment undoes ApplyPayment and reopens a closed loan.
func (l *Loan) ReversePayment(inst *LoanInstallment) {
	inst.Status = InstallmentPending
	inst.PaidAmount = decimal.Zero
	inst.PaidDate = nil
	inst.PayrollID = nil

	l.PrincipalBalance = l.PrincipalBalance.Add(inst.PrincipalAmount)
	l.InterestBalance = l.InterestBalance.Add(inst.InterestAmount)
	if l.Status == StatusClosed {
		l.Status = StatusActive
	}
}
