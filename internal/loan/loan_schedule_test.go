package loan_test

import (
	"testing"
	"time"

	"go-payroll/internal/loan"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEMI(t *testing.T) {
	tests := []struct {
		name      string
		principal int64
		rate      string
		months    int
		want      string
	}{
		{"interest free", 12000, "0", 12, "1000"},
		{"twelve percent", 12000, "12", 12, "1066.19"},
		{"no tenure", 12000, "12", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := loan.EMI(decimal.NewFromInt(tt.principal), decimal.RequireFromString(tt.rate), tt.months)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestBuildSchedule(t *testing.T) {
	l := &loan.Loan{
		ID:           uuid.New(),
		CompanyID:    uuid.New(),
		LoanAmount:   decimal.NewFromInt(12000),
		InterestRate: decimal.NewFromInt(12),
		TenureMonths: 12,
		StartDate:    time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	schedule := loan.BuildSchedule(l)

	assert.Len(t, schedule, 12)

	principal := decimal.Zero
	for i, inst := range schedule {
		assert.Equal(t, i+1, inst.InstallmentNumber)
		assert.Equal(t, loan.InstallmentPending, inst.Status)
		assert.Equal(t, l.ID, inst.LoanID)
		assert.True(t, inst.TotalAmount.Equal(inst.PrincipalAmount.Add(inst.InterestAmount)))
		principal = principal.Add(inst.PrincipalAmount)
	}
	assert.True(t, principal.Equal(l.LoanAmount), "principal sums to %s", principal)

	assert.Equal(t, "120", schedule[0].InterestAmount.String())
	assert.Equal(t, "946.19", schedule[0].PrincipalAmount.String())
	assert.Equal(t, "2026-02-28", schedule[0].DueDate.Format(time.DateOnly))
	assert.Equal(t, "2026-03-31", schedule[1].DueDate.Format(time.DateOnly))
	assert.Equal(t, "2027-01-31", schedule[11].DueDate.Format(time.DateOnly))
}

func TestBuildSchedule_InterestFree(t *testing.T) {
	l := &loan.Loan{
		LoanAmount:   decimal.NewFromInt(1000),
		TenureMonths: 3,
		StartDate:    time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC),
	}

	schedule := loan.BuildSchedule(l)

	assert.Len(t, schedule, 3)
	assert.Equal(t, "333.33", schedule[0].TotalAmount.String())
	assert.Equal(t, "333.33", schedule[1].TotalAmount.String())
	assert.Equal(t, "333.34", schedule[2].TotalAmount.String())
	for _, inst := range schedule {
		assert.True(t, inst.InterestAmount.IsZero())
	}
}

func TestLoan_ApplyAndReversePayment(t *testing.T) {
	payrollID := uuid.New()
	paidOn := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)

	l := &loan.Loan{
		Status:           loan.StatusActive,
		PrincipalBalance: decimal.NewFromInt(500),
		InterestBalance:  decimal.NewFromInt(10),
	}
	inst := &loan.LoanInstallment{
		Status:          loan.InstallmentDue,
		PrincipalAmount: decimal.NewFromInt(500),
		InterestAmount:  decimal.NewFromInt(10),
		TotalAmount:     decimal.NewFromInt(510),
	}

	l.ApplyPayment(inst, payrollID, paidOn)

	assert.Equal(t, loan.InstallmentPaid, inst.Status)
	assert.Equal(t, "510", inst.PaidAmount.String())
	assert.Equal(t, &payrollID, inst.PayrollID)
	assert.True(t, l.PrincipalBalance.IsZero())
	assert.True(t, l.InterestBalance.IsZero())

	l.Status = loan.StatusClosed
	l.ReversePayment(inst)

	assert.Equal(t, loan.InstallmentPending, inst.Status)
	assert.Nil(t, inst.PayrollID)
	assert.Nil(t, inst.PaidDate)
	assert.True(t, inst.PaidAmount.IsZero())
	assert.Equal(t, "500", l.PrincipalBalance.String())
	assert.Equal(t, loan.StatusActive, l.Status)
}
