package loan

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	monthsPerYearPct = decimal.NewFromInt(1200)
	one              = decimal.NewFromInt(1)
)

// EMI is the fixed monthly payment of a reducing balance loan:
// P*r*(1+r)^n / ((1+r)^n - 1) with r = annualRate/1200, or P/n without
// interest.
func EMI(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(months))
	if !annualRate.IsPositive() {
		return principal.Div(n).Round(2)
	}

	r := annualRate.Div(monthsPerYearPct)
	growth := one.Add(r).Pow(n)
	return principal.Mul(r).Mul(growth).Div(growth.Sub(one)).Round(2)
}

// BuildSchedule amortizes principal into monthly installments, the first due
// one month after start. The final installment absorbs rounding so principal
// sums exactly to the loan amount.
func BuildSchedule(l *Loan) []LoanInstallment {
	emi := EMI(l.LoanAmount, l.InterestRate, l.TenureMonths)
	r := decimal.Zero
	if l.InterestRate.IsPositive() {
		r = l.InterestRate.Div(monthsPerYearPct)
	}

	installments := make([]LoanInstallment, 0, l.TenureMonths)
	balance := l.LoanAmount
	for i := 1; i <= l.TenureMonths; i++ {
		interest := balance.Mul(r).Round(2)
		principal := emi.Sub(interest)
		if i == l.TenureMonths || principal.GreaterThan(balance) {
			principal = balance
		}
		balance = balance.Sub(principal)

		installments = append(installments, LoanInstallment{
			ID:                uuid.New(),
			CompanyID:         l.CompanyID,
			LoanID:            l.ID,
			InstallmentNumber: i,
			DueDate:           addMonths(l.StartDate, i),
			PrincipalAmount:   principal,
			InterestAmount:    interest,
			TotalAmount:       principal.Add(interest),
			Status:            InstallmentPending,
			PaidAmount:        decimal.Zero,
		})
	}
	return installments
}

// addMonths moves t forward n months, clamping to the last day of the target
// month (Jan 31 + 1 month is Feb 28, not Mar 3).
func addMonths(t time.Time, n int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, time.UTC)
}
