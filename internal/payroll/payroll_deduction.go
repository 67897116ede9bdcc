package payroll

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-payroll/internal/loan"
	"go-payroll/internal/salaryadvance"

	"github.com/shopspring/decimal"
)

// DeductionResolver draws loan installments and advance repayments into a
// payroll. Every call runs on the caller's transaction and locks the rows it
// changes.
type DeductionResolver struct {
	loans    loan.Repository
	advances salaryadvance.Repository
}

func NewDeductionResolver(loans loan.Repository, advances salaryadvance.Repository) *DeductionResolver {
	return &DeductionResolver{loans: loans, advances: advances}
}

// Apply sets p's loan and advance deductions for the period [start, end] and
// returns the matching items.
func (d *DeductionResolver) Apply(ctx context.Context, tx *sql.Tx, p *Payroll, start, end time.Time) ([]PayrollItem, error) {
	companyID := p.CompanyID.String()
	employeeID := p.EmployeeID.String()

	loans := d.loans.WithTx(tx)
	advances := d.advances.WithTx(tx)

	p.LoanDeduction = decimal.Zero
	p.AdvanceDeduction = decimal.Zero

	var items []PayrollItem

	activeLoans, err := loans.FindActiveByEmployeeForUpdate(ctx, companyID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load active loans: %w", err)
	}
	for i := range activeLoans {
		l := &activeLoans[i]

		inst, err := loans.FindCollectableInstallment(ctx, l.ID.String(), start, end)
		if err != nil {
			return nil, fmt.Errorf("load installment of %s: %w", l.LoanNumber, err)
		}
		if inst == nil {
			continue
		}

		l.ApplyPayment(inst, p.ID, end)
		if err := loans.UpdateInstallment(ctx, inst); err != nil {
			return nil, err
		}

		unpaid, err := loans.CountUnpaidInstallments(ctx, l.ID.String())
		if err != nil {
			return nil, err
		}
		if unpaid == 0 {
			l.Status = loan.StatusClosed
		}
		if err := loans.Update(ctx, l); err != nil {
			return nil, err
		}

		p.LoanDeduction = p.LoanDeduction.Add(inst.TotalAmount)
		loanID := l.ID
		items = append(items, PayrollItem{
			PayrollID:       p.ID,
			CompanyID:       p.CompanyID,
			Source:          SourceLoan,
			SourceID:        &loanID,
			Code:            "LOAN-" + l.LoanNumber,
			Name:            "Loan repayment",
			ItemType:        ItemDeduction,
			Amount:          inst.TotalAmount,
			CalculationNote: fmt.Sprintf("Loan installment #%d", inst.InstallmentNumber),
		})
	}

	outstanding, err := advances.FindOutstandingByEmployeeForUpdate(ctx, companyID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("load outstanding advances: %w", err)
	}
	for i := range outstanding {
		a := &outstanding[i]

		amount := a.Recover()
		if !amount.IsPositive() {
			continue
		}
		if err := advances.Update(ctx, a); err != nil {
			return nil, err
		}

		p.AdvanceDeduction = p.AdvanceDeduction.Add(amount)
		advanceID := a.ID
		items = append(items, PayrollItem{
			PayrollID:       p.ID,
			CompanyID:       p.CompanyID,
			Source:          SourceAdvance,
			SourceID:        &advanceID,
			Code:            "ADV-" + a.AdvanceNumber,
			Name:            "Salary advance",
			ItemType:        ItemDeduction,
			Amount:          amount,
			CalculationNote: "Salary advance repayment",
		})
	}

	p.CalculateTotals()
	return items, nil
}

// Reverse undoes Apply for a payroll that is being recalculated or removed.
// items are the payroll's previously stored items.
func (d *DeductionResolver) Reverse(ctx context.Context, tx *sql.Tx, p *Payroll, items []PayrollItem) error {
	companyID := p.CompanyID.String()

	loans := d.loans.WithTx(tx)
	advances := d.advances.WithTx(tx)

	installments, err := loans.FindInstallmentsByPayroll(ctx, companyID, p.ID.String())
	if err != nil {
		return fmt.Errorf("load installments of payroll: %w", err)
	}
	for i := range installments {
		inst := &installments[i]

		l, err := loans.FindByIDForUpdate(ctx, companyID, inst.LoanID.String())
		if err != nil {
			return fmt.Errorf("load loan %s: %w", inst.LoanID, err)
		}
		l.ReversePayment(inst)
		if err := loans.UpdateInstallment(ctx, inst); err != nil {
			return err
		}
		if err := loans.Update(ctx, l); err != nil {
			return err
		}
	}

	for _, item := range items {
		if item.Source != SourceAdvance || item.SourceID == nil {
			continue
		}

		a, err := advances.FindByIDForUpdate(ctx, companyID, item.SourceID.String())
		if err != nil {
			return fmt.Errorf("load advance %s: %w", item.SourceID, err)
		}
		a.Restore(item.Amount)
		if err := advances.Update(ctx, a); err != nil {
			return err
		}
	}

	p.LoanDeduction = decimal.Zero
	p.AdvanceDeduction = decimal.Zero
	p.CalculateTotals()
	return nil
}
