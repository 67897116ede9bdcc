package payroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/attendance"
	"go-payroll/internal/docnumber"
	"go-payroll/internal/employee"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payrollperiod"
	"go-payroll/internal/salarystructure"
	salarystructureerrors "go-payroll/internal/salarystructure/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sources are the collaborators a payroll is computed from.
type Sources struct {
	Structures salarystructure.Repository
	Attendance attendance.Repository
	Numbers    *docnumber.Generator
	Deductions *DeductionResolver
}

type GenerateInput struct {
	Employee      *employee.Employee
	Period        *payrollperiod.PayrollPeriod
	RunID         *uuid.UUID
	ActorID       string
	Bonus         decimal.Decimal
	PaymentMethod string
	Notes         *string
}

// Generator computes and persists payrolls. Both single requests and batch
// runs go through it so the two paths cannot drift apart.
type Generator struct {
	repo Repository
	src  Sources
}

func NewGenerator(repo Repository, src Sources) *Generator {
	return &Generator{repo: repo, src: src}
}

// Generate creates the payroll of in.Employee for in.Period inside tx,
// together with its items, loan and advance deductions and a payslip stub.
func (g *Generator) Generate(ctx context.Context, tx *sql.Tx, in GenerateInput) (*Payroll, error) {
	companyID := in.Period.CompanyID.String()
	employeeID := in.Employee.ID.String()
	qtx := g.repo.WithTx(tx)

	exists, err := qtx.ExistsForEmployeePeriod(ctx, companyID, employeeID, in.Period.ID.String())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, payrollerrors.ErrPayrollAlreadyExists
	}

	number, err := g.src.Numbers.WithTx(tx).Next(ctx, companyID, docnumber.Payroll, in.Period.StartDate)
	if err != nil {
		return nil, err
	}

	p := &Payroll{
		ID:              uuid.New(),
		CompanyID:       in.Period.CompanyID,
		PayrollNumber:   number,
		EmployeeID:      in.Employee.ID,
		PayrollPeriodID: in.Period.ID,
		PayrollRunID:    in.RunID,
		Bonus:           in.Bonus.Round(2),
		Status:          StatusCalculated,
		PaymentMethod:   in.PaymentMethod,
		PaymentDate:     in.Period.PaymentDate,
		Notes:           in.Notes,
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = PaymentBankTransfer
	}
	if actorUUID, err := uuid.Parse(in.ActorID); err == nil {
		p.CreatedBy = &actorUUID
	}

	items, err := g.compute(ctx, tx, p, in.Period)
	if err != nil {
		return nil, err
	}

	// The row must exist before installments can point at it.
	if err := qtx.Create(ctx, p); err != nil {
		return nil, mapRepositoryError(err)
	}

	deductions, err := g.src.Deductions.Apply(ctx, tx, p, in.Period.StartDate, in.Period.EndDate)
	if err != nil {
		return nil, err
	}
	items = append(items, deductions...)

	if len(deductions) > 0 {
		if err := qtx.Update(ctx, p); err != nil {
			return nil, mapRepositoryError(err)
		}
	}
	if err := qtx.CreateItems(ctx, items); err != nil {
		return nil, err
	}
	if err := qtx.CreatePayslip(ctx, &Payslip{
		ID:        uuid.New(),
		CompanyID: p.CompanyID,
		PayrollID: p.ID,
	}); err != nil {
		return nil, err
	}

	p.Items = items
	return p, nil
}

// Recompute rebuilds an editable payroll from the current structure,
// attendance, loans and advances. Previous deductions are reversed first.
func (g *Generator) Recompute(ctx context.Context, tx *sql.Tx, p *Payroll, period *payrollperiod.PayrollPeriod) error {
	qtx := g.repo.WithTx(tx)

	previous, err := qtx.FindItems(ctx, p.CompanyID.String(), p.ID.String())
	if err != nil {
		return err
	}
	if err := g.src.Deductions.Reverse(ctx, tx, p, previous); err != nil {
		return err
	}
	if err := qtx.DeleteItems(ctx, p.ID.String()); err != nil {
		return err
	}

	items, err := g.compute(ctx, tx, p, period)
	if err != nil {
		return err
	}
	deductions, err := g.src.Deductions.Apply(ctx, tx, p, period.StartDate, period.EndDate)
	if err != nil {
		return err
	}
	items = append(items, deductions...)

	p.Status = StatusCalculated
	if err := qtx.Update(ctx, p); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.CreateItems(ctx, items); err != nil {
		return err
	}

	p.Items = items
	return nil
}

// Release reverses the deductions a payroll drew before it is deleted.
func (g *Generator) Release(ctx context.Context, tx *sql.Tx, p *Payroll) error {
	items, err := g.repo.WithTx(tx).FindItems(ctx, p.CompanyID.String(), p.ID.String())
	if err != nil {
		return err
	}
	return g.src.Deductions.Reverse(ctx, tx, p, items)
}

func (g *Generator) compute(ctx context.Context, tx *sql.Tx, p *Payroll, period *payrollperiod.PayrollPeriod) ([]PayrollItem, error) {
	companyID := p.CompanyID.String()
	employeeID := p.EmployeeID.String()

	structure, err := g.src.Structures.WithTx(tx).FindActiveByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, salarystructureerrors.ErrNoActiveStructure
		}
		return nil, fmt.Errorf("load salary structure: %w", err)
	}

	summary, err := g.src.Attendance.WithTx(tx).Summarize(ctx, companyID, employeeID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("summarize attendance: %w", err)
	}

	return Compute(p, structure, summary), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
