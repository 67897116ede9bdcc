package loan

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	EmployeeID string
	Status     string
}

//go:generate mockgen -source=loan_repo.go -destination=mock/loan_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, loan *Loan) error
	Update(ctx context.Context, loan *Loan) error
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Loan, error)
	FindByIDForUpdate(ctx context.Context, companyID string, id string) (*Loan, error)
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]Loan, error)
	FindActiveByEmployeeForUpdate(ctx context.Context, companyID string, employeeID string) ([]Loan, error)

	CreateInstallments(ctx context.Context, installments []LoanInstallment) error
	UpdateInstallment(ctx context.Context, installment *LoanInstallment) error
	FindInstallments(ctx context.Context, companyID string, loanID string) ([]LoanInstallment, error)
	FindCollectableInstallment(ctx context.Context, loanID string, from, to time.Time) (*LoanInstallment, error)
	FindInstallmentsByPayroll(ctx context.Context, companyID string, payrollID string) ([]LoanInstallment, error)
	CountUnpaidInstallments(ctx context.Context, loanID string) (int64, error)
	MarkInstallmentsDue(ctx context.Context, today time.Time) (int64, error)
	MarkInstallmentsOverdue(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, loan *Loan) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(loan).Error
}

func (r *repository) Update(ctx context.Context, loan *Loan) error {
	return dbtx.Bind(ctx, r.db, r.tx).Save(loan).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Loan, error) {
	var loan Loan
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&loan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, companyID string, id string) (*Loan, error) {
	var loan Loan
	err := dbtx.Bind(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		First(&loan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]Loan, error) {
	q := dbtx.Bind(ctx, r.db, r.tx).Scopes(tenant.Scope(companyID))
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var loans []Loan
	err := q.Order("created_at DESC").Find(&loans).Error
	return loans, err
}

func (r *repository) FindActiveByEmployeeForUpdate(ctx context.Context, companyID string, employeeID string) ([]Loan, error) {
	var loans []Loan
	err := dbtx.Bind(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ? AND status = ?", employeeID, StatusActive).
		Scopes(tenant.Scope(companyID)).
		Order("start_date ASC").
		Find(&loans).Error
	return loans, err
}

func (r *repository) CreateInstallments(ctx context.Context, installments []LoanInstallment) error {
	if len(installments) == 0 {
		return nil
	}
	return dbtx.Bind(ctx, r.db, r.tx).Create(&installments).Error
}

func (r *repository) UpdateInstallment(ctx context.Context, installment *LoanInstallment) error {
	return dbtx.Bind(ctx, r.db, r.tx).Save(installment).Error
}

func (r *repository) FindInstallments(ctx context.Context, companyID string, loanID string) ([]LoanInstallment, error) {
	var installments []LoanInstallment
	err := dbtx.Bind(ctx, r.db, r.tx).
		Where("loan_id = ?", loanID).
		Scopes(tenant.Scope(companyID)).
		Order("installment_number ASC").
		Find(&installments).Error
	return installments, err
}

// FindCollectableInstallment returns the lowest numbered pending or due
// installment falling in [from, to], or nil when there is none.
func (r *repository) FindCollectableInstallment(ctx context.Context, loanID string, from, to time.Time) (*LoanInstallment, error) {
	var inst LoanInstallment
	err := dbtx.Bind(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		Where("status IN ?", []string{InstallmentPending, InstallmentDue}).
		Where("due_date BETWEEN ? AND ?", from.Format(time.DateOnly), to.Format(time.DateOnly)).
		Order("installment_number ASC").
		First(&inst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (r *repository) FindInstallmentsByPayroll(ctx context.Context, companyID string, payrollID string) ([]LoanInstallment, error) {
	var installments []LoanInstallment
	err := dbtx.Bind(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("payroll_id = ?", payrollID).
		Scopes(tenant.Scope(companyID)).
		Find(&installments).Error
	return installments, err
}

func (r *repository) CountUnpaidInstallments(ctx context.Context, loanID string) (int64, error) {
	var n int64
	err := dbtx.Bind(ctx, r.db, r.tx).
		Model(&LoanInstallment{}).
		Where("loan_id = ? AND status <> ?", loanID, InstallmentPaid).
		Count(&n).Error
	return n, err
}

func (r *repository) MarkInstallmentsDue(ctx context.Context, today time.Time) (int64, error) {
	res := dbtx.Bind(ctx, r.db, r.tx).
		Model(&LoanInstallment{}).
		Where("status = ? AND due_date <= ?", InstallmentPending, today.Format(time.DateOnly)).
		Updates(map[string]any{"status": InstallmentDue, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (r *repository) MarkInstallmentsOverdue(ctx context.Context, cutoff time.Time) (int64, error) {
	res := dbtx.Bind(ctx, r.db, r.tx).
		Model(&LoanInstallment{}).
		Where("status = ? AND due_date < ?", InstallmentDue, cutoff.Format(time.DateOnly)).
		Updates(map[string]any{"status": InstallmentOverdue, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}
