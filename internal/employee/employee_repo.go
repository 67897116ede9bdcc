package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

// EligibilityFilter narrows the employees a payroll run targets. Empty fields
// do not filter.
type EligibilityFilter struct {
	DepartmentID string
	BranchID     string
	EmployeeIDs  []string
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error)
	FindEligibleForPayroll(ctx context.Context, companyID string, filter EligibilityFilter) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Employee, error) {
	var empl Employee
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&empl, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, employeeerrors.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find employee %s: %w", id, err)
	}
	return &empl, nil
}

// FindEligibleForPayroll returns active employees that have an active salary
// structure, ordered by employee number.
func (r *repository) FindEligibleForPayroll(ctx context.Context, companyID string, filter EligibilityFilter) ([]Employee, error) {
	q := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.ScopeTable("employees", companyID)).
		Where("employees.employment_status = ?", StatusActive).
		Where("EXISTS (SELECT 1 FROM salary_structures ss WHERE ss.employee_id = employees.id AND ss.is_active = TRUE AND ss.deleted_at IS NULL)")

	if filter.DepartmentID != "" {
		q = q.Where("employees.department_id = ?", filter.DepartmentID)
	}
	if filter.BranchID != "" {
		q = q.Where("employees.branch_id = ?", filter.BranchID)
	}
	if len(filter.EmployeeIDs) > 0 {
		q = q.Where("employees.id IN ?", filter.EmployeeIDs)
	}

	var employees []Employee
	err := q.Order("employees.employee_number ASC").Find(&employees).Error
	return employees, err
}
