package salaryadvance

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	EmployeeID string
	Status     string
}

//go:generate mockgen -source=salaryadvance_repo.go -destination=mock/salaryadvance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, advance *SalaryAdvance) error
	Update(ctx context.Context, advance *SalaryAdvance) error
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*SalaryAdvance, error)
	FindByIDForUpdate(ctx context.Context, companyID string, id string) (*SalaryAdvance, error)
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]SalaryAdvance, error)
	FindOutstandingByEmployeeForUpdate(ctx context.Context, companyID string, employeeID string) ([]SalaryAdvance, error)
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

func (r *repository) Create(ctx context.Context, advance *SalaryAdvance) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(advance).Error
}

func (r *repository) Update(ctx context.Context, advance *SalaryAdvance) error {
	return dbtx.Bind(ctx, r.db, r.tx).Save(advance).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*SalaryAdvance, error) {
	var advance SalaryAdvance
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&advance, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &advance, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, companyID string, id string) (*SalaryAdvance, error) {
	var advance SalaryAdvance
	err := dbtx.Bind(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		First(&advance, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &advance, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]SalaryAdvance, error) {
	q := dbtx.Bind(ctx, r.db, r.tx).Scopes(tenant.Scope(companyID))
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var advances []SalaryAdvance
	err := q.Order("requested_date DESC, created_at DESC").Find(&advances).Error
	return advances, err
}

// FindOutstandingByEmployeeForUpdate locks the employee's disbursed advances
// that still carry a balance, oldest first.
func (r *repository) FindOutstandingByEmployeeForUpdate(ctx context.Context, companyID string, employeeID string) ([]SalaryAdvance, error) {
	var advances []SalaryAdvance
	err := dbtx.Bind(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ? AND status = ? AND remaining_amount > 0", employeeID, StatusDisbursed).
		Scopes(tenant.Scope(companyID)).
		Order("disbursed_date ASC, created_at ASC").
		Find(&advances).Error
	return advances, err
}
