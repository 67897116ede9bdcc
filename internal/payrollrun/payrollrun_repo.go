package payrollrun

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	Status   string
	PeriodID string
}

//go:generate mockgen -source=payrollrun_repo.go -destination=mock/payrollrun_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, run *PayrollRun) error
	Update(ctx context.Context, run *PayrollRun) error
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayrollRun, error)
	FindByIDForUpdate(ctx context.Context, companyID string, id string) (*PayrollRun, error)
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]PayrollRun, error)
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

func (r *repository) Create(ctx context.Context, run *PayrollRun) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(run).Error
}

func (r *repository) Update(ctx context.Context, run *PayrollRun) error {
	return dbtx.Bind(ctx, r.db, r.tx).Save(run).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&run, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, companyID string, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := dbtx.Bind(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		First(&run, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]PayrollRun, error) {
	q := dbtx.Bind(ctx, r.db, r.tx).Scopes(tenant.Scope(companyID))
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PeriodID != "" {
		q = q.Where("payroll_period_id = ?", filter.PeriodID)
	}

	var runs []PayrollRun
	err := q.Order("created_at DESC").Find(&runs).Error
	return runs, err
}
