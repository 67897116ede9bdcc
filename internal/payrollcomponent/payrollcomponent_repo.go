package payrollcomponent

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

type ListFilter struct {
	ComponentType string
	IsActive      *bool
}

//go:generate mockgen -source=payrollcomponent_repo.go -destination=mock/payrollcomponent_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, component *PayrollComponent) error
	Update(ctx context.Context, component *PayrollComponent) error
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayrollComponent, error)
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]PayrollComponent, error)
	FindByIDs(ctx context.Context, companyID string, ids []string) ([]PayrollComponent, error)
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

func (r *repository) Create(ctx context.Context, component *PayrollComponent) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(component).Error
}

func (r *repository) Update(ctx context.Context, component *PayrollComponent) error {
	return dbtx.Bind(ctx, r.db, r.tx).Save(component).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayrollComponent, error) {
	var component PayrollComponent
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&component, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]PayrollComponent, error) {
	q := dbtx.Bind(ctx, r.db, r.tx).Scopes(tenant.Scope(companyID))
	if filter.ComponentType != "" {
		q = q.Where("component_type = ?", filter.ComponentType)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}

	var components []PayrollComponent
	err := q.Order("priority ASC, name ASC").Find(&components).Error
	return components, err
}

func (r *repository) FindByIDs(ctx context.Context, companyID string, ids []string) ([]PayrollComponent, error) {
	var components []PayrollComponent
	if len(ids) == 0 {
		return components, nil
	}
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Where("id IN ?", ids).
		Find(&components).Error
	return components, err
}
