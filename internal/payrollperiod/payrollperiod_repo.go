package payrollperiod

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

type ListFilter struct {
	IsProcessed *bool
	Year        int
}

//go:generate mockgen -source=payrollperiod_repo.go -destination=mock/payrollperiod_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, period *PayrollPeriod) error
	Update(ctx context.Context, period *PayrollPeriod) error
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayrollPeriod, error)
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]PayrollPeriod, error)
	MarkProcessed(ctx context.Context, companyID string, id string, processedBy string, at time.Time) error
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

func (r *repository) Create(ctx context.Context, period *PayrollPeriod) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(period).Error
}

func (r *repository) Update(ctx context.Context, period *PayrollPeriod) error {
	return dbtx.Bind(ctx, r.db, r.tx).Save(period).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*PayrollPeriod, error) {
	var period PayrollPeriod
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&period, "id = ?", id).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &period, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]PayrollPeriod, error) {
	q := dbtx.Bind(ctx, r.db, r.tx).Scopes(tenant.Scope(companyID))
	if filter.IsProcessed != nil {
		q = q.Where("is_processed = ?", *filter.IsProcessed)
	}
	if filter.Year > 0 {
		q = q.Where("EXTRACT(YEAR FROM start_date) = ?", filter.Year)
	}

	var periods []PayrollPeriod
	err := q.Order("start_date DESC").Find(&periods).Error
	return periods, err
}

func (r *repository) MarkProcessed(ctx context.Context, companyID string, id string, processedBy string, at time.Time) error {
	updates := map[string]any{
		"is_processed": true,
		"processed_at": at,
	}
	if processedBy != "" {
		updates["processed_by"] = processedBy
	}
	return dbtx.Bind(ctx, r.db, r.tx).
		Model(&PayrollPeriod{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Updates(updates).Error
}
