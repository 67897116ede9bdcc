package salarystructure

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

type ListFilter struct {
	EmployeeID string
	IsActive   *bool
}

//go:generate mockgen -source=salarystructure_repo.go -destination=mock/salarystructure_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, structure *SalaryStructure) error
	Update(ctx context.Context, structure *SalaryStructure) error
	ReplaceComponents(ctx context.Context, structureID string, values []ComponentValue) error
	Delete(ctx context.Context, companyID string, id string) error
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*SalaryStructure, error)
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]SalaryStructure, error)
	FindActiveByEmployee(ctx context.Context, companyID string, employeeID string) (*SalaryStructure, error)
	DeactivateForEmployee(ctx context.Context, companyID string, employeeID string, exceptID string, effectiveTo time.Time) error
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

func (r *repository) Create(ctx context.Context, structure *SalaryStructure) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(structure).Error
}

func (r *repository) Update(ctx context.Context, structure *SalaryStructure) error {
	return dbtx.Bind(ctx, r.db, r.tx).Omit("Components").Save(structure).Error
}

func (r *repository) ReplaceComponents(ctx context.Context, structureID string, values []ComponentValue) error {
	conn := dbtx.Bind(ctx, r.db, r.tx)
	if err := conn.Where("structure_id = ?", structureID).Delete(&ComponentValue{}).Error; err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	return conn.Omit("Component").Create(&values).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	res := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Delete(&SalaryStructure{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*SalaryStructure, error) {
	var structure SalaryStructure
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Preload("Components.Component").
		First(&structure, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	sortComponents(structure.Components)
	return &structure, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]SalaryStructure, error) {
	q := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Preload("Components.Component")
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}

	var structures []SalaryStructure
	if err := q.Order("effective_from DESC, created_at DESC").Find(&structures).Error; err != nil {
		return nil, err
	}
	for i := range structures {
		sortComponents(structures[i].Components)
	}
	return structures, nil
}

// FindActiveByEmployee returns the employee's active structure with its
// component values in calculation order.
func (r *repository) FindActiveByEmployee(ctx context.Context, companyID string, employeeID string) (*SalaryStructure, error) {
	var structure SalaryStructure
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Preload("Components.Component").
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		Order("effective_from DESC").
		First(&structure).Error
	if err != nil {
		return nil, err
	}
	sortComponents(structure.Components)
	return &structure, nil
}

func (r *repository) DeactivateForEmployee(ctx context.Context, companyID string, employeeID string, exceptID string, effectiveTo time.Time) error {
	return dbtx.Bind(ctx, r.db, r.tx).
		Model(&SalaryStructure{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ? AND is_active = ? AND id <> ?", employeeID, true, exceptID).
		Updates(map[string]any{
			"is_active":    false,
			"effective_to": gorm.Expr("COALESCE(effective_to, ?)", effectiveTo.Format(time.DateOnly)),
		}).Error
}

// sortComponents orders values by component priority, then name. Values whose
// component is missing sink to the end.
func sortComponents(values []ComponentValue) {
	sort.SliceStable(values, func(i, j int) bool {
		a, b := values[i].Component, values[j].Component
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Priority != b.Priority:
			return a.Priority < b.Priority
		default:
			return a.Name < b.Name
		}
	})
}
