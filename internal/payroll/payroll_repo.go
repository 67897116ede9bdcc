package payroll

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListFilter struct {
	Status       string
	PeriodID     string
	EmployeeID   string
	DepartmentID string
	PayrollRunID string
}

type MonthlyTotal struct {
	Month  int
	Amount decimal.Decimal
	Count  int64
}

type DepartmentTotal struct {
	DepartmentID *string
	Amount       decimal.Decimal
	Count        int64
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, payroll *Payroll) error
	Update(ctx context.Context, payroll *Payroll) error
	Delete(ctx context.Context, companyID string, id string) error
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payroll, error)
	FindByIDForUpdate(ctx context.Context, companyID string, id string) (*Payroll, error)
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]Payroll, error)
	ExistsForEmployeePeriod(ctx context.Context, companyID string, employeeID string, periodID string) (bool, error)

	CreateItems(ctx context.Context, items []PayrollItem) error
	DeleteItems(ctx context.Context, payrollID string) error
	FindItems(ctx context.Context, companyID string, payrollID string) ([]PayrollItem, error)

	CreatePayslip(ctx context.Context, payslip *Payslip) error
	UpdatePayslip(ctx context.Context, payslip *Payslip) error
	FindPayslip(ctx context.Context, companyID string, payrollID string) (*Payslip, error)

	MonthlyPaidTotals(ctx context.Context, companyID string, year int) ([]MonthlyTotal, error)
	DepartmentPaidTotals(ctx context.Context, companyID string, year int) ([]DepartmentTotal, error)
	TotalPaid(ctx context.Context, companyID string) (decimal.Decimal, error)
	CountPending(ctx context.Context, companyID string) (int64, error)
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

func (r *repository) Create(ctx context.Context, payroll *Payroll) error {
	return dbtx.Bind(ctx, r.db, r.tx).Omit("Items").Create(payroll).Error
}

func (r *repository) Update(ctx context.Context, payroll *Payroll) error {
	return dbtx.Bind(ctx, r.db, r.tx).Omit("Items").Save(payroll).Error
}

// Delete removes the payroll row; items and payslip go with it through
// ON DELETE CASCADE.
func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	res := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Payroll{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Payroll, error) {
	var payroll Payroll
	err := dbtx.Bind(ctx, r.db, r.tx).
		Scopes(tenant.Scope(companyID)).
		First(&payroll, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payroll, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, companyID string, id string) (*Payroll, error) {
	var payroll Payroll
	err := dbtx.Bind(ctx, r.db, r.tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(companyID)).
		First(&payroll, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payroll, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]Payroll, error) {
	q := dbtx.Bind(ctx, r.db, r.tx).Scopes(tenant.Scope(companyID))
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PeriodID != "" {
		q = q.Where("payroll_period_id = ?", filter.PeriodID)
	}
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.DepartmentID != "" {
		q = q.Where("employee_id IN (SELECT id FROM employees WHERE department_id = ?)", filter.DepartmentID)
	}
	if filter.PayrollRunID != "" {
		q = q.Where("payroll_run_id = ?", filter.PayrollRunID)
	}

	var payrolls []Payroll
	err := q.Order("created_at DESC").Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) ExistsForEmployeePeriod(ctx context.Context, companyID string, employeeID string, periodID string) (bool, error) {
	var count int64
	err := dbtx.Bind(ctx, r.db, r.tx).
		Model(&Payroll{}).
		Where("employee_id = ? AND payroll_period_id = ?", employeeID, periodID).
		Scopes(tenant.Scope(companyID)).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateItems(ctx context.Context, items []PayrollItem) error {
	if len(items) == 0 {
		return nil
	}
	return dbtx.Bind(ctx, r.db, r.tx).Create(&items).Error
}

func (r *repository) DeleteItems(ctx context.Context, payrollID string) error {
	return dbtx.Bind(ctx, r.db, r.tx).
		Where("payroll_id = ?", payrollID).
		Delete(&PayrollItem{}).Error
}

func (r *repository) FindItems(ctx context.Context, companyID string, payrollID string) ([]PayrollItem, error) {
	var items []PayrollItem
	err := dbtx.Bind(ctx, r.db, r.tx).
		Where("payroll_id = ?", payrollID).
		Scopes(tenant.Scope(companyID)).
		Order("item_type DESC, created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) CreatePayslip(ctx context.Context, payslip *Payslip) error {
	return dbtx.Bind(ctx, r.db, r.tx).Create(payslip).Error
}

func (r *repository) UpdatePayslip(ctx context.Context, payslip *Payslip) error {
	return dbtx.Bind(ctx, r.db, r.tx).Save(payslip).Error
}

func (r *repository) FindPayslip(ctx context.Context, companyID string, payrollID string) (*Payslip, error) {
	var payslip Payslip
	err := dbtx.Bind(ctx, r.db, r.tx).
		Where("payroll_id = ?", payrollID).
		Scopes(tenant.Scope(companyID)).
		First(&payslip).Error
	if err != nil {
		return nil, err
	}
	return &payslip, nil
}

func (r *repository) MonthlyPaidTotals(ctx context.Context, companyID string, year int) ([]MonthlyTotal, error) {
	var rows []MonthlyTotal
	err := dbtx.Bind(ctx, r.db, r.tx).
		Table("payrolls").
		Select("CAST(EXTRACT(MONTH FROM payroll_periods.start_date) AS INTEGER) AS month, "+
			"COALESCE(SUM(payrolls.net_salary), 0) AS amount, COUNT(*) AS count").
		Joins("JOIN payroll_periods ON payroll_periods.id = payrolls.payroll_period_id").
		Where("payrolls.status = ?", StatusPaid).
		Where("EXTRACT(YEAR FROM payroll_periods.start_date) = ?", year).
		Scopes(tenant.ScopeTable("payrolls", companyID)).
		Group("month").
		Order("month").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) DepartmentPaidTotals(ctx context.Context, companyID string, year int) ([]DepartmentTotal, error) {
	var rows []DepartmentTotal
	err := dbtx.Bind(ctx, r.db, r.tx).
		Table("payrolls").
		Select("employees.department_id::text AS department_id, "+
			"COALESCE(SUM(payrolls.net_salary), 0) AS amount, COUNT(*) AS count").
		Joins("JOIN payroll_periods ON payroll_periods.id = payrolls.payroll_period_id").
		Joins("JOIN employees ON employees.id = payrolls.employee_id").
		Where("payrolls.status = ?", StatusPaid).
		Where("EXTRACT(YEAR FROM payroll_periods.start_date) = ?", year).
		Scopes(tenant.ScopeTable("payrolls", companyID)).
		Group("employees.department_id").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) TotalPaid(ctx context.Context, companyID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := dbtx.Bind(ctx, r.db, r.tx).
		Model(&Payroll{}).
		Select("COALESCE(SUM(net_salary), 0)").
		Where("status = ?", StatusPaid).
		Scopes(tenant.Scope(companyID)).
		Scan(&total).Error
	return total, err
}

// CountPending counts payrolls still waiting for approval.
func (r *repository) CountPending(ctx context.Context, companyID string) (int64, error) {
	var count int64
	err := dbtx.Bind(ctx, r.db, r.tx).
		Model(&Payroll{}).
		Where("status IN ?", []string{StatusDraft, StatusCalculated}).
		Scopes(tenant.Scope(companyID)).
		Count(&count).Error
	return count, err
}
