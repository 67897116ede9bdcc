package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/dbtx"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Summarize(ctx context.Context, companyID, employeeID string, start, end time.Time) (Summary, error)
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

func (r *repository) Summarize(ctx context.Context, companyID, employeeID string, start, end time.Time) (Summary, error) {
	var rows []statusCount
	err := dbtx.Bind(ctx, r.db, r.tx).
		Model(&Attendance{}).
		Scopes(tenant.Scope(companyID)).
		Select("status, COUNT(*) AS days, COALESCE(SUM(overtime_hours), 0) AS overtime_hours").
		Where("employee_id = ?", employeeID).
		Where("attendance_date BETWEEN ? AND ?", start.Format(time.DateOnly), end.Format(time.DateOnly)).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return Summary{}, err
	}

	return buildSummary(start, end, rows), nil
}
