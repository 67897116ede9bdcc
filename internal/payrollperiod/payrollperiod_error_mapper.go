package payrollperiod

import (
	"errors"

	payrollperioderrors "go-payroll/internal/payrollperiod/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniquePeriodDates = "uq_payroll_periods_company_dates"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollperioderrors.ErrPeriodNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniquePeriodDates {
		return payrollperioderrors.ErrPeriodExists
	}

	return err
}
