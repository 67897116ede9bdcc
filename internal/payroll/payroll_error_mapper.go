package payroll

import (
	"errors"

	payrollerrors "go-payroll/internal/payroll/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	uniqueEmployeePeriod = "uq_payrolls_employee_period"
	uniquePayrollNumber  = "uq_payrolls_company_number"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrPayrollNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case uniqueEmployeePeriod:
			return payrollerrors.ErrPayrollAlreadyExists
		case uniquePayrollNumber:
			return payrollerrors.ErrPayrollNumberExists
		}
	}

	return err
}
