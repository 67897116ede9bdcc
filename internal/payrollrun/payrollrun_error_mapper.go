package payrollrun

import (
	"errors"

	payrollrunerrors "go-payroll/internal/payrollrun/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueRunNumber = "uq_payroll_runs_company_number"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollrunerrors.ErrRunNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueRunNumber {
		return payrollrunerrors.ErrRunNumberExists
	}

	return err
}
