package salaryadvance

import (
	"errors"

	salaryadvanceerrors "go-payroll/internal/salaryadvance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueAdvanceNumber = "uq_salary_advances_company_number"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salaryadvanceerrors.ErrAdvanceNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueAdvanceNumber {
		return salaryadvanceerrors.ErrAdvanceNumberExists
	}

	return err
}
