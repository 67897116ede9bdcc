package payrollcomponent

import (
	"errors"

	payrollcomponenterrors "go-payroll/internal/payrollcomponent/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueComponentCode = "uq_payroll_components_company_code"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollcomponenterrors.ErrComponentNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueComponentCode {
		return payrollcomponenterrors.ErrComponentCodeExists
	}

	return err
}
