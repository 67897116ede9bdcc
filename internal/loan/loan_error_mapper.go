package loan

import (
	"errors"

	loanerrors "go-payroll/internal/loan/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueLoanNumber = "uq_loans_company_number"

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loanerrors.ErrLoanNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == uniqueLoanNumber {
		return loanerrors.ErrLoanNumberExists
	}

	return err
}
