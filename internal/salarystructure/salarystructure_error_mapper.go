package salarystructure

import (
	"errors"

	salarystructureerrors "go-payroll/internal/salarystructure/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	uniqueActiveStructure = "uq_salary_structures_active_employee"
	uniqueStructureValue  = "uq_salary_component_values_structure_component"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salarystructureerrors.ErrStructureNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case uniqueActiveStructure:
			return salarystructureerrors.ErrActiveStructureExists
		case uniqueStructureValue:
			return salarystructureerrors.ErrDuplicateComponent
		}
	}

	return err
}
