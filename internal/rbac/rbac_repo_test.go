package rbac_test

import (
	"errors"
	"testing"

	"go-payroll/internal/rbac"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (rbac.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)

	return rbac.NewRepository(gormDB), mock
}

func TestRepository_CompanyPolicy(t *testing.T) {
	t.Run("loads assignments and grants", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectQuery(`SELECT employee_roles.employee_id, employee_roles.role_id FROM "employee_roles" JOIN roles .* WHERE roles.company_id = \$1`).
			WithArgs("company-1").
			WillReturnRows(sqlmock.NewRows([]string{"employee_id", "role_id"}).AddRow("emp-1", "role-hr"))
		mock.ExpectQuery(`SELECT role_permissions.role_id, permissions.resource, permissions.action FROM "role_permissions" JOIN roles .* JOIN permissions .* WHERE roles.company_id = \$1`).
			WithArgs("company-1").
			WillReturnRows(sqlmock.NewRows([]string{"role_id", "resource", "action"}).
				AddRow("role-hr", "payroll", "read").
				AddRow("role-hr", "payroll_run", "process"))

		policy, err := repo.CompanyPolicy("company-1")

		require.NoError(t, err)
		assert.Equal(t, []rbac.RoleAssignment{{EmployeeID: "emp-1", RoleID: "role-hr"}}, policy.Assignments)
		assert.Len(t, policy.Grants, 2)
		assert.Equal(t, "process", policy.Grants[1].Action)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := setupRepo(t)

		mock.ExpectQuery(`FROM "employee_roles"`).WillReturnError(errors.New("db down"))

		_, err := repo.CompanyPolicy("company-1")

		assert.EqualError(t, err, "db down")
	})
}
