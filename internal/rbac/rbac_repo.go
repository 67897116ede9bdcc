package rbac

import (
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

// RoleAssignment links an employee to a role of the company.
type RoleAssignment struct {
	EmployeeID string
	RoleID     string
}

// Grant allows a role to perform action on resource. Action "*" grants all.
type Grant struct {
	RoleID   string
	Resource string
	Action   string
}

// Policy is a company's role data as maintained by the HR service.
type Policy struct {
	Assignments []RoleAssignment
	Grants      []Grant
}

type Repository interface {
	CompanyPolicy(companyID string) (Policy, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CompanyPolicy(companyID string) (Policy, error) {
	var p Policy

	err := r.db.Table("employee_roles").
		Select("employee_roles.employee_id, employee_roles.role_id").
		Joins("JOIN roles ON roles.id = employee_roles.role_id").
		Scopes(tenant.ScopeTable("roles", companyID)).
		Scan(&p.Assignments).Error
	if err != nil {
		return Policy{}, err
	}

	err = r.db.Table("role_permissions").
		Select("role_permissions.role_id, permissions.resource, permissions.action").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Scopes(tenant.ScopeTable("roles", companyID)).
		Scan(&p.Grants).Error
	if err != nil {
		return Policy{}, err
	}

	return p, nil
}
