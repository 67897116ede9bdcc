package rbac_test

import (
	"errors"
	"testing"
	"time"

	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	roles     map[string][]rbac.RoleAssignment
	perms     map[string][]rbac.Grant
	loadCalls int
	err       error
}

func (f *fakeRepo) CompanyPolicy(companyID string) (rbac.Policy, error) {
	f.loadCalls++
	if f.err != nil {
		return rbac.Policy{}, f.err
	}
	return rbac.Policy{Assignments: f.roles[companyID], Grants: f.perms[companyID]}, nil
}

func newRepo() *fakeRepo {
	return &fakeRepo{
		roles: map[string][]rbac.RoleAssignment{
			"company-1": {{EmployeeID: "emp-1", RoleID: "role-hr"}},
			"company-2": {{EmployeeID: "emp-2", RoleID: "role-admin"}},
		},
		perms: map[string][]rbac.Grant{
			"company-1": {
				{RoleID: "role-hr", Resource: "payroll", Action: "read"},
				{RoleID: "role-hr", Resource: "payroll_run", Action: "create"},
			},
			"company-2": {
				{RoleID: "role-admin", Resource: "payroll", Action: "*"},
			},
		},
	}
}

func TestRBACService_Enforce(t *testing.T) {
	enforcer, err := infra.NewEnforcer("")
	assert.NoError(t, err)

	repo := newRepo()
	svc := rbac.NewService(repo, enforcer)

	t.Run("role permission allows", func(t *testing.T) {
		allowed, err := svc.Enforce(rbac.EnforceRequest{EmployeeID: "emp-1", CompanyID: "company-1", Resource: "payroll", Action: "read"})
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("missing permission denies", func(t *testing.T) {
		allowed, err := svc.Enforce(rbac.EnforceRequest{EmployeeID: "emp-1", CompanyID: "company-1", Resource: "payroll", Action: "approve"})
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("wildcard action", func(t *testing.T) {
		allowed, err := svc.Enforce(rbac.EnforceRequest{EmployeeID: "emp-2", CompanyID: "company-2", Resource: "payroll", Action: "pay"})
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("roles do not leak across companies", func(t *testing.T) {
		allowed, err := svc.Enforce(rbac.EnforceRequest{EmployeeID: "emp-1", CompanyID: "company-2", Resource: "payroll", Action: "read"})
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("policy is cached within ttl", func(t *testing.T) {
		before := repo.loadCalls
		_, _ = svc.Enforce(rbac.EnforceRequest{EmployeeID: "emp-1", CompanyID: "company-1", Resource: "payroll", Action: "read"})
		assert.Equal(t, before, repo.loadCalls)
	})
}

func TestRBACService_ReloadsAfterTTL(t *testing.T) {
	enforcer, err := infra.NewEnforcer("")
	assert.NoError(t, err)

	repo := newRepo()
	svc := rbac.NewServiceWithTTL(repo, enforcer, time.Nanosecond)

	_, err = svc.Enforce(rbac.EnforceRequest{EmployeeID: "emp-1", CompanyID: "company-1", Resource: "payroll", Action: "read"})
	assert.NoError(t, err)

	repo.perms["company-1"] = nil
	time.Sleep(time.Millisecond)

	allowed, err := svc.Enforce(rbac.EnforceRequest{EmployeeID: "emp-1", CompanyID: "company-1", Resource: "payroll", Action: "read"})
	assert.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 2, repo.loadCalls)
}

func TestRBACService_LoadError(t *testing.T) {
	enforcer, err := infra.NewEnforcer("")
	assert.NoError(t, err)

	svc := rbac.NewService(&fakeRepo{err: errors.New("db down")}, enforcer)

	_, err = svc.Enforce(rbac.EnforceRequest{EmployeeID: "emp-1", CompanyID: "company-1", Resource: "payroll", Action: "read"})
	assert.EqualError(t, err, "db down")
}
