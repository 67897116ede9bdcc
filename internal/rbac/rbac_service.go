package rbac

import (
	"sync"
	"time"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

const defaultPolicyTTL = time.Minute

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	LoadCompanyPolicy(companyID string) error
	Enforce(req EnforceRequest) (bool, error)
}

// service keeps every company's policy in one domain-aware enforcer and
// reloads a company from the database once its policy is older than ttl.
type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger

	mu       sync.Mutex
	loadedAt map[string]time.Time
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	return NewServiceWithTTL(repo, enforcer, defaultPolicyTTL, logger...)
}

func NewServiceWithTTL(repo Repository, enforcer *casbin.Enforcer, ttl time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		ttl:      ttl,
		now:      time.Now,
		logger:   l,
		loadedAt: make(map[string]time.Time),
	}
}

func (s *service) LoadCompanyPolicy(companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadCompanyPolicyLocked(companyID)
}

func (s *service) loadCompanyPolicyLocked(companyID string) error {
	policy, err := s.repo.CompanyPolicy(companyID)
	if err != nil {
		return err
	}

	if _, err := s.enforcer.RemoveFilteredGroupingPolicy(2, companyID); err != nil {
		return err
	}
	if _, err := s.enforcer.RemoveFilteredPolicy(1, companyID); err != nil {
		return err
	}

	for _, a := range policy.Assignments {
		if _, err := s.enforcer.AddGroupingPolicy(a.EmployeeID, a.RoleID, companyID); err != nil {
			return err
		}
	}
	for _, g := range policy.Grants {
		if _, err := s.enforcer.AddPolicy(g.RoleID, companyID, g.Resource, g.Action); err != nil {
			return err
		}
	}

	s.loadedAt[companyID] = s.now()
	s.logger.Debug("rbac policy loaded",
		zap.String("company_id", companyID),
		zap.Int("assignments", len(policy.Assignments)),
		zap.Int("grants", len(policy.Grants)),
	)
	return nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if loaded, ok := s.loadedAt[req.CompanyID]; !ok || s.now().Sub(loaded) >= s.ttl {
		if err := s.loadCompanyPolicyLocked(req.CompanyID); err != nil {
			return false, err
		}
	}

	allowed, err := s.enforcer.Enforce(req.EmployeeID, req.CompanyID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("company_id", req.CompanyID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	if !allowed {
		s.logger.Info("rbac denied",
			zap.String("employee_id", req.EmployeeID),
			zap.String("company_id", req.CompanyID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
		)
	}
	return allowed, nil
}
