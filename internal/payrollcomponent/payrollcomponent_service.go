package payrollcomponent

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	payrollcomponenterrors "go-payroll/internal/payrollcomponent/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	OptionsKeyPrefix = "payroll_components:options:"
	optionsTTL       = 30 * time.Minute
)

func OptionsKey(companyID string) string {
	return OptionsKeyPrefix + companyID
}

var hundred = decimal.NewFromInt(100)

//go:generate mockgen -source=payrollcomponent_service.go -destination=mock/payrollcomponent_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateComponentRequest) (ComponentResponse, error)
	GetAll(ctx context.Context, companyID string, q ListComponentsQuery) ([]ComponentResponse, error)
	GetByID(ctx context.Context, companyID, id string) (ComponentResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateComponentRequest) (ComponentResponse, error)
	Options(ctx context.Context, companyID string) ([]ComponentOption, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrollcomponent.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollcomponent.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateComponentRequest) (ComponentResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ComponentResponse{}, apperror.ErrInvalidCompanyID
	}
	if err := validateRequest(req); err != nil {
		return ComponentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ComponentResponse{}, err
	}
	defer tx.Rollback()

	component := &PayrollComponent{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		IsTaxable: true,
		IsActive:  true,
	}
	applyRequest(component, req)

	if err := s.repo.WithTx(tx).Create(ctx, component); err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return ComponentResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)
	return mapToResponse(*component), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, q ListComponentsQuery) ([]ComponentResponse, error) {
	components, err := s.repo.FindAllByCompany(ctx, companyID, ListFilter{
		ComponentType: q.ComponentType,
		IsActive:      q.IsActive,
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]ComponentResponse, len(components))
	for i, c := range components {
		resp[i] = mapToResponse(c)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (ComponentResponse, error) {
	component, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*component), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateComponentRequest) (ComponentResponse, error) {
	if err := validateRequest(req); err != nil {
		return ComponentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ComponentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	component, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}

	applyRequest(component, req)

	if err := qtx.Update(ctx, component); err != nil {
		return ComponentResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return ComponentResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)
	return mapToResponse(*component), nil
}

// Options lists active components for pickers. Results are cached per
// company and concurrent misses share one query.
func (s *service) Options(ctx context.Context, companyID string) ([]ComponentOption, error) {
	cacheKey := OptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []ComponentOption
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		active := true
		components, err := s.repo.FindAllByCompany(ctx, companyID, ListFilter{IsActive: &active})
		if err != nil {
			return nil, err
		}

		resp := make([]ComponentOption, len(components))
		for i, c := range components {
			resp[i] = ComponentOption{
				ID:              c.ID.String(),
				Code:            c.Code,
				Name:            c.Name,
				ComponentType:   c.ComponentType,
				CalculationType: c.CalculationType,
				DefaultValue:    c.DefaultValue,
			}
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, optionsTTL).Err(); err != nil {
					s.logger.Warn("cache component options failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	return v.([]ComponentOption), nil
}

func (s *service) invalidateOptions(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := OptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("invalidate component options failed", zap.String("key", cacheKey), zap.Error(err))
	}
}

func validateRequest(req CreateComponentRequest) error {
	if req.DefaultValue.IsNegative() {
		return payrollcomponenterrors.ErrNegativeValue
	}
	switch req.CalculationType {
	case CalcPercentage:
		if req.DefaultValue.GreaterThan(hundred) {
			return payrollcomponenterrors.ErrPercentageOutOfRange
		}
	case CalcFormula:
		if req.Formula == nil || strings.TrimSpace(*req.Formula) == "" {
			return payrollcomponenterrors.ErrFormulaRequired
		}
	}
	return nil
}

func applyRequest(c *PayrollComponent, req CreateComponentRequest) {
	c.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	c.Name = strings.TrimSpace(req.Name)
	c.ComponentType = req.ComponentType
	c.CalculationType = req.CalculationType
	c.DefaultValue = req.DefaultValue
	c.PercentageOf = req.PercentageOf
	c.Formula = req.Formula
	c.Priority = req.Priority
	c.Description = req.Description
	if req.IsTaxable != nil {
		c.IsTaxable = *req.IsTaxable
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	c.Slot = ResolveSlot(c.ComponentType, c.Code)
}

func mapToResponse(c PayrollComponent) ComponentResponse {
	return ComponentResponse{
		ID:              c.ID.String(),
		Code:            c.Code,
		Name:            c.Name,
		ComponentType:   c.ComponentType,
		CalculationType: c.CalculationType,
		DefaultValue:    c.DefaultValue,
		PercentageOf:    c.PercentageOf,
		Formula:         c.Formula,
		Slot:            string(c.Slot),
		IsTaxable:       c.IsTaxable,
		IsActive:        c.IsActive,
		Priority:        c.Priority,
		Description:     c.Description,
	}
}
