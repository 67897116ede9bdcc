package payrollperiod

import (
	"context"
	"database/sql"
	"time"

	payrollperioderrors "go-payroll/internal/payrollperiod/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=payrollperiod_service.go -destination=mock/payrollperiod_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreatePeriodRequest) (PeriodResponse, error)
	GetAll(ctx context.Context, companyID string, q ListPeriodsQuery) ([]PeriodResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PeriodResponse, error)
	Lock(ctx context.Context, companyID, id string) (PeriodResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrollperiod.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollperiod.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreatePeriodRequest) (PeriodResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PeriodResponse{}, apperror.ErrInvalidCompanyID
	}

	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return PeriodResponse{}, apperror.ErrInvalidDateFormat
	}
	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		return PeriodResponse{}, apperror.ErrInvalidDateFormat
	}
	if end.Before(start) {
		return PeriodResponse{}, payrollperioderrors.ErrInvalidDateRange
	}

	period := &PayrollPeriod{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		Name:       req.Name,
		PeriodType: req.PeriodType,
		StartDate:  start,
		EndDate:    end,
		Notes:      req.Notes,
	}
	if period.PeriodType == "" {
		period.PeriodType = TypeMonthly
	}
	if req.PaymentDate != nil && *req.PaymentDate != "" {
		pd, err := time.Parse(time.DateOnly, *req.PaymentDate)
		if err != nil {
			return PeriodResponse{}, apperror.ErrInvalidDateFormat
		}
		period.PaymentDate = &pd
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, period); err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	return mapToResponse(*period), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, q ListPeriodsQuery) ([]PeriodResponse, error) {
	periods, err := s.repo.FindAllByCompany(ctx, companyID, ListFilter{
		IsProcessed: q.IsProcessed,
		Year:        q.Year,
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PeriodResponse, error) {
	period, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*period), nil
}

// Lock freezes a period so no further payrolls are generated for it.
func (s *service) Lock(ctx context.Context, companyID, id string) (PeriodResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	period, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}
	if period.IsLocked {
		return PeriodResponse{}, payrollperioderrors.ErrPeriodAlreadyLocked
	}

	period.IsLocked = true
	if err := qtx.Update(ctx, period); err != nil {
		return PeriodResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return PeriodResponse{}, err
	}

	s.logger.Info("payroll period locked", zap.String("company_id", companyID), zap.String("period_id", id))
	return mapToResponse(*period), nil
}

func mapToResponse(p PayrollPeriod) PeriodResponse {
	resp := PeriodResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		PeriodType:  p.PeriodType,
		StartDate:   p.StartDate.Format(time.DateOnly),
		EndDate:     p.EndDate.Format(time.DateOnly),
		IsLocked:    p.IsLocked,
		IsProcessed: p.IsProcessed,
		Notes:       p.Notes,
	}
	if p.PaymentDate != nil {
		v := p.PaymentDate.Format(time.DateOnly)
		resp.PaymentDate = &v
	}
	if p.ProcessedAt != nil {
		v := p.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &v
	}
	if p.ProcessedBy != nil {
		v := p.ProcessedBy.String()
		resp.ProcessedBy = &v
	}
	return resp
}
