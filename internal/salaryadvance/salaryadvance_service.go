package salaryadvance

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/docnumber"
	"go-payroll/internal/employee"
	salaryadvanceerrors "go-payroll/internal/salaryadvance/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:generate mockgen -source=salaryadvance_service.go -destination=mock/salaryadvance_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateAdvanceRequest) (AdvanceResponse, error)
	GetAll(ctx context.Context, companyID string, q ListAdvancesQuery) ([]AdvanceResponse, error)
	GetByID(ctx context.Context, companyID, id string) (AdvanceResponse, error)
	Approve(ctx context.Context, companyID, id, actorID string) (AdvanceResponse, error)
	Reject(ctx context.Context, companyID, id, actorID string) (AdvanceResponse, error)
	Disburse(ctx context.Context, companyID, id string) (AdvanceResponse, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	employeeRepo employee.Repository
	numbers      *docnumber.Generator
	logger       *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employeeRepo employee.Repository,
	numbers *docnumber.Generator,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("salaryadvance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salaryadvance.service")
	}
	return &service{db: db, repo: repo, employeeRepo: employeeRepo, numbers: numbers, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateAdvanceRequest) (AdvanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AdvanceResponse{}, apperror.ErrInvalidCompanyID
	}
	if !req.AdvanceAmount.IsPositive() {
		return AdvanceResponse{}, salaryadvanceerrors.ErrInvalidAmount
	}

	requested := time.Now().UTC().Truncate(24 * time.Hour)
	if req.RequestedDate != "" {
		requested, err = time.Parse(time.DateOnly, req.RequestedDate)
		if err != nil {
			return AdvanceResponse{}, apperror.ErrInvalidDateFormat
		}
	}
	months := req.RepaymentMonths
	if months <= 0 {
		months = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AdvanceResponse{}, err
	}
	defer tx.Rollback()

	emp, err := s.employeeRepo.WithTx(tx).FindByIDAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return AdvanceResponse{}, err
	}

	number, err := s.numbers.WithTx(tx).Next(ctx, companyID, docnumber.SalaryAdvance, requested)
	if err != nil {
		return AdvanceResponse{}, err
	}

	amount := req.AdvanceAmount.Round(2)
	advance := &SalaryAdvance{
		ID:               uuid.New(),
		CompanyID:        companyUUID,
		EmployeeID:       emp.ID,
		AdvanceNumber:    number,
		AdvanceAmount:    amount,
		RequestedDate:    requested,
		RepaymentMonths:  months,
		MonthlyDeduction: amount.Div(decimal.NewFromInt(int64(months))).Round(2),
		RemainingAmount:  decimal.Zero,
		Status:           StatusPending,
		Reason:           req.Reason,
		Notes:            req.Notes,
	}

	if err := s.repo.WithTx(tx).Create(ctx, advance); err != nil {
		return AdvanceResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return AdvanceResponse{}, err
	}

	s.logger.Info("salary advance created",
		zap.String("company_id", companyID),
		zap.String("advance_number", advance.AdvanceNumber),
		zap.String("employee_id", req.EmployeeID),
	)
	return mapToResponse(*advance), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, q ListAdvancesQuery) ([]AdvanceResponse, error) {
	advances, err := s.repo.FindAllByCompany(ctx, companyID, ListFilter{
		EmployeeID: q.EmployeeID,
		Status:     q.Status,
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]AdvanceResponse, len(advances))
	for i, a := range advances {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (AdvanceResponse, error) {
	advance, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return AdvanceResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*advance), nil
}

func (s *service) Approve(ctx context.Context, companyID, id, actorID string) (AdvanceResponse, error) {
	return s.transition(ctx, companyID, id, StatusPending, func(a *SalaryAdvance, now time.Time) {
		a.Status = StatusApproved
		a.ApprovedDate = &now
		if actorUUID, err := uuid.Parse(actorID); err == nil {
			a.ApprovedBy = &actorUUID
		}
	})
}

func (s *service) Reject(ctx context.Context, companyID, id, actorID string) (AdvanceResponse, error) {
	return s.transition(ctx, companyID, id, StatusPending, func(a *SalaryAdvance, _ time.Time) {
		a.Status = StatusRejected
		if actorUUID, err := uuid.Parse(actorID); err == nil {
			a.ApprovedBy = &actorUUID
		}
	})
}

// Disburse pays out an approved advance; its full amount becomes recoverable
// through payroll.
func (s *service) Disburse(ctx context.Context, companyID, id string) (AdvanceResponse, error) {
	return s.transition(ctx, companyID, id, StatusApproved, func(a *SalaryAdvance, now time.Time) {
		a.Status = StatusDisbursed
		a.DisbursedDate = &now
		a.RemainingAmount = a.AdvanceAmount
	})
}

func (s *service) transition(
	ctx context.Context,
	companyID, id, from string,
	apply func(a *SalaryAdvance, now time.Time),
) (AdvanceResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AdvanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	advance, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		return AdvanceResponse{}, mapRepositoryError(err)
	}
	if advance.Status != from {
		return AdvanceResponse{}, salaryadvanceerrors.ErrInvalidStatusTransition
	}

	apply(advance, time.Now().UTC().Truncate(24*time.Hour))

	if err := qtx.Update(ctx, advance); err != nil {
		return AdvanceResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return AdvanceResponse{}, err
	}

	s.logger.Info("salary advance updated",
		zap.String("company_id", companyID),
		zap.String("advance_id", id),
		zap.String("status", advance.Status),
	)
	return mapToResponse(*advance), nil
}

func mapToResponse(a SalaryAdvance) AdvanceResponse {
	resp := AdvanceResponse{
		ID:               a.ID.String(),
		AdvanceNumber:    a.AdvanceNumber,
		EmployeeID:       a.EmployeeID.String(),
		AdvanceAmount:    a.AdvanceAmount,
		RequestedDate:    a.RequestedDate.Format(time.DateOnly),
		RepaymentMonths:  a.RepaymentMonths,
		MonthlyDeduction: a.MonthlyDeduction,
		RemainingAmount:  a.RemainingAmount,
		Status:           a.Status,
		Reason:           a.Reason,
		Notes:            a.Notes,
	}
	if a.ApprovedDate != nil {
		v := a.ApprovedDate.Format(time.DateOnly)
		resp.ApprovedDate = &v
	}
	if a.DisbursedDate != nil {
		v := a.DisbursedDate.Format(time.DateOnly)
		resp.DisbursedDate = &v
	}
	if a.ApprovedBy != nil {
		v := a.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	return resp
}
