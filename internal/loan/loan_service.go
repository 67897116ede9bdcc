package loan

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/docnumber"
	"go-payroll/internal/employee"
	loanerrors "go-payroll/internal/loan/errors"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OverdueAfter is how long a due installment may stay unpaid before it is
// flagged overdue.
const OverdueAfter = 30 * 24 * time.Hour

var maxInterestRate = decimal.NewFromInt(100)

//go:generate mockgen -source=loan_service.go -destination=mock/loan_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLoanRequest) (LoanResponse, error)
	GetAll(ctx context.Context, companyID string, q ListLoansQuery) ([]LoanResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LoanResponse, error)
	Approve(ctx context.Context, companyID, id, actorID string) (LoanResponse, error)
	Reject(ctx context.Context, companyID, id, actorID string) (LoanResponse, error)
	Disburse(ctx context.Context, companyID, id string) (LoanResponse, error)
	ListInstallments(ctx context.Context, companyID, id string) ([]InstallmentResponse, error)
	RefreshInstallmentStatuses(ctx context.Context, today time.Time) (due int64, overdue int64, err error)
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
	l := zap.L().Named("loan.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("loan.service")
	}
	return &service{db: db, repo: repo, employeeRepo: employeeRepo, numbers: numbers, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLoanRequest) (LoanResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LoanResponse{}, apperror.ErrInvalidCompanyID
	}
	if !req.LoanAmount.IsPositive() {
		return LoanResponse{}, loanerrors.ErrInvalidAmount
	}
	rate := decimal.Zero
	if req.InterestRate != nil {
		rate = *req.InterestRate
	}
	if rate.IsNegative() || rate.GreaterThan(maxInterestRate) {
		return LoanResponse{}, loanerrors.ErrInvalidInterestRate
	}
	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return LoanResponse{}, apperror.ErrInvalidDateFormat
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanResponse{}, err
	}
	defer tx.Rollback()

	emp, err := s.employeeRepo.WithTx(tx).FindByIDAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return LoanResponse{}, err
	}

	number, err := s.numbers.WithTx(tx).Next(ctx, companyID, docnumber.Loan, start)
	if err != nil {
		return LoanResponse{}, err
	}

	loan := &Loan{
		ID:               uuid.New(),
		CompanyID:        companyUUID,
		EmployeeID:       emp.ID,
		LoanNumber:       number,
		LoanType:         req.LoanType,
		LoanAmount:       req.LoanAmount.Round(2),
		InterestRate:     rate.Round(2),
		TenureMonths:     req.TenureMonths,
		StartDate:        start,
		Status:           StatusPending,
		PrincipalBalance: decimal.Zero,
		InterestBalance:  decimal.Zero,
		Notes:            req.Notes,
	}
	loan.EMIAmount = EMI(loan.LoanAmount, loan.InterestRate, loan.TenureMonths)
	if actorUUID, err := uuid.Parse(actorID); err == nil {
		loan.CreatedBy = &actorUUID
	}

	if err := s.repo.WithTx(tx).Create(ctx, loan); err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return LoanResponse{}, err
	}

	s.logger.Info("loan created",
		zap.String("company_id", companyID),
		zap.String("loan_number", loan.LoanNumber),
		zap.String("employee_id", req.EmployeeID),
	)
	return mapToResponse(*loan), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, q ListLoansQuery) ([]LoanResponse, error) {
	loans, err := s.repo.FindAllByCompany(ctx, companyID, ListFilter{
		EmployeeID: q.EmployeeID,
		Status:     q.Status,
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]LoanResponse, len(loans))
	for i, l := range loans {
		resp[i] = mapToResponse(l)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LoanResponse, error) {
	loan, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*loan), nil
}

func (s *service) Approve(ctx context.Context, companyID, id, actorID string) (LoanResponse, error) {
	return s.decide(ctx, companyID, id, actorID, StatusApproved)
}

func (s *service) Reject(ctx context.Context, companyID, id, actorID string) (LoanResponse, error) {
	return s.decide(ctx, companyID, id, actorID, StatusRejected)
}

func (s *service) decide(ctx context.Context, companyID, id, actorID, status string) (LoanResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	loan, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}
	if loan.Status != StatusPending {
		return LoanResponse{}, loanerrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	loan.Status = status
	loan.ApprovedAt = &now
	if actorUUID, err := uuid.Parse(actorID); err == nil {
		loan.ApprovedBy = &actorUUID
	}

	if err := qtx.Update(ctx, loan); err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return LoanResponse{}, err
	}

	s.logger.Info("loan decided",
		zap.String("company_id", companyID),
		zap.String("loan_id", id),
		zap.String("status", status),
	)
	return mapToResponse(*loan), nil
}

// Disburse activates an approved loan and lays down its repayment schedule.
func (s *service) Disburse(ctx context.Context, companyID, id string) (LoanResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LoanResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	loan, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}
	if loan.Status != StatusApproved {
		return LoanResponse{}, loanerrors.ErrInvalidStatusTransition
	}

	schedule := BuildSchedule(loan)
	interest := decimal.Zero
	for _, inst := range schedule {
		interest = interest.Add(inst.InterestAmount)
	}

	now := time.Now().UTC()
	loan.Status = StatusActive
	loan.DisbursedAt = &now
	loan.PrincipalBalance = loan.LoanAmount
	loan.InterestBalance = interest
	if n := len(schedule); n > 0 {
		end := schedule[n-1].DueDate
		loan.EndDate = &end
	}

	if err := qtx.CreateInstallments(ctx, schedule); err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}
	if err := qtx.Update(ctx, loan); err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return LoanResponse{}, err
	}

	s.logger.Info("loan disbursed",
		zap.String("company_id", companyID),
		zap.String("loan_number", loan.LoanNumber),
		zap.Int("installments", len(schedule)),
	)
	return mapToResponse(*loan), nil
}

func (s *service) ListInstallments(ctx context.Context, companyID, id string) ([]InstallmentResponse, error) {
	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		return nil, mapRepositoryError(err)
	}

	installments, err := s.repo.FindInstallments(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	resp := make([]InstallmentResponse, len(installments))
	for i, inst := range installments {
		resp[i] = mapInstallmentResponse(inst)
	}
	return resp, nil
}

// RefreshInstallmentStatuses moves pending installments that have fallen due
// to due, and due installments older than OverdueAfter to overdue.
func (s *service) RefreshInstallmentStatuses(ctx context.Context, today time.Time) (int64, int64, error) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	due, err := qtx.MarkInstallmentsDue(ctx, today)
	if err != nil {
		return 0, 0, err
	}
	overdue, err := qtx.MarkInstallmentsOverdue(ctx, today.Add(-OverdueAfter))
	if err != nil {
		return 0, 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}

	if due > 0 || overdue > 0 {
		s.logger.Info("installment statuses refreshed", zap.Int64("due", due), zap.Int64("overdue", overdue))
	}
	return due, overdue, nil
}

func mapToResponse(l Loan) LoanResponse {
	resp := LoanResponse{
		ID:               l.ID.String(),
		LoanNumber:       l.LoanNumber,
		EmployeeID:       l.EmployeeID.String(),
		LoanType:         l.LoanType,
		LoanAmount:       l.LoanAmount,
		InterestRate:     l.InterestRate,
		TenureMonths:     l.TenureMonths,
		EMIAmount:        l.EMIAmount,
		StartDate:        l.StartDate.Format(time.DateOnly),
		Status:           l.Status,
		PrincipalBalance: l.PrincipalBalance,
		InterestBalance:  l.InterestBalance,
		Notes:            l.Notes,
	}
	if l.EndDate != nil {
		v := l.EndDate.Format(time.DateOnly)
		resp.EndDate = &v
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if l.DisbursedAt != nil {
		v := l.DisbursedAt.Format(time.RFC3339)
		resp.DisbursedAt = &v
	}
	return resp
}

func mapInstallmentResponse(i LoanInstallment) InstallmentResponse {
	resp := InstallmentResponse{
		ID:                i.ID.String(),
		InstallmentNumber: i.InstallmentNumber,
		DueDate:           i.DueDate.Format(time.DateOnly),
		PrincipalAmount:   i.PrincipalAmount,
		InterestAmount:    i.InterestAmount,
		TotalAmount:       i.TotalAmount,
		Status:            i.Status,
		PaidAmount:        i.PaidAmount,
	}
	if i.PaidDate != nil {
		v := i.PaidDate.Format(time.DateOnly)
		resp.PaidDate = &v
	}
	if i.PayrollID != nil {
		v := i.PayrollID.String()
		resp.PayrollID = &v
	}
	return resp
}
