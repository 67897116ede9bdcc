package payroll

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payrollperiod"
	payrollperioderrors "go-payroll/internal/payrollperiod/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreatePayrollRequest) (PayrollResponse, error)
	GetAll(ctx context.Context, companyID string, q ListPayrollsQuery) ([]PayrollResponse, error)
	GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error)
	GetItems(ctx context.Context, companyID, id string) (PayrollItemsResponse, error)
	Recalculate(ctx context.Context, companyID, id string) (PayrollResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error)
	Pay(ctx context.Context, companyID, actorID, id string, req PayPayrollRequest) (PayrollResponse, error)
	Cancel(ctx context.Context, companyID, id string) (PayrollResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	RequestPayslip(ctx context.Context, companyID, actorID, id string) (PayslipResponse, error)
	GeneratePayslip(ctx context.Context, companyID, actorID, id string) (PayslipResponse, error)
	Summary(ctx context.Context, companyID string, q SummaryQuery) (SummaryResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	periods   payrollperiod.Repository
	employees employee.Repository
	generator *Generator
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	periods payrollperiod.Repository,
	employees employee.Repository,
	generator *Generator,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		periods:   periods,
		employees: employees,
		generator: generator,
		outbox:    outbox,
		logger:    l,
	}
}

func (s *service) Create(
	ctx context.Context,
	companyID, actorID string,
	req CreatePayrollRequest,
) (PayrollResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return PayrollResponse{}, apperror.ErrInvalidCompanyID
	}
	bonus := decimal.Zero
	if req.Bonus != nil {
		bonus = *req.Bonus
	}
	if bonus.IsNegative() {
		return PayrollResponse{}, payrollerrors.ErrNegativeBonus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	period, err := s.periods.WithTx(tx).FindByIDAndCompany(ctx, companyID, req.PayrollPeriodID)
	if err != nil {
		return PayrollResponse{}, err
	}
	if !period.AcceptsPayroll() {
		return PayrollResponse{}, payrollperioderrors.ErrPeriodLocked
	}

	emp, err := s.employees.WithTx(tx).FindByIDAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		return PayrollResponse{}, err
	}
	if !emp.IsActive() {
		return PayrollResponse{}, employeeerrors.ErrEmployeeNotActive
	}

	p, err := s.generator.Generate(ctx, tx, GenerateInput{
		Employee:      emp,
		Period:        period,
		ActorID:       actorID,
		Bonus:         bonus,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		s.logger.Warn("generate payroll failed",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("employee_id", req.EmployeeID),
			zap.String("period_id", req.PayrollPeriodID),
			zap.Error(err),
		)
		return PayrollResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll created",
		zap.String("company_id", companyID),
		zap.String("payroll_number", p.PayrollNumber),
		zap.String("employee_id", req.EmployeeID),
		zap.String("net_salary", p.NetSalary.String()),
	)
	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, q ListPayrollsQuery) ([]PayrollResponse, error) {
	payrolls, err := s.repo.FindAllByCompany(ctx, companyID, ListFilter{
		Status:       q.Status,
		PeriodID:     q.PayrollPeriodID,
		EmployeeID:   q.EmployeeID,
		DepartmentID: q.DepartmentID,
		PayrollRunID: q.PayrollRunID,
	})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]PayrollResponse, len(payrolls))
	for i, p := range payrolls {
		resp[i] = mapToResponse(p)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) GetItems(ctx context.Context, companyID, id string) (PayrollItemsResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayrollItemsResponse{}, mapRepositoryError(err)
	}

	items, err := s.repo.FindItems(ctx, companyID, id)
	if err != nil {
		return PayrollItemsResponse{}, err
	}

	resp := PayrollItemsResponse{
		PayrollID:       p.ID.String(),
		Earnings:        []PayrollItemResponse{},
		Deductions:      []PayrollItemResponse{},
		TotalEarnings:   p.TotalEarnings,
		TotalDeductions: p.TotalDeductions,
		NetSalary:       p.NetSalary,
	}
	for _, item := range items {
		if item.ItemType == ItemDeduction {
			resp.Deductions = append(resp.Deductions, mapItemResponse(item))
			continue
		}
		resp.Earnings = append(resp.Earnings, mapItemResponse(item))
	}
	return resp, nil
}

func (s *service) Recalculate(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	p, err := s.repo.WithTx(tx).FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if !p.IsEditable() {
		return PayrollResponse{}, payrollerrors.ErrInvalidStatusTransition
	}

	period, err := s.periods.WithTx(tx).FindByIDAndCompany(ctx, companyID, p.PayrollPeriodID.String())
	if err != nil {
		return PayrollResponse{}, err
	}

	if err := s.generator.Recompute(ctx, tx, p, period); err != nil {
		return PayrollResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll recalculated",
		zap.String("company_id", companyID),
		zap.String("payroll_number", p.PayrollNumber),
		zap.String("net_salary", p.NetSalary.String()),
	)
	return mapToResponse(*p), nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (PayrollResponse, error) {
	return s.transition(ctx, companyID, id, func(p *Payroll) (string, error) {
		if p.Status != StatusCalculated {
			return "", payrollerrors.ErrInvalidStatusTransition
		}
		now := time.Now().UTC()
		p.Status = StatusApproved
		p.ApprovedAt = &now
		p.ApprovedBy = parseActor(actorID)
		return events.EventPayrollApproved, nil
	}, actorID)
}

func (s *service) Pay(ctx context.Context, companyID, actorID, id string, req PayPayrollRequest) (PayrollResponse, error) {
	var paymentDate *time.Time
	if req.PaymentDate != "" {
		d, err := time.Parse(time.DateOnly, req.PaymentDate)
		if err != nil {
			return PayrollResponse{}, apperror.ErrInvalidDateFormat
		}
		paymentDate = &d
	}

	return s.transition(ctx, companyID, id, func(p *Payroll) (string, error) {
		if p.Status != StatusApproved {
			return "", payrollerrors.ErrInvalidStatusTransition
		}
		now := time.Now().UTC()
		p.Status = StatusPaid
		p.ProcessedAt = &now
		p.ProcessedBy = parseActor(actorID)
		if req.PaymentMethod != "" {
			p.PaymentMethod = req.PaymentMethod
		}
		if req.PaymentReference != nil {
			p.PaymentReference = req.PaymentReference
		}
		switch {
		case paymentDate != nil:
			p.PaymentDate = paymentDate
		case p.PaymentDate == nil:
			today := dateOnly(now)
			p.PaymentDate = &today
		}
		return events.EventPayrollPaid, nil
	}, actorID)
}

func (s *service) Cancel(ctx context.Context, companyID, id string) (PayrollResponse, error) {
	return s.transition(ctx, companyID, id, func(p *Payroll) (string, error) {
		switch p.Status {
		case StatusDraft, StatusCalculated, StatusApproved:
			p.Status = StatusCancelled
			return "", nil
		}
		return "", payrollerrors.ErrInvalidStatusTransition
	}, "")
}

// transition applies one status change under a row lock. When apply returns
// an event type, the matching status event is queued in the same transaction.
func (s *service) transition(
	ctx context.Context,
	companyID, id string,
	apply func(p *Payroll) (string, error),
	actorID string,
) (PayrollResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	from := p.Status
	eventType, err := apply(p)
	if err != nil {
		return PayrollResponse{}, err
	}

	if err := qtx.Update(ctx, p); err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	if eventType != "" {
		if err := s.enqueueStatusEvent(ctx, tx, p, eventType, actorID); err != nil {
			return PayrollResponse{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	s.logger.Info("payroll status changed",
		zap.String("company_id", companyID),
		zap.String("payroll_number", p.PayrollNumber),
		zap.String("from", from),
		zap.String("to", p.Status),
	)
	return mapToResponse(*p), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if !p.IsDeletable() {
		return payrollerrors.ErrInvalidStatusTransition
	}

	if err := s.generator.Release(ctx, tx, p); err != nil {
		return err
	}
	if err := qtx.Delete(ctx, companyID, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("payroll deleted",
		zap.String("company_id", companyID),
		zap.String("payroll_number", p.PayrollNumber),
	)
	return nil
}

// RequestPayslip queues payslip generation. Without an outbox the payslip is
// generated inline.
func (s *service) RequestPayslip(ctx context.Context, companyID, actorID, id string) (PayslipResponse, error) {
	if s.outbox == nil {
		return s.GeneratePayslip(ctx, companyID, actorID, id)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err)
	}
	if p.Status == StatusDraft || p.Status == StatusCancelled {
		return PayslipResponse{}, payrollerrors.ErrPayslipNotAvailable
	}

	payslip, err := s.ensurePayslip(ctx, qtx, p)
	if err != nil {
		return PayslipResponse{}, err
	}

	rid := contextutil.GetRequestID(ctx)
	event, err := kafka.NewOutboxEvent(rid, "payroll", p.ID.String(),
		events.EventPayrollPayslipRequested, events.PayrollPayslipRequestedTopic,
		events.PayrollPayslipRequestedEvent{
			EventType:   events.EventPayrollPayslipRequested,
			RequestID:   rid,
			PayrollID:   p.ID.String(),
			CompanyID:   companyID,
			RequestedBy: actorID,
			OccurredAt:  time.Now().UTC(),
		})
	if err != nil {
		return PayslipResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("queue payslip request failed", zap.String("payroll_id", id), zap.Error(err))
		return PayslipResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	s.logger.Info("payslip requested",
		zap.String("request_id", rid),
		zap.String("payroll_number", p.PayrollNumber),
	)
	return mapPayslipResponse(*payslip), nil
}

// GeneratePayslip marks the payslip of a payroll generated. Repeated calls
// return the existing payslip unchanged.
func (s *service) GeneratePayslip(ctx context.Context, companyID, actorID, id string) (PayslipResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err)
	}
	if p.Status == StatusDraft || p.Status == StatusCancelled {
		return PayslipResponse{}, payrollerrors.ErrPayslipNotAvailable
	}

	payslip, err := s.ensurePayslip(ctx, qtx, p)
	if err != nil {
		return PayslipResponse{}, err
	}
	if payslip.GeneratedAt != nil {
		return mapPayslipResponse(*payslip), nil
	}

	now := time.Now().UTC()
	payslip.GeneratedAt = &now
	payslip.GeneratedBy = parseActor(actorID)
	if err := qtx.UpdatePayslip(ctx, payslip); err != nil {
		return PayslipResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PayslipResponse{}, err
	}

	s.logger.Info("payslip generated",
		zap.String("company_id", companyID),
		zap.String("payroll_number", p.PayrollNumber),
	)
	return mapPayslipResponse(*payslip), nil
}

func (s *service) ensurePayslip(ctx context.Context, qtx Repository, p *Payroll) (*Payslip, error) {
	payslip, err := qtx.FindPayslip(ctx, p.CompanyID.String(), p.ID.String())
	if err == nil {
		return payslip, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	payslip = &Payslip{ID: uuid.New(), CompanyID: p.CompanyID, PayrollID: p.ID}
	if err := qtx.CreatePayslip(ctx, payslip); err != nil {
		return nil, err
	}
	return payslip, nil
}

func (s *service) Summary(ctx context.Context, companyID string, q SummaryQuery) (SummaryResponse, error) {
	year := q.Year
	if year == 0 {
		year = time.Now().UTC().Year()
	}

	monthly, err := s.repo.MonthlyPaidTotals(ctx, companyID, year)
	if err != nil {
		return SummaryResponse{}, err
	}
	departments, err := s.repo.DepartmentPaidTotals(ctx, companyID, year)
	if err != nil {
		return SummaryResponse{}, err
	}
	totalPaid, err := s.repo.TotalPaid(ctx, companyID)
	if err != nil {
		return SummaryResponse{}, err
	}
	pending, err := s.repo.CountPending(ctx, companyID)
	if err != nil {
		return SummaryResponse{}, err
	}

	byMonth := make(map[int]MonthlyTotal, len(monthly))
	for _, m := range monthly {
		byMonth[m.Month] = m
	}

	resp := SummaryResponse{
		Year:              year,
		MonthlySummary:    make([]MonthlySummary, 0, 12),
		DepartmentSummary: make([]DepartmentSummary, 0, len(departments)),
		TotalPaid:         totalPaid,
		PendingPayrolls:   pending,
	}
	for m := time.January; m <= time.December; m++ {
		total := byMonth[int(m)]
		resp.MonthlySummary = append(resp.MonthlySummary, MonthlySummary{
			Month:  m.String()[:3],
			Amount: total.Amount,
			Count:  total.Count,
		})
	}
	for _, d := range departments {
		resp.DepartmentSummary = append(resp.DepartmentSummary, DepartmentSummary{
			DepartmentID: d.DepartmentID,
			Amount:       d.Amount,
			Count:        d.Count,
		})
	}
	return resp, nil
}

func (s *service) enqueueStatusEvent(ctx context.Context, tx *sql.Tx, p *Payroll, eventType, actorID string) error {
	if s.outbox == nil {
		return nil
	}

	topic := events.PayrollApprovedTopic
	if eventType == events.EventPayrollPaid {
		topic = events.PayrollPaidTopic
	}

	rid := contextutil.GetRequestID(ctx)
	event, err := kafka.NewOutboxEvent(rid, "payroll", p.ID.String(), eventType, topic, events.PayrollStatusEvent{
		EventType:     eventType,
		RequestID:     rid,
		PayrollID:     p.ID.String(),
		PayrollNumber: p.PayrollNumber,
		CompanyID:     p.CompanyID.String(),
		EmployeeID:    p.EmployeeID.String(),
		PeriodID:      p.PayrollPeriodID.String(),
		NetSalary:     p.NetSalary.StringFixed(2),
		Status:        p.Status,
		ActorID:       actorID,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func parseActor(actorID string) *uuid.UUID {
	id, err := uuid.Parse(actorID)
	if err != nil {
		return nil
	}
	return &id
}

func mapToResponse(p Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:                  p.ID.String(),
		PayrollNumber:       p.PayrollNumber,
		EmployeeID:          p.EmployeeID.String(),
		PayrollPeriodID:     p.PayrollPeriodID.String(),
		TotalWorkingDays:    p.TotalWorkingDays,
		PresentDays:         p.PresentDays,
		AbsentDays:          p.AbsentDays,
		LeaveDays:           p.LeaveDays,
		HolidayDays:         p.HolidayDays,
		OvertimeHours:       p.OvertimeHours,
		BasicSalary:         p.BasicSalary,
		HRA:                 p.HRA,
		ConveyanceAllowance: p.ConveyanceAllowance,
		MedicalAllowance:    p.MedicalAllowance,
		SpecialAllowance:    p.SpecialAllowance,
		OvertimeAmount:      p.OvertimeAmount,
		Bonus:               p.Bonus,
		OtherEarnings:       p.OtherEarnings,
		ProvidentFund:       p.ProvidentFund,
		ProfessionalTax:     p.ProfessionalTax,
		IncomeTax:           p.IncomeTax,
		LoanDeduction:       p.LoanDeduction,
		AdvanceDeduction:    p.AdvanceDeduction,
		OtherDeductions:     p.OtherDeductions,
		TotalEarnings:       p.TotalEarnings,
		TotalDeductions:     p.TotalDeductions,
		GrossSalary:         p.GrossSalary,
		NetSalary:           p.NetSalary,
		Status:              p.Status,
		PaymentMethod:       p.PaymentMethod,
		PaymentReference:    p.PaymentReference,
		Notes:               p.Notes,
	}
	resp.PayrollRunID = uuidString(p.PayrollRunID)
	resp.CreatedBy = uuidString(p.CreatedBy)
	resp.ApprovedBy = uuidString(p.ApprovedBy)
	resp.ProcessedBy = uuidString(p.ProcessedBy)
	resp.PaymentDate = formatTime(p.PaymentDate, time.DateOnly)
	resp.ApprovedAt = formatTime(p.ApprovedAt, time.RFC3339)
	resp.ProcessedAt = formatTime(p.ProcessedAt, time.RFC3339)
	return resp
}

func mapItemResponse(i PayrollItem) PayrollItemResponse {
	return PayrollItemResponse{
		ID:              i.ID.String(),
		Source:          i.Source,
		SourceID:        uuidString(i.SourceID),
		Code:            i.Code,
		Name:            i.Name,
		ItemType:        i.ItemType,
		Amount:          i.Amount,
		CalculationNote: i.CalculationNote,
	}
}

func mapPayslipResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:           p.ID.String(),
		PayrollID:    p.PayrollID.String(),
		Generated:    p.GeneratedAt != nil,
		GeneratedAt:  formatTime(p.GeneratedAt, time.RFC3339),
		GeneratedBy:  uuidString(p.GeneratedBy),
		DocumentRef:  p.DocumentRef,
		IsDownloaded: p.IsDownloaded,
	}
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}

func formatTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	v := t.Format(layout)
	return &v
}
