package payrollrun

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/docnumber"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payrollperiod"
	payrollperioderrors "go-payroll/internal/payrollperiod/errors"
	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("go-payroll/payrollrun")

//go:generate mockgen -source=payrollrun_service.go -destination=mock/payrollrun_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateRunRequest) (RunResponse, error)
	GetAll(ctx context.Context, companyID string, q ListRunsQuery) ([]RunResponse, error)
	GetByID(ctx context.Context, companyID, id string) (RunResponse, error)
	Process(ctx context.Context, companyID, id, actorID string) (RunResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	periods   payrollperiod.Repository
	employees employee.Repository
	generator *payroll.Generator
	numbers   *docnumber.Generator
	outbox    kafka.OutboxRepository
	locker    Locker
	lockTTL   time.Duration
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	periods payrollperiod.Repository,
	employees employee.Repository,
	generator *payroll.Generator,
	numbers *docnumber.Generator,
	outbox kafka.OutboxRepository,
	locker Locker,
	lockTTL time.Duration,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payrollrun.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollrun.service")
	}
	if lockTTL <= 0 {
		lockTTL = 10 * time.Minute
	}
	return &service{
		db:        db,
		repo:      repo,
		periods:   periods,
		employees: employees,
		generator: generator,
		numbers:   numbers,
		outbox:    outbox,
		locker:    locker,
		lockTTL:   lockTTL,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateRunRequest) (RunResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RunResponse{}, apperror.ErrInvalidCompanyID
	}
	run, err := newRun(companyUUID, req)
	if err != nil {
		return RunResponse{}, err
	}
	queued := req.Async && s.outbox != nil

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	period, err := s.periods.WithTx(tx).FindByIDAndCompany(ctx, companyID, req.PayrollPeriodID)
	if err != nil {
		return RunResponse{}, err
	}
	if period.IsLocked {
		return RunResponse{}, payrollperioderrors.ErrPeriodLocked
	}

	run.RunNumber, err = s.numbers.WithTx(tx).Next(ctx, companyID, docnumber.PayrollRun, time.Now().UTC())
	if err != nil {
		return RunResponse{}, err
	}
	if err := s.repo.WithTx(tx).Create(ctx, run); err != nil {
		return RunResponse{}, mapRepositoryError(err)
	}

	if queued {
		if err := s.enqueue(ctx, tx, run, actorID); err != nil {
			return RunResponse{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}

	s.logger.Info("payroll run created",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("company_id", companyID),
		zap.String("run_number", run.RunNumber),
		zap.String("run_type", run.RunType),
		zap.Bool("queued", queued),
	)

	if queued {
		return mapToResponse(*run), nil
	}
	return s.Process(ctx, companyID, run.ID.String(), actorID)
}

func newRun(companyID uuid.UUID, req CreateRunRequest) (*PayrollRun, error) {
	periodID, err := uuid.Parse(req.PayrollPeriodID)
	if err != nil {
		return nil, payrollperioderrors.ErrPeriodNotFound
	}
	run := &PayrollRun{
		ID:              uuid.New(),
		CompanyID:       companyID,
		RunType:         req.RunType,
		PayrollPeriodID: periodID,
		EmployeeIDs:     EmployeeIDList{},
		Status:          StatusPending,
		TotalAmount:     decimal.Zero,
		Notes:           req.Notes,
	}

	switch req.RunType {
	case TypeDepartment:
		id, err := uuid.Parse(req.DepartmentID)
		if err != nil {
			return nil, payrollrunerrors.ErrDepartmentRequired
		}
		run.DepartmentID = &id
	case TypeBranch:
		id, err := uuid.Parse(req.BranchID)
		if err != nil {
			return nil, payrollrunerrors.ErrBranchRequired
		}
		run.BranchID = &id
	case TypeCustom:
		if len(req.EmployeeIDs) == 0 {
			return nil, payrollrunerrors.ErrEmployeesRequired
		}
		run.EmployeeIDs = EmployeeIDList(req.EmployeeIDs)
	}
	return run, nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, run *PayrollRun, actorID string) error {
	rid := contextutil.GetRequestID(ctx)
	event, err := kafka.NewOutboxEvent(rid, "payroll_run", run.ID.String(),
		events.EventPayrollRunRequested, events.PayrollRunRequestedTopic,
		events.PayrollRunRequestedEvent{
			EventType:   events.EventPayrollRunRequested,
			RequestID:   rid,
			RunID:       run.ID.String(),
			CompanyID:   run.CompanyID.String(),
			RequestedBy: actorID,
			OccurredAt:  time.Now().UTC(),
		})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func (s *service) GetAll(ctx context.Context, companyID string, q ListRunsQuery) ([]RunResponse, error) {
	runs, err := s.repo.FindAllByCompany(ctx, companyID, ListFilter{Status: q.Status, PeriodID: q.PayrollPeriodID})
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]RunResponse, len(runs))
	for i, r := range runs {
		resp[i] = mapToResponse(r)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (RunResponse, error) {
	run, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return RunResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*run), nil
}

// Process generates the payrolls of a pending run. Per-employee failures are
// recorded on the run; only a failure to start the run is returned as an
// error. A run that breaks off midway ends up failed with the reason in its
// error log.
func (s *service) Process(ctx context.Context, companyID, id, actorID string) (RunResponse, error) {
	ctx, span := tracer.Start(ctx, "payrollrun.Process", trace.WithAttributes(
		attribute.String("company_id", companyID),
		attribute.String("run_id", id),
	))
	defer span.End()

	run, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return RunResponse{}, mapRepositoryError(err)
	}
	if run.IsFinished() {
		return RunResponse{}, payrollrunerrors.ErrRunFinished
	}
	if run.Status != StatusPending {
		return RunResponse{}, payrollrunerrors.ErrInvalidStatusTransition
	}

	lock, err := s.lockPeriod(ctx, companyID, run.PayrollPeriodID.String())
	if err != nil {
		span.RecordError(err)
		return RunResponse{}, err
	}
	defer lock.release(ctx)

	run, err = s.start(ctx, companyID, id, actorID)
	if err != nil {
		return RunResponse{}, err
	}

	if err := s.execute(ctx, run, actorID, lock); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.fail(ctx, run, err)
		return mapToResponse(*run), nil
	}

	span.SetAttributes(
		attribute.Int("employees.total", run.TotalEmployees),
		attribute.Int("employees.processed", run.ProcessedEmployees),
		attribute.Int("employees.failed", run.FailedEmployees),
	)
	s.logger.Info("payroll run completed",
		zap.String("company_id", companyID),
		zap.String("run_number", run.RunNumber),
		zap.Int("processed", run.ProcessedEmployees),
		zap.Int("failed", run.FailedEmployees),
		zap.String("total_amount", run.TotalAmount.String()),
	)
	return mapToResponse(*run), nil
}

func (s *service) start(ctx context.Context, companyID, id, actorID string) (*PayrollRun, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := qtx.FindByIDForUpdate(ctx, companyID, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if run.IsFinished() {
		return nil, payrollrunerrors.ErrRunFinished
	}
	if run.Status != StatusPending {
		return nil, payrollrunerrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	run.Status = StatusProcessing
	run.StartedAt = &now
	run.StartedBy = parseActor(actorID)
	if err := qtx.Update(ctx, run); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *service) execute(ctx context.Context, run *PayrollRun, actorID string, lock *periodLock) error {
	companyID := run.CompanyID.String()

	period, err := s.periods.FindByIDAndCompany(ctx, companyID, run.PayrollPeriodID.String())
	if err != nil {
		return err
	}
	if period.IsLocked {
		return payrollperioderrors.ErrPeriodLocked
	}

	targets, err := s.employees.FindEligibleForPayroll(ctx, companyID, eligibility(run))
	if err != nil {
		return fmt.Errorf("resolve employees: %w", err)
	}

	run.TotalEmployees = len(targets)
	if err := s.repo.Update(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	for i := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}

		emp := &targets[i]
		net, err := s.processEmployee(ctx, run, period, emp, actorID)
		switch {
		case errors.Is(err, payrollerrors.ErrPayrollAlreadyExists):
			run.RecordFailure(fmt.Sprintf("Payroll already exists for %s", emp.DisplayName()))
		case err != nil:
			run.RecordFailure(fmt.Sprintf("Error processing %s: %v", emp.DisplayName(), err))
			s.logger.Warn("employee payroll failed",
				zap.String("run_number", run.RunNumber),
				zap.String("employee_id", emp.ID.String()),
				zap.Error(err),
			)
		default:
			run.RecordSuccess(net)
		}

		if err := s.repo.Update(ctx, run); err != nil {
			return fmt.Errorf("save run progress: %w", err)
		}
		if err := lock.extend(ctx); err != nil {
			return err
		}
	}

	return s.complete(ctx, run, actorID)
}

func (s *service) processEmployee(
	ctx context.Context,
	run *PayrollRun,
	period *payrollperiod.PayrollPeriod,
	emp *employee.Employee,
	actorID string,
) (decimal.Decimal, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	defer tx.Rollback()

	runID := run.ID
	p, err := s.generator.Generate(ctx, tx, payroll.GenerateInput{
		Employee: emp,
		Period:   period,
		RunID:    &runID,
		ActorID:  actorID,
		Bonus:    decimal.Zero,
	})
	if err != nil {
		return decimal.Zero, err
	}
	if err := tx.Commit(); err != nil {
		return decimal.Zero, err
	}
	return p.NetSalary, nil
}

// complete finishes the run and marks its period processed in one
// transaction.
func (s *service) complete(ctx context.Context, run *PayrollRun, actorID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if err := s.periods.WithTx(tx).MarkProcessed(ctx, run.CompanyID.String(), run.PayrollPeriodID.String(), actorID, now); err != nil {
		return fmt.Errorf("mark period processed: %w", err)
	}

	run.Status = StatusCompleted
	run.CompletedAt = &now
	run.CompletedBy = parseActor(actorID)
	if err := s.repo.WithTx(tx).Update(ctx, run); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) fail(ctx context.Context, run *PayrollRun, cause error) {
	run.Status = StatusFailed
	run.AppendError(fmt.Sprintf("Run failed: %v", cause))

	if err := s.repo.Update(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Error("save failed run",
			zap.String("run_number", run.RunNumber),
			zap.Error(err),
		)
	}
	s.logger.Error("payroll run failed",
		zap.String("company_id", run.CompanyID.String()),
		zap.String("run_number", run.RunNumber),
		zap.Error(cause),
	)
}

func eligibility(run *PayrollRun) employee.EligibilityFilter {
	var filter employee.EligibilityFilter
	switch run.RunType {
	case TypeDepartment:
		if run.DepartmentID != nil {
			filter.DepartmentID = run.DepartmentID.String()
		}
	case TypeBranch:
		if run.BranchID != nil {
			filter.BranchID = run.BranchID.String()
		}
	case TypeCustom:
		filter.EmployeeIDs = []string(run.EmployeeIDs)
	}
	return filter
}

func parseActor(actorID string) *uuid.UUID {
	id, err := uuid.Parse(actorID)
	if err != nil {
		return nil
	}
	return &id
}

func mapToResponse(r PayrollRun) RunResponse {
	resp := RunResponse{
		ID:                 r.ID.String(),
		RunNumber:          r.RunNumber,
		RunType:            r.RunType,
		PayrollPeriodID:    r.PayrollPeriodID.String(),
		EmployeeIDs:        []string(r.EmployeeIDs),
		Status:             r.Status,
		TotalEmployees:     r.TotalEmployees,
		ProcessedEmployees: r.ProcessedEmployees,
		FailedEmployees:    r.FailedEmployees,
		TotalAmount:        r.TotalAmount,
		Notes:              r.Notes,
		ErrorLog:           r.ErrorLog,
	}
	if r.DepartmentID != nil {
		v := r.DepartmentID.String()
		resp.DepartmentID = &v
	}
	if r.BranchID != nil {
		v := r.BranchID.String()
		resp.BranchID = &v
	}
	if r.StartedBy != nil {
		v := r.StartedBy.String()
		resp.StartedBy = &v
	}
	if r.StartedAt != nil {
		v := r.StartedAt.Format(time.RFC3339)
		resp.StartedAt = &v
	}
	if r.CompletedBy != nil {
		v := r.CompletedBy.String()
		resp.CompletedBy = &v
	}
	if r.CompletedAt != nil {
		v := r.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}
