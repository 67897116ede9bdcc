package payrollrun_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"go-payroll/internal/attendance"
	attendanceMock "go-payroll/internal/attendance/mock"
	"go-payroll/internal/docnumber"
	"go-payroll/internal/employee"
	employeeMock "go-payroll/internal/employee/mock"
	"go-payroll/internal/events"
	loanMock "go-payroll/internal/loan/mock"
	"go-payroll/internal/messaging/kafka"
	outboxMock "go-payroll/internal/messaging/kafka/mock"
	"go-payroll/internal/payroll"
	payrollMock "go-payroll/internal/payroll/mock"
	"go-payroll/internal/payrollperiod"
	payrollperioderrors "go-payroll/internal/payrollperiod/errors"
	periodMock "go-payroll/internal/payrollperiod/mock"
	"go-payroll/internal/payrollrun"
	payrollrunerrors "go-payroll/internal/payrollrun/errors"
	"go-payroll/internal/payrollrun/mock"
	advanceMock "go-payroll/internal/salaryadvance/mock"
	"go-payroll/internal/salarystructure"
	structureMock "go-payroll/internal/salarystructure/mock"
	counterMock "go-payroll/internal/shared/counter/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	runs       *mock.MockRepository
	locker     *mock.MockLocker
	lease      *mock.MockLease
	periods    *periodMock.MockRepository
	employees  *employeeMock.MockRepository
	payrolls   *payrollMock.MockRepository
	structures *structureMock.MockRepository
	attendance *attendanceMock.MockRepository
	counter    *counterMock.MockRepository
	loans      *loanMock.MockRepository
	advances   *advanceMock.MockRepository
	outbox     *outboxMock.MockOutboxRepository
	service    payrollrun.Service
}

func setupService(t *testing.T) *serviceDeps {
	t.Helper()

	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	deps := &serviceDeps{
		db:         db,
		sqlMock:    sqlMock,
		runs:       mock.NewMockRepository(ctrl),
		locker:     mock.NewMockLocker(ctrl),
		lease:      mock.NewMockLease(ctrl),
		periods:    periodMock.NewMockRepository(ctrl),
		employees:  employeeMock.NewMockRepository(ctrl),
		payrolls:   payrollMock.NewMockRepository(ctrl),
		structures: structureMock.NewMockRepository(ctrl),
		attendance: attendanceMock.NewMockRepository(ctrl),
		counter:    counterMock.NewMockRepository(ctrl),
		loans:      loanMock.NewMockRepository(ctrl),
		advances:   advanceMock.NewMockRepository(ctrl),
		outbox:     outboxMock.NewMockOutboxRepository(ctrl),
	}
	deps.runs.EXPECT().WithTx(gomock.Any()).Return(deps.runs).AnyTimes()
	deps.periods.EXPECT().WithTx(gomock.Any()).Return(deps.periods).AnyTimes()
	deps.payrolls.EXPECT().WithTx(gomock.Any()).Return(deps.payrolls).AnyTimes()
	deps.structures.EXPECT().WithTx(gomock.Any()).Return(deps.structures).AnyTimes()
	deps.attendance.EXPECT().WithTx(gomock.Any()).Return(deps.attendance).AnyTimes()
	deps.counter.EXPECT().WithTx(gomock.Any()).Return(deps.counter).AnyTimes()
	deps.loans.EXPECT().WithTx(gomock.Any()).Return(deps.loans).AnyTimes()
	deps.advances.EXPECT().WithTx(gomock.Any()).Return(deps.advances).AnyTimes()
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox).AnyTimes()

	numbers := docnumber.NewGenerator(deps.counter)
	generator := payroll.NewGenerator(deps.payrolls, payroll.Sources{
		Structures: deps.structures,
		Attendance: deps.attendance,
		Numbers:    numbers,
		Deductions: payroll.NewDeductionResolver(deps.loans, deps.advances),
	})
	deps.service = payrollrun.NewService(db, deps.runs, deps.periods, deps.employees, generator,
		numbers, deps.outbox, deps.locker, 5*time.Minute)
	return deps
}

type fixture struct {
	companyID string
	actorID   string
	period    *payrollperiod.PayrollPeriod
	run       *payrollrun.PayrollRun
	staff     []employee.Employee
}

func newFixture() fixture {
	companyID := uuid.New()
	period := &payrollperiod.PayrollPeriod{
		ID:          uuid.New(),
		CompanyID:   companyID,
		StartDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		IsProcessed: true,
	}
	return fixture{
		companyID: companyID.String(),
		actorID:   uuid.NewString(),
		period:    period,
		run: &payrollrun.PayrollRun{
			ID:              uuid.New(),
			CompanyID:       companyID,
			RunNumber:       "RUN-2026-00002",
			RunType:         payrollrun.TypeAll,
			PayrollPeriodID: period.ID,
			Status:          payrollrun.StatusPending,
			TotalAmount:     decimal.Zero,
		},
		staff: []employee.Employee{
			{ID: uuid.New(), CompanyID: companyID, EmployeeNumber: "E-001", FullName: "Ana", EmploymentStatus: employee.StatusActive},
			{ID: uuid.New(), CompanyID: companyID, EmployeeNumber: "E-002", FullName: "Budi", EmploymentStatus: employee.StatusActive},
		},
	}
}

func (d *serviceDeps) expectStart(f fixture) {
	d.runs.EXPECT().FindByIDAndCompany(gomock.Any(), f.companyID, f.run.ID.String()).Return(f.run, nil)
	d.locker.EXPECT().
		Obtain(gomock.Any(), "payroll-run:"+f.companyID+":"+f.period.ID.String(), 5*time.Minute).
		Return(d.lease, nil)
	d.lease.EXPECT().Release(gomock.Any()).Return(nil)
	d.sqlMock.ExpectBegin()
	d.runs.EXPECT().FindByIDForUpdate(gomock.Any(), f.companyID, f.run.ID.String()).Return(f.run, nil)
	d.sqlMock.ExpectCommit()
	d.periods.EXPECT().FindByIDAndCompany(gomock.Any(), f.companyID, f.period.ID.String()).Return(f.period, nil)
}

func TestService_Process_SecondRunCreatesNothing(t *testing.T) {
	deps := setupService(t)
	f := newFixture()

	deps.expectStart(f)
	deps.employees.EXPECT().FindEligibleForPayroll(gomock.Any(), f.companyID, employee.EligibilityFilter{}).Return(f.staff, nil)
	for range f.staff {
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
	}
	deps.payrolls.EXPECT().ExistsForEmployeePeriod(gomock.Any(), f.companyID, gomock.Any(), f.period.ID.String()).
		Return(true, nil).Times(2)
	deps.lease.EXPECT().Refresh(gomock.Any(), 5*time.Minute, nil).Return(nil).Times(2)
	deps.sqlMock.ExpectBegin()
	deps.periods.EXPECT().MarkProcessed(gomock.Any(), f.companyID, f.period.ID.String(), f.actorID, gomock.Any()).Return(nil)
	deps.sqlMock.ExpectCommit()
	// start, headcount, one per employee, completion
	deps.runs.EXPECT().Update(gomock.Any(), f.run).Return(nil).Times(5)

	resp, err := deps.service.Process(context.Background(), f.companyID, f.run.ID.String(), f.actorID)

	assert.NoError(t, err)
	assert.Equal(t, payrollrun.StatusCompleted, resp.Status)
	assert.Equal(t, 2, resp.TotalEmployees)
	assert.Equal(t, 0, resp.ProcessedEmployees)
	assert.Equal(t, 2, resp.FailedEmployees)
	assert.True(t, resp.TotalAmount.IsZero())
	assert.Equal(t,
		"Payroll already exists for Ana (E-001)\nPayroll already exists for Budi (E-002)",
		resp.ErrorLog,
	)
	assert.Equal(t, f.actorID, *resp.CompletedBy)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestService_Process_ContinuesPastEmployeeError(t *testing.T) {
	deps := setupService(t)
	f := newFixture()
	ana, budi := f.staff[0], f.staff[1]

	deps.expectStart(f)
	deps.employees.EXPECT().FindEligibleForPayroll(gomock.Any(), f.companyID, gomock.Any()).Return(f.staff, nil)

	// Ana is generated.
	deps.sqlMock.ExpectBegin()
	deps.payrolls.EXPECT().ExistsForEmployeePeriod(gomock.Any(), f.companyID, ana.ID.String(), f.period.ID.String()).Return(false, nil)
	deps.counter.EXPECT().GetNextValue(gomock.Any(), f.companyID, "PR-2026-09").Return(int64(1), nil)
	deps.structures.EXPECT().FindActiveByEmployee(gomock.Any(), f.companyID, ana.ID.String()).
		Return(&salarystructure.SalaryStructure{BasicSalary: decimal.NewFromInt(20000)}, nil)
	deps.attendance.EXPECT().Summarize(gomock.Any(), f.companyID, ana.ID.String(), f.period.StartDate, f.period.EndDate).
		Return(attendance.Summary{TotalWorkingDays: 30, PresentDays: 30, OvertimeHours: decimal.Zero}, nil)
	deps.payrolls.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *payroll.Payroll) error {
		assert.Equal(t, f.run.ID, *p.PayrollRunID)
		return nil
	})
	deps.loans.EXPECT().FindActiveByEmployeeForUpdate(gomock.Any(), f.companyID, ana.ID.String()).Return(nil, nil)
	deps.advances.EXPECT().FindOutstandingByEmployeeForUpdate(gomock.Any(), f.companyID, ana.ID.String()).Return(nil, nil)
	deps.payrolls.EXPECT().CreateItems(gomock.Any(), gomock.Any()).Return(nil)
	deps.payrolls.EXPECT().CreatePayslip(gomock.Any(), gomock.Any()).Return(nil)
	deps.sqlMock.ExpectCommit()

	// Budi has no structure.
	deps.sqlMock.ExpectBegin()
	deps.payrolls.EXPECT().ExistsForEmployeePeriod(gomock.Any(), f.companyID, budi.ID.String(), f.period.ID.String()).Return(false, nil)
	deps.counter.EXPECT().GetNextValue(gomock.Any(), f.companyID, "PR-2026-09").Return(int64(2), nil)
	deps.structures.EXPECT().FindActiveByEmployee(gomock.Any(), f.companyID, budi.ID.String()).Return(nil, gorm.ErrRecordNotFound)
	deps.sqlMock.ExpectRollback()
	deps.lease.EXPECT().Refresh(gomock.Any(), 5*time.Minute, nil).Return(nil).Times(2)

	deps.sqlMock.ExpectBegin()
	deps.periods.EXPECT().MarkProcessed(gomock.Any(), f.companyID, f.period.ID.String(), f.actorID, gomock.Any()).Return(nil)
	deps.sqlMock.ExpectCommit()
	deps.runs.EXPECT().Update(gomock.Any(), f.run).Return(nil).Times(5)

	resp, err := deps.service.Process(context.Background(), f.companyID, f.run.ID.String(), f.actorID)

	assert.NoError(t, err)
	assert.Equal(t, payrollrun.StatusCompleted, resp.Status)
	assert.Equal(t, 1, resp.ProcessedEmployees)
	assert.Equal(t, 1, resp.FailedEmployees)
	assert.Equal(t, "20000", resp.TotalAmount.String())
	assert.Equal(t, "Error processing Budi (E-002): no active salary structure found for employee", resp.ErrorLog)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestService_Process_RunLevelFailure(t *testing.T) {
	deps := setupService(t)
	f := newFixture()

	deps.expectStart(f)
	deps.employees.EXPECT().FindEligibleForPayroll(gomock.Any(), f.companyID, gomock.Any()).Return(nil, errors.New("connection reset"))
	deps.runs.EXPECT().Update(gomock.Any(), f.run).Return(nil).Times(2)

	resp, err := deps.service.Process(context.Background(), f.companyID, f.run.ID.String(), f.actorID)

	assert.NoError(t, err)
	assert.Equal(t, payrollrun.StatusFailed, resp.Status)
	assert.Equal(t, "Run failed: resolve employees: connection reset", resp.ErrorLog)
}

func TestService_Process_PeriodBusy(t *testing.T) {
	deps := setupService(t)
	f := newFixture()

	deps.runs.EXPECT().FindByIDAndCompany(gomock.Any(), f.companyID, f.run.ID.String()).Return(f.run, nil)
	deps.locker.EXPECT().Obtain(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, redislock.ErrNotObtained)

	_, err := deps.service.Process(context.Background(), f.companyID, f.run.ID.String(), f.actorID)

	assert.ErrorIs(t, err, payrollrunerrors.ErrRunInProgress)
}

func TestService_Process_LeaseLost(t *testing.T) {
	deps := setupService(t)
	f := newFixture()

	deps.expectStart(f)
	deps.employees.EXPECT().FindEligibleForPayroll(gomock.Any(), f.companyID, gomock.Any()).Return(f.staff, nil)
	deps.sqlMock.ExpectBegin()
	deps.payrolls.EXPECT().ExistsForEmployeePeriod(gomock.Any(), f.companyID, f.staff[0].ID.String(), f.period.ID.String()).
		Return(true, nil)
	deps.sqlMock.ExpectRollback()
	deps.lease.EXPECT().Refresh(gomock.Any(), 5*time.Minute, nil).Return(redislock.ErrNotObtained)
	// start, headcount, first employee, failure
	deps.runs.EXPECT().Update(gomock.Any(), f.run).Return(nil).Times(4)

	resp, err := deps.service.Process(context.Background(), f.companyID, f.run.ID.String(), f.actorID)

	assert.NoError(t, err)
	assert.Equal(t, payrollrun.StatusFailed, resp.Status)
	assert.Equal(t, 1, resp.FailedEmployees)
	assert.Contains(t, resp.ErrorLog, "Run failed: refresh run lock: "+redislock.ErrNotObtained.Error())
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestService_Process_StatusGuard(t *testing.T) {
	tests := []struct {
		status  string
		wantErr error
	}{
		{payrollrun.StatusProcessing, payrollrunerrors.ErrInvalidStatusTransition},
		{payrollrun.StatusCompleted, payrollrunerrors.ErrRunFinished},
		{payrollrun.StatusFailed, payrollrunerrors.ErrRunFinished},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			deps := setupService(t)
			f := newFixture()
			f.run.Status = tt.status

			deps.runs.EXPECT().FindByIDAndCompany(gomock.Any(), f.companyID, f.run.ID.String()).Return(f.run, nil)

			_, err := deps.service.Process(context.Background(), f.companyID, f.run.ID.String(), f.actorID)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("department run needs department", func(t *testing.T) {
		deps := setupService(t)

		_, err := deps.service.Create(ctx, uuid.NewString(), "", payrollrun.CreateRunRequest{
			RunType:         payrollrun.TypeDepartment,
			PayrollPeriodID: uuid.NewString(),
		})

		assert.ErrorIs(t, err, payrollrunerrors.ErrDepartmentRequired)
	})

	t.Run("custom run needs employees", func(t *testing.T) {
		deps := setupService(t)

		_, err := deps.service.Create(ctx, uuid.NewString(), "", payrollrun.CreateRunRequest{
			RunType:         payrollrun.TypeCustom,
			PayrollPeriodID: uuid.NewString(),
		})

		assert.ErrorIs(t, err, payrollrunerrors.ErrEmployeesRequired)
	})

	t.Run("async run is queued", func(t *testing.T) {
		deps := setupService(t)
		f := newFixture()
		branchID := uuid.NewString()

		deps.sqlMock.ExpectBegin()
		deps.periods.EXPECT().FindByIDAndCompany(ctx, f.companyID, f.period.ID.String()).Return(f.period, nil)
		deps.counter.EXPECT().GetNextValue(ctx, f.companyID, gomock.Any()).Return(int64(4), nil)
		deps.runs.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.PayrollRunRequestedTopic, e.Topic)
			assert.Equal(t, "payroll_run", e.AggregateType)
			assert.Contains(t, string(e.Payload), f.actorID)
			return nil
		})
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Create(ctx, f.companyID, f.actorID, payrollrun.CreateRunRequest{
			RunType:         payrollrun.TypeBranch,
			PayrollPeriodID: f.period.ID.String(),
			BranchID:        branchID,
			Async:           true,
		})

		assert.NoError(t, err)
		assert.Equal(t, payrollrun.StatusPending, resp.Status)
		assert.True(t, strings.HasPrefix(resp.RunNumber, "RUN-"))
		assert.True(t, strings.HasSuffix(resp.RunNumber, "-00004"))
		assert.Equal(t, branchID, *resp.BranchID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("locked period", func(t *testing.T) {
		deps := setupService(t)
		f := newFixture()
		f.period.IsLocked = true

		deps.sqlMock.ExpectBegin()
		deps.periods.EXPECT().FindByIDAndCompany(ctx, f.companyID, f.period.ID.String()).Return(f.period, nil)
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Create(ctx, f.companyID, f.actorID, payrollrun.CreateRunRequest{
			RunType:         payrollrun.TypeAll,
			PayrollPeriodID: f.period.ID.String(),
		})

		assert.ErrorIs(t, err, payrollperioderrors.ErrPeriodLocked)
	})
}
