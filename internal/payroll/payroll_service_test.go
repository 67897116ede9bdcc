package payroll_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-payroll/internal/attendance"
	attendanceMock "go-payroll/internal/attendance/mock"
	"go-payroll/internal/docnumber"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	employeeMock "go-payroll/internal/employee/mock"
	"go-payroll/internal/events"
	"go-payroll/internal/loan"
	loanMock "go-payroll/internal/loan/mock"
	"go-payroll/internal/messaging/kafka"
	outboxMock "go-payroll/internal/messaging/kafka/mock"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/payroll/mock"
	"go-payroll/internal/payrollcomponent"
	"go-payroll/internal/payrollperiod"
	payrollperioderrors "go-payroll/internal/payrollperiod/errors"
	periodMock "go-payroll/internal/payrollperiod/mock"
	"go-payroll/internal/salaryadvance"
	advanceMock "go-payroll/internal/salaryadvance/mock"
	"go-payroll/internal/salarystructure"
	structureMock "go-payroll/internal/salarystructure/mock"
	counterMock "go-payroll/internal/shared/counter/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	repo       *mock.MockRepository
	periods    *periodMock.MockRepository
	employees  *employeeMock.MockRepository
	structures *structureMock.MockRepository
	attendance *attendanceMock.MockRepository
	counter    *counterMock.MockRepository
	loans      *loanMock.MockRepository
	advances   *advanceMock.MockRepository
	outbox     *outboxMock.MockOutboxRepository
	service    payroll.Service
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
		repo:       mock.NewMockRepository(ctrl),
		periods:    periodMock.NewMockRepository(ctrl),
		employees:  employeeMock.NewMockRepository(ctrl),
		structures: structureMock.NewMockRepository(ctrl),
		attendance: attendanceMock.NewMockRepository(ctrl),
		counter:    counterMock.NewMockRepository(ctrl),
		loans:      loanMock.NewMockRepository(ctrl),
		advances:   advanceMock.NewMockRepository(ctrl),
		outbox:     outboxMock.NewMockOutboxRepository(ctrl),
	}
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo).AnyTimes()
	deps.periods.EXPECT().WithTx(gomock.Any()).Return(deps.periods).AnyTimes()
	deps.employees.EXPECT().WithTx(gomock.Any()).Return(deps.employees).AnyTimes()
	deps.structures.EXPECT().WithTx(gomock.Any()).Return(deps.structures).AnyTimes()
	deps.attendance.EXPECT().WithTx(gomock.Any()).Return(deps.attendance).AnyTimes()
	deps.counter.EXPECT().WithTx(gomock.Any()).Return(deps.counter).AnyTimes()
	deps.loans.EXPECT().WithTx(gomock.Any()).Return(deps.loans).AnyTimes()
	deps.advances.EXPECT().WithTx(gomock.Any()).Return(deps.advances).AnyTimes()
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox).AnyTimes()

	generator := payroll.NewGenerator(deps.repo, payroll.Sources{
		Structures: deps.structures,
		Attendance: deps.attendance,
		Numbers:    docnumber.NewGenerator(deps.counter),
		Deductions: payroll.NewDeductionResolver(deps.loans, deps.advances),
	})
	deps.service = payroll.NewService(db, deps.repo, deps.periods, deps.employees, generator, deps.outbox)
	return deps
}

func october(companyID string) *payrollperiod.PayrollPeriod {
	return &payrollperiod.PayrollPeriod{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		Name:      "October 2026",
		StartDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 10, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	employeeID := uuid.New()
	bonus := dec("500")

	activeEmployee := &employee.Employee{ID: employeeID, EmploymentStatus: employee.StatusActive}

	t.Run("computes and persists payroll", func(t *testing.T) {
		deps := setupService(t)
		period := october(companyID)
		req := payroll.CreatePayrollRequest{
			EmployeeID:      employeeID.String(),
			PayrollPeriodID: period.ID.String(),
			Bonus:           &bonus,
		}

		structure := &salarystructure.SalaryStructure{
			BasicSalary: dec("30000"),
			Components: []salarystructure.ComponentValue{
				{
					Component:  component("HRA", payrollcomponent.TypeEarning, payrollcomponent.CalcPercentage, true),
					Percentage: dec("40"),
				},
				{
					Component: component("PF", payrollcomponent.TypeDeduction, payrollcomponent.CalcFixed, true),
					Amount:    dec("1800"),
				},
			},
		}

		deps.sqlMock.ExpectBegin()
		deps.periods.EXPECT().FindByIDAndCompany(ctx, companyID, period.ID.String()).Return(period, nil)
		deps.employees.EXPECT().FindByIDAndCompany(ctx, companyID, employeeID.String()).Return(activeEmployee, nil)
		deps.repo.EXPECT().ExistsForEmployeePeriod(ctx, companyID, employeeID.String(), period.ID.String()).Return(false, nil)
		deps.counter.EXPECT().GetNextValue(ctx, companyID, "PR-2026-10").Return(int64(3), nil)
		deps.structures.EXPECT().FindActiveByEmployee(ctx, companyID, employeeID.String()).Return(structure, nil)
		deps.attendance.EXPECT().Summarize(ctx, companyID, employeeID.String(), period.StartDate, period.EndDate).
			Return(attendance.Summary{TotalWorkingDays: 30, PresentDays: 28, LeaveDays: 2, OvertimeHours: decimal.Zero}, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.loans.EXPECT().FindActiveByEmployeeForUpdate(ctx, companyID, employeeID.String()).Return(nil, nil)
		deps.advances.EXPECT().FindOutstandingByEmployeeForUpdate(ctx, companyID, employeeID.String()).Return(nil, nil)
		deps.repo.EXPECT().CreateItems(ctx, gomock.Len(2)).Return(nil)
		deps.repo.EXPECT().CreatePayslip(ctx, gomock.Any()).Return(nil)
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Create(ctx, companyID, uuid.NewString(), req)

		assert.NoError(t, err)
		assert.Equal(t, "PR-2026-10-00003", resp.PayrollNumber)
		assert.Equal(t, payroll.StatusCalculated, resp.Status)
		assert.Equal(t, payroll.PaymentBankTransfer, resp.PaymentMethod)
		assert.Equal(t, "29000", resp.BasicSalary.String())
		assert.Equal(t, "11600", resp.HRA.String())
		assert.Equal(t, "41100", resp.TotalEarnings.String())
		assert.Equal(t, "39300", resp.NetSalary.String())
		assert.NotNil(t, resp.CreatedBy)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("locked period", func(t *testing.T) {
		deps := setupService(t)
		period := october(companyID)
		period.IsLocked = true

		deps.sqlMock.ExpectBegin()
		deps.periods.EXPECT().FindByIDAndCompany(ctx, companyID, period.ID.String()).Return(period, nil)
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Create(ctx, companyID, "", payroll.CreatePayrollRequest{
			EmployeeID:      employeeID.String(),
			PayrollPeriodID: period.ID.String(),
		})

		assert.ErrorIs(t, err, payrollperioderrors.ErrPeriodLocked)
	})

	t.Run("inactive employee", func(t *testing.T) {
		deps := setupService(t)
		period := october(companyID)

		deps.sqlMock.ExpectBegin()
		deps.periods.EXPECT().FindByIDAndCompany(ctx, companyID, period.ID.String()).Return(period, nil)
		deps.employees.EXPECT().FindByIDAndCompany(ctx, companyID, employeeID.String()).
			Return(&employee.Employee{ID: employeeID, EmploymentStatus: employee.StatusTerminated}, nil)
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Create(ctx, companyID, "", payroll.CreatePayrollRequest{
			EmployeeID:      employeeID.String(),
			PayrollPeriodID: period.ID.String(),
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotActive)
	})

	t.Run("duplicate for period", func(t *testing.T) {
		deps := setupService(t)
		period := october(companyID)

		deps.sqlMock.ExpectBegin()
		deps.periods.EXPECT().FindByIDAndCompany(ctx, companyID, period.ID.String()).Return(period, nil)
		deps.employees.EXPECT().FindByIDAndCompany(ctx, companyID, employeeID.String()).Return(activeEmployee, nil)
		deps.repo.EXPECT().ExistsForEmployeePeriod(ctx, companyID, employeeID.String(), period.ID.String()).Return(true, nil)
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Create(ctx, companyID, "", payroll.CreatePayrollRequest{
			EmployeeID:      employeeID.String(),
			PayrollPeriodID: period.ID.String(),
		})

		assert.ErrorIs(t, err, payrollerrors.ErrPayrollAlreadyExists)
	})

	t.Run("negative bonus", func(t *testing.T) {
		deps := setupService(t)
		negative := dec("-1")

		_, err := deps.service.Create(ctx, companyID, "", payroll.CreatePayrollRequest{
			EmployeeID:      employeeID.String(),
			PayrollPeriodID: uuid.NewString(),
			Bonus:           &negative,
		})

		assert.ErrorIs(t, err, payrollerrors.ErrNegativeBonus)
	})
}

func TestService_Approve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	actorID := uuid.NewString()

	t.Run("calculated payroll queues approved event", func(t *testing.T) {
		deps := setupService(t)
		p := &payroll.Payroll{
			ID:            uuid.New(),
			CompanyID:     uuid.MustParse(companyID),
			PayrollNumber: "PR-2026-10-00001",
			Status:        payroll.StatusCalculated,
			NetSalary:     dec("39300"),
		}

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().FindByIDForUpdate(ctx, companyID, p.ID.String()).Return(p, nil)
		deps.repo.EXPECT().Update(ctx, p).Return(nil)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.PayrollApprovedTopic, e.Topic)
			assert.Equal(t, events.EventPayrollApproved, e.EventType)
			assert.Equal(t, p.ID.String(), e.AggregateID)
			assert.Contains(t, string(e.Payload), `"net_salary":"39300.00"`)
			return nil
		})
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Approve(ctx, companyID, actorID, p.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusApproved, resp.Status)
		assert.Equal(t, actorID, *resp.ApprovedBy)
		assert.NotNil(t, resp.ApprovedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("paid payroll", func(t *testing.T) {
		deps := setupService(t)
		p := &payroll.Payroll{ID: uuid.New(), Status: payroll.StatusPaid}

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().FindByIDForUpdate(ctx, companyID, p.ID.String()).Return(p, nil)
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Approve(ctx, companyID, actorID, p.ID.String())

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupService(t)
		id := uuid.NewString()

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().FindByIDForUpdate(ctx, companyID, id).Return(nil, gorm.ErrRecordNotFound)
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Approve(ctx, companyID, actorID, id)

		assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)
	})
}

func TestService_Pay(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	actorID := uuid.NewString()

	t.Run("defaults payment date to today", func(t *testing.T) {
		deps := setupService(t)
		p := &payroll.Payroll{ID: uuid.New(), CompanyID: uuid.MustParse(companyID), Status: payroll.StatusApproved}
		ref := "TRX-991"

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().FindByIDForUpdate(ctx, companyID, p.ID.String()).Return(p, nil)
		deps.repo.EXPECT().Update(ctx, p).Return(nil)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.PayrollPaidTopic, e.Topic)
			return nil
		})
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.Pay(ctx, companyID, actorID, p.ID.String(), payroll.PayPayrollRequest{
			PaymentMethod:    payroll.PaymentCash,
			PaymentReference: &ref,
		})

		assert.NoError(t, err)
		assert.Equal(t, payroll.StatusPaid, resp.Status)
		assert.Equal(t, payroll.PaymentCash, resp.PaymentMethod)
		assert.Equal(t, time.Now().UTC().Format(time.DateOnly), *resp.PaymentDate)
		assert.Equal(t, ref, *resp.PaymentReference)
		assert.Equal(t, actorID, *resp.ProcessedBy)
	})

	t.Run("calculated payroll cannot be paid", func(t *testing.T) {
		deps := setupService(t)
		p := &payroll.Payroll{ID: uuid.New(), Status: payroll.StatusCalculated}

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().FindByIDForUpdate(ctx, companyID, p.ID.String()).Return(p, nil)
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.Pay(ctx, companyID, actorID, p.ID.String(), payroll.PayPayrollRequest{})

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
	})
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()

	tests := []struct {
		from    string
		wantErr error
	}{
		{payroll.StatusCalculated, nil},
		{payroll.StatusApproved, nil},
		{payroll.StatusPaid, payrollerrors.ErrInvalidStatusTransition},
		{payroll.StatusCancelled, payrollerrors.ErrInvalidStatusTransition},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			deps := setupService(t)
			p := &payroll.Payroll{ID: uuid.New(), Status: tt.from}

			deps.sqlMock.ExpectBegin()
			deps.repo.EXPECT().FindByIDForUpdate(ctx, companyID, p.ID.String()).Return(p, nil)
			if tt.wantErr == nil {
				deps.repo.EXPECT().Update(ctx, p).Return(nil)
				deps.sqlMock.ExpectCommit()
			} else {
				deps.sqlMock.ExpectRollback()
			}

			resp, err := deps.service.Cancel(ctx, companyID, p.ID.String())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, payroll.StatusCancelled, resp.Status)
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()

	t.Run("releases advance deduction", func(t *testing.T) {
		deps := setupService(t)
		p := &payroll.Payroll{ID: uuid.New(), CompanyID: uuid.MustParse(companyID), Status: payroll.StatusCalculated}
		advanceID := uuid.New()
		advance := &salaryadvance.SalaryAdvance{
			ID:              advanceID,
			AdvanceAmount:   dec("800"),
			RemainingAmount: dec("400"),
			Status:          salaryadvance.StatusDisbursed,
		}

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().FindByIDForUpdate(ctx, companyID, p.ID.String()).Return(p, nil)
		deps.repo.EXPECT().FindItems(ctx, companyID, p.ID.String()).Return([]payroll.PayrollItem{
			{Source: payroll.SourceAdvance, SourceID: &advanceID, Amount: dec("400")},
		}, nil)
		deps.loans.EXPECT().FindInstallmentsByPayroll(ctx, companyID, p.ID.String()).Return([]loan.LoanInstallment{}, nil)
		deps.advances.EXPECT().FindByIDForUpdate(ctx, companyID, advanceID.String()).Return(advance, nil)
		deps.advances.EXPECT().Update(ctx, advance).Return(nil)
		deps.repo.EXPECT().Delete(ctx, companyID, p.ID.String()).Return(nil)
		deps.sqlMock.ExpectCommit()

		err := deps.service.Delete(ctx, companyID, p.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, "800", advance.RemainingAmount.String())
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approved payroll is kept", func(t *testing.T) {
		deps := setupService(t)
		p := &payroll.Payroll{ID: uuid.New(), Status: payroll.StatusApproved}

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().FindByIDForUpdate(ctx, companyID, p.ID.String()).Return(p, nil)
		deps.sqlMock.ExpectRollback()

		err := deps.service.Delete(ctx, companyID, p.ID.String())

		assert.ErrorIs(t, err, payrollerrors.ErrInvalidStatusTransition)
	})
}

func TestService_Payslip(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	actorID := uuid.NewString()

	t.Run("request queues generation", func(t *testing.T) {
		deps := setupService(t)
		p := &payroll.Payroll{ID: uuid.New(), CompanyID: uuid.MustParse(companyID), Status: payroll.StatusApproved}
		slip := &payroll.Payslip{ID: uuid.New(), PayrollID: p.ID}

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, p.ID.String()).Return(p, nil)
		deps.repo.EXPECT().FindPayslip(ctx, companyID, p.ID.String()).Return(slip, nil)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.PayrollPayslipRequestedTopic, e.Topic)
			assert.Contains(t, string(e.Payload), actorID)
			return nil
		})
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.RequestPayslip(ctx, companyID, actorID, p.ID.String())

		assert.NoError(t, err)
		assert.False(t, resp.Generated)
		assert.Equal(t, slip.ID.String(), resp.ID)
	})

	t.Run("draft payroll has no payslip", func(t *testing.T) {
		deps := setupService(t)
		p := &payroll.Payroll{ID: uuid.New(), Status: payroll.StatusDraft}

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, p.ID.String()).Return(p, nil)
		deps.sqlMock.ExpectRollback()

		_, err := deps.service.RequestPayslip(ctx, companyID, actorID, p.ID.String())

		assert.ErrorIs(t, err, payrollerrors.ErrPayslipNotAvailable)
	})

	t.Run("generate creates missing stub", func(t *testing.T) {
		deps := setupService(t)
		p := &payroll.Payroll{ID: uuid.New(), CompanyID: uuid.MustParse(companyID), Status: payroll.StatusPaid}

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, p.ID.String()).Return(p, nil)
		deps.repo.EXPECT().FindPayslip(ctx, companyID, p.ID.String()).Return(nil, gorm.ErrRecordNotFound)
		deps.repo.EXPECT().CreatePayslip(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().UpdatePayslip(ctx, gomock.Any()).Return(nil)
		deps.sqlMock.ExpectCommit()

		resp, err := deps.service.GeneratePayslip(ctx, companyID, actorID, p.ID.String())

		assert.NoError(t, err)
		assert.True(t, resp.Generated)
		assert.Equal(t, actorID, *resp.GeneratedBy)
	})

	t.Run("generate twice keeps first result", func(t *testing.T) {
		deps := setupService(t)
		p := &payroll.Payroll{ID: uuid.New(), CompanyID: uuid.MustParse(companyID), Status: payroll.StatusPaid}
		generatedAt := time.Date(2026, 10, 31, 9, 0, 0, 0, time.UTC)
		slip := &payroll.Payslip{ID: uuid.New(), PayrollID: p.ID, GeneratedAt: &generatedAt}

		deps.sqlMock.ExpectBegin()
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, p.ID.String()).Return(p, nil)
		deps.repo.EXPECT().FindPayslip(ctx, companyID, p.ID.String()).Return(slip, nil)
		deps.sqlMock.ExpectRollback()

		resp, err := deps.service.GeneratePayslip(ctx, companyID, actorID, p.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, "2026-10-31T09:00:00Z", *resp.GeneratedAt)
	})
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.NewString()
	deps := setupService(t)
	departmentID := uuid.NewString()

	deps.repo.EXPECT().MonthlyPaidTotals(ctx, companyID, 2026).Return([]payroll.MonthlyTotal{
		{Month: 9, Amount: dec("120000"), Count: 4},
		{Month: 10, Amount: dec("125500.5"), Count: 4},
	}, nil)
	deps.repo.EXPECT().DepartmentPaidTotals(ctx, companyID, 2026).Return([]payroll.DepartmentTotal{
		{DepartmentID: &departmentID, Amount: dec("245500.5"), Count: 8},
	}, nil)
	deps.repo.EXPECT().TotalPaid(ctx, companyID).Return(dec("245500.5"), nil)
	deps.repo.EXPECT().CountPending(ctx, companyID).Return(int64(3), nil)

	resp, err := deps.service.Summary(ctx, companyID, payroll.SummaryQuery{Year: 2026})

	assert.NoError(t, err)
	assert.Equal(t, 2026, resp.Year)
	assert.Len(t, resp.MonthlySummary, 12)
	assert.Equal(t, "Jan", resp.MonthlySummary[0].Month)
	assert.True(t, resp.MonthlySummary[0].Amount.IsZero())
	assert.Equal(t, "Oct", resp.MonthlySummary[9].Month)
	assert.Equal(t, "125500.5", resp.MonthlySummary[9].Amount.String())
	assert.Equal(t, int64(4), resp.MonthlySummary[8].Count)
	assert.Len(t, resp.DepartmentSummary, 1)
	assert.Equal(t, int64(3), resp.PendingPayrolls)
}
