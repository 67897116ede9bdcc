package app

import (
	"go-payroll/internal/attendance"
	"go-payroll/internal/config"
	"go-payroll/internal/docnumber"
	"go-payroll/internal/employee"
	"go-payroll/internal/loan"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payrollcomponent"
	"go-payroll/internal/payrollperiod"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/salaryadvance"
	"go-payroll/internal/salarystructure"
	"go-payroll/internal/shared/counter"

	"github.com/bsm/redislock"
	"go.uber.org/zap"
)

// registry wires repositories into services. Every process builds the same
// graph and uses the part it needs.
type registry struct {
	outbox kafka.OutboxRepository
	locker *redislock.Client

	attendance       attendance.Service
	docnumber        docnumber.Service
	loan             loan.Service
	payroll          payroll.Service
	payrollComponent payrollcomponent.Service
	payrollPeriod    payrollperiod.Service
	payrollRun       payrollrun.Service
	salaryAdvance    salaryadvance.Service
	salaryStructure  salarystructure.Service
}

func newRegistry(cfg config.Config, in *infra, logger *zap.Logger) *registry {
	db := in.sqlDB

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(in.gormDB)
	componentRepo := payrollcomponent.NewRepository(in.gormDB)
	counterRepo := counter.NewRepository(in.gormDB)
	employeeRepo := employee.NewRepository(in.gormDB)
	loanRepo := loan.NewRepository(in.gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(in.gormDB)
	periodRepo := payrollperiod.NewRepository(in.gormDB)
	runRepo := payrollrun.NewRepository(in.gormDB)
	advanceRepo := salaryadvance.NewRepository(in.gormDB)
	structureRepo := salarystructure.NewRepository(in.gormDB)

	numbers := docnumber.NewGenerator(counterRepo)
	locker := redislock.New(in.rdb)

	generator := payroll.NewGenerator(payrollRepo, payroll.Sources{
		Structures: structureRepo,
		Attendance: attendanceRepo,
		Numbers:    numbers,
		Deductions: payroll.NewDeductionResolver(loanRepo, advanceRepo),
	})

	// --- Services ---
	return &registry{
		outbox: outboxRepo,
		locker: locker,

		attendance:       attendance.NewService(attendanceRepo, logger),
		docnumber:        docnumber.NewService(db, numbers, logger),
		loan:             loan.NewService(db, loanRepo, employeeRepo, numbers, logger),
		payroll:          payroll.NewService(db, payrollRepo, periodRepo, employeeRepo, generator, outboxRepo, logger),
		payrollComponent: payrollcomponent.NewService(db, componentRepo, in.rdb, logger),
		payrollPeriod:    payrollperiod.NewService(db, periodRepo, logger),
		payrollRun: payrollrun.NewService(
			db, runRepo, periodRepo, employeeRepo, generator, numbers, outboxRepo,
			payrollrun.NewRedisLocker(locker), cfg.RunLockTTL, logger,
		),
		salaryAdvance:   salaryadvance.NewService(db, advanceRepo, employeeRepo, numbers, logger),
		salaryStructure: salarystructure.NewService(db, structureRepo, employeeRepo, componentRepo, logger),
	}
}
