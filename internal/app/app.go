package app

import (
	"go-payroll/internal/attendance"
	"go-payroll/internal/config"
	"go-payroll/internal/docnumber"
	"go-payroll/internal/loan"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payrollcomponent"
	"go-payroll/internal/payrollperiod"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/rbac"
	rbacinfra "go-payroll/internal/rbac/infra"
	"go-payroll/internal/salaryadvance"
	"go-payroll/internal/salarystructure"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// BuildApp connects the infrastructure and mounts every module on router.
// The returned cleanup closes the connections.
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L()

	in, err := connectInfra(cfg)
	if err != nil {
		return nil, err
	}

	reg := newRegistry(cfg, in, logger)

	enforcer, err := rbacinfra.NewEnforcer(cfg.RBACModelPath)
	if err != nil {
		in.Close()
		return nil, err
	}
	rbacService := rbac.NewService(rbac.NewRepository(in.gormDB), enforcer, logger)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AddAllowHeaders("Authorization", middleware.RequestIDHeader, middleware.IdempotencyHeader)
	corsConfig.AddExposeHeaders(middleware.RequestIDHeader)
	corsConfig.AllowCredentials = true

	router.Use(
		cors.New(corsConfig),
		middleware.RequestID(),
		middleware.RateLimitByIP(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		middleware.ContextLogger(logger),
	)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(reg.attendance)
	docnumberHandler := docnumber.NewHandler(reg.docnumber)
	loanHandler := loan.NewHandler(reg.loan, in.rdb)
	payrollHandler := payroll.NewHandler(reg.payroll, in.rdb)
	componentHandler := payrollcomponent.NewHandler(reg.payrollComponent, in.rdb)
	periodHandler := payrollperiod.NewHandler(reg.payrollPeriod, in.rdb)
	runHandler := payrollrun.NewHandler(reg.payrollRun, in.rdb)
	advanceHandler := salaryadvance.NewHandler(reg.salaryAdvance, in.rdb)
	structureHandler := salarystructure.NewHandler(reg.salaryStructure, in.rdb)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		docnumber.RegisterRoutes(api, docnumberHandler, rbacService)
		loan.RegisterRoutes(api, loanHandler, rbacService, in.rdb)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, in.rdb)
		payrollcomponent.RegisterRoutes(api, componentHandler, rbacService, in.rdb)
		payrollperiod.RegisterRoutes(api, periodHandler, rbacService, in.rdb)
		payrollrun.RegisterRoutes(api, runHandler, rbacService, in.rdb)
		salaryadvance.RegisterRoutes(api, advanceHandler, rbacService, in.rdb)
		salarystructure.RegisterRoutes(api, structureHandler, rbacService, in.rdb)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return in.Close, nil
}
