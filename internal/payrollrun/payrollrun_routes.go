package payrollrun

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	runs := r.Group("/payroll-runs")
	runs.Use(middleware.AuthMiddleware())
	{
		runs.GET("", middleware.RBACAuthorize(rbacService, "payroll_run", "read"), handler.GetAll)
		runs.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll_run", "read"), handler.GetByID)
		runs.POST("",
			middleware.RBACAuthorize(rbacService, "payroll_run", "create"),
			middleware.RateLimitByUser(0.2, 2),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		runs.POST("/:id/process",
			middleware.RBACAuthorize(rbacService, "payroll_run", "process"),
			middleware.RateLimitByUser(0.2, 2),
			handler.Process,
		)
	}
}
