package payrollperiod

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	periods := r.Group("/payroll-periods")
	periods.Use(middleware.AuthMiddleware())
	{
		periods.GET("", middleware.RBACAuthorize(rbacService, "payroll_period", "read"), handler.GetAll)
		periods.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll_period", "read"), handler.GetByID)
		periods.POST("",
			middleware.RBACAuthorize(rbacService, "payroll_period", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		periods.POST("/:id/lock", middleware.RBACAuthorize(rbacService, "payroll_period", "lock"), handler.Lock)
	}
}
