package payroll

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetAll)
		payrolls.GET("/summary", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.Summary)
		payrolls.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetByID)
		payrolls.GET("/:id/items", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.GetItems)
		payrolls.POST("",
			middleware.RBACAuthorize(rbacService, "payroll", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		payrolls.POST("/:id/recalculate", middleware.RBACAuthorize(rbacService, "payroll", "create"), handler.Recalculate)
		payrolls.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "payroll", "approve"), handler.Approve)
		payrolls.POST("/:id/pay", middleware.RBACAuthorize(rbacService, "payroll", "pay"), handler.Pay)
		payrolls.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "payroll", "approve"), handler.Cancel)
		payrolls.POST("/:id/payslip", middleware.RBACAuthorize(rbacService, "payroll", "read"), handler.RequestPayslip)
		payrolls.DELETE("/:id", middleware.RBACAuthorize(rbacService, "payroll", "delete"), handler.Delete)
	}
}
