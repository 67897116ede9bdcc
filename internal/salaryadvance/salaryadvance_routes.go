package salaryadvance

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	advances := r.Group("/salary-advances")
	advances.Use(middleware.AuthMiddleware())
	{
		advances.GET("", middleware.RBACAuthorize(rbacService, "salary_advance", "read"), handler.GetAll)
		advances.GET("/:id", middleware.RBACAuthorize(rbacService, "salary_advance", "read"), handler.GetByID)
		advances.POST("",
			middleware.RBACAuthorize(rbacService, "salary_advance", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		advances.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "salary_advance", "approve"), handler.Approve)
		advances.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "salary_advance", "approve"), handler.Reject)
		advances.POST("/:id/disburse", middleware.RBACAuthorize(rbacService, "salary_advance", "disburse"), handler.Disburse)
	}
}
