package loan

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	loans := r.Group("/loans")
	loans.Use(middleware.AuthMiddleware())
	{
		loans.GET("", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetAll)
		loans.GET("/:id", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetByID)
		loans.GET("/:id/installments", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetInstallments)
		loans.POST("",
			middleware.RBACAuthorize(rbacService, "loan", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		loans.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "loan", "approve"), handler.Approve)
		loans.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "loan", "approve"), handler.Reject)
		loans.POST("/:id/disburse", middleware.RBACAuthorize(rbacService, "loan", "disburse"), handler.Disburse)
	}
}
