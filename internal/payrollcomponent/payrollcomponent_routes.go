package payrollcomponent

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	components := r.Group("/payroll-components")
	components.Use(middleware.AuthMiddleware())
	{
		components.GET("", middleware.RBACAuthorize(rbacService, "payroll_component", "read"), handler.GetAll)
		components.GET("/options", middleware.RBACAuthorize(rbacService, "payroll_component", "read"), handler.Options)
		components.GET("/:id", middleware.RBACAuthorize(rbacService, "payroll_component", "read"), handler.GetByID)
		components.POST("",
			middleware.RBACAuthorize(rbacService, "payroll_component", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		components.PUT("/:id", middleware.RBACAuthorize(rbacService, "payroll_component", "update"), handler.Update)
	}
}
