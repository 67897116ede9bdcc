package salarystructure

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	structures := r.Group("/salary-structures")
	structures.Use(middleware.AuthMiddleware())
	{
		structures.GET("", middleware.RBACAuthorize(rbacService, "salary_structure", "read"), handler.GetAll)
		structures.GET("/:id", middleware.RBACAuthorize(rbacService, "salary_structure", "read"), handler.GetByID)
		structures.POST("",
			middleware.RBACAuthorize(rbacService, "salary_structure", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		structures.PUT("/:id", middleware.RBACAuthorize(rbacService, "salary_structure", "update"), handler.Update)
		structures.DELETE("/:id", middleware.RBACAuthorize(rbacService, "salary_structure", "delete"), handler.Delete)
	}

	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("/:employee_id/salary-structure",
			middleware.RBACAuthorize(rbacService, "salary_structure", "read"),
			handler.GetEmployeeStructure,
		)
	}
}
