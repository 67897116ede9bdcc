package docnumber

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	numbers := r.Group("/document-numbers")
	numbers.Use(middleware.AuthMiddleware())
	{
		numbers.POST("", middleware.RBACAuthorize(rbacService, "document_number", "create"), handler.Issue)
	}
}
