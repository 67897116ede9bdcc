package rbac

import "go-payroll/internal/domain"

type EnforceRequest = domain.EnforceRequest

type EnforceResponse = domain.EnforceResponse

// CheckPermissionRequest asks about the calling employee; identity comes
// from the token, never from the body.
type CheckPermissionRequest struct {
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}
