package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records process level events such as shutdown.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
