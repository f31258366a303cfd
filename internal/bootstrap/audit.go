package bootstrap

import "context"

// AuditLog is one operational audit entry, distinct from diagnostic logging:
// these records are for the people who answer "who ran payroll and when".
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
