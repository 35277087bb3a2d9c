package usecase

import "context"

// AuditRecorder destino de la auditoría de los casos de uso de catálogo.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, description string)
}

// Actor usuario autenticado que ejecuta la operación.
type Actor struct {
	ID       string
	Username string
}
