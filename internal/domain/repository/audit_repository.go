package repository

import (
	"context"
	"time"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

// AuditFilter filtros del log de auditoría.
type AuditFilter struct {
	Actor  string
	Action string
	From   *time.Time
	To     *time.Time
}

// AuditRepository puerto del log de auditoría (append-only).
type AuditRepository interface {
	Append(ctx context.Context, entry *entity.AuditEntry) error
	// List devuelve la página pedida (más recientes primero) y el total filtrado.
	List(ctx context.Context, filter AuditFilter, limit, offset int) ([]*entity.AuditEntry, int, error)
}
