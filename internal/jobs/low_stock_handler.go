package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

// AuditRecorder destino de la alerta procesada. Puede ser nil.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, description string)
}

// SystemActor autor de las entradas de auditoría generadas por el worker.
const SystemActor = "sistema"

// LowStockHandler procesa TaskLowStock: loguea la alerta y la deja en la auditoría.
type LowStockHandler struct {
	audit AuditRecorder
}

// NewLowStockHandler construye el handler.
func NewLowStockHandler(audit AuditRecorder) *LowStockHandler {
	return &LowStockHandler{audit: audit}
}

// Handle implementa asynq.HandlerFunc. Un payload inválido no se reintenta.
func (h *LowStockHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var p LowStockPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("payload %s inválido: %v: %w", TaskLowStock, err, asynq.SkipRetry)
	}
	if p.ItemID == "" || p.Code == "" {
		return fmt.Errorf("payload %s sin ítem: %w", TaskLowStock, asynq.SkipRetry)
	}
	logLowStock(p)
	if h.audit != nil {
		h.audit.Record(ctx, SystemActor, entity.AuditLowStock,
			fmt.Sprintf("Estoque baixo: %s com %s (mínimo %s)", p.Code, p.Quantity, p.MinQuantity))
	}
	return nil
}
