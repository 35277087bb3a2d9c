package inventory

import (
	"context"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: ledger y histórico se escriben juntos o no se escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// Locker exclusión mutua por clave (un ítem = una clave). Acquire toma todas las claves
// y devuelve la función que las libera.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

// AuditRecorder destino de los registros de auditoría. Los fallos no deben propagarse al caller.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, description string)
}

// LowStockNotifier recibe los ítems que quedaron en o por debajo del mínimo tras una salida.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, item entity.Item) error
}

// ItemLockKey clave de lock de un ítem.
func ItemLockKey(itemID string) string {
	return "item:" + itemID
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, string, string, string) {}
