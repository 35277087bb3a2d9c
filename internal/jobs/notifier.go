package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"github.com/alumasa/almoxarifado-api/internal/application/inventory"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

var (
	_ inventory.LowStockNotifier = (*AsynqNotifier)(nil)
	_ inventory.LowStockNotifier = LogNotifier{}
)

// Enqueuer lo que AsynqNotifier usa de *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqNotifier encola la alerta de estoque bajo para el worker.
type AsynqNotifier struct {
	client Enqueuer
}

// NewAsynqNotifier construye el notifier sobre un cliente asynq.
func NewAsynqNotifier(client Enqueuer) *AsynqNotifier {
	return &AsynqNotifier{client: client}
}

// NotifyLowStock encola TaskLowStock.
func (n *AsynqNotifier) NotifyLowStock(ctx context.Context, item entity.Item) error {
	task, err := NewLowStockTask(PayloadFromItem(item))
	if err != nil {
		return fmt.Errorf("jobs: armar tarea: %w", err)
	}
	info, err := n.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("jobs: encolar %s: %w", TaskLowStock, err)
	}
	log.Debug().Str("task_id", info.ID).Str("code", item.Code).Msg("alerta de estoque baixo encolada")
	return nil
}

// LogNotifier solo loguea; se usa cuando no hay Redis.
type LogNotifier struct{}

// NotifyLowStock registra un warning con los datos del ítem.
func (LogNotifier) NotifyLowStock(_ context.Context, item entity.Item) error {
	logLowStock(PayloadFromItem(item))
	return nil
}

func logLowStock(p LowStockPayload) {
	log.Warn().
		Str("item_id", p.ItemID).
		Str("code", p.Code).
		Str("quantity", p.Quantity).
		Str("min_quantity", p.MinQuantity).
		Msg("estoque baixo")
}
