// Package jobs encola y procesa tareas en segundo plano con asynq.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

const (
	// QueueDefault cola por defecto de las tareas del almoxarifado.
	QueueDefault = "default"
	// TaskLowStock alerta de ítem en o por debajo del estoque mínimo.
	TaskLowStock = "inventory:low_stock"
)

// LowStockPayload datos de la alerta. Cantidades como texto decimal para no perder precisión.
type LowStockPayload struct {
	ItemID      string `json:"item_id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	MinQuantity string `json:"min_quantity"`
}

// PayloadFromItem arma el payload desde el ítem ya actualizado.
func PayloadFromItem(item entity.Item) LowStockPayload {
	return LowStockPayload{
		ItemID:      item.ID,
		Code:        item.Code,
		Description: item.Description,
		Quantity:    item.Quantity.String(),
		MinQuantity: item.MinQuantity.String(),
	}
}

// NewLowStockTask construye la tarea asynq.
func NewLowStockTask(p LowStockPayload) (*asynq.Task, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStock, body, asynq.Queue(QueueDefault), asynq.MaxRetry(5)), nil
}
