package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

// RecordEntryRequest body para POST /api/movements/entries.
type RecordEntryRequest struct {
	ItemCode   string           `json:"item_code" validate:"required"`
	Quantity   decimal.Decimal  `json:"quantity"`
	SupplierID string           `json:"supplier_id,omitempty"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"` // opcional; recalcula el valor medio
}

// RecordExitRequest body para POST /api/movements/exits.
type RecordExitRequest struct {
	ItemID      string          `json:"item_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Requester   string          `json:"requester" validate:"required,max=200"`
	Responsible string          `json:"responsible" validate:"required,max=200"`
}

// MovementQuery filtros de GET /api/movements y del reporte de movimientos. Fechas YYYY-MM-DD.
type MovementQuery struct {
	ItemID    string `query:"item_id"`
	Direction string `query:"direction" validate:"omitempty,oneof=entry exit"`
	From      string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// MovementResponse salida de un movimiento del histórico.
type MovementResponse struct {
	ID              string          `json:"id"`
	ItemID          string          `json:"item_id"`
	ItemCode        string          `json:"item_code"`
	ItemDescription string          `json:"item_description"`
	ItemDeleted     bool            `json:"item_deleted"`
	Direction       string          `json:"direction"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitValue       decimal.Decimal `json:"unit_value"`
	TotalValue      decimal.Decimal `json:"total_value"`
	Date            string          `json:"date"` // YYYY-MM-DD
	SupplierID      string          `json:"supplier_id,omitempty"`
	SupplierName    string          `json:"supplier_name,omitempty"`
	Requester       string          `json:"requester,omitempty"`
	Responsible     string          `json:"responsible,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// DeletedItemLabel descripción mostrada para movimientos de ítems eliminados.
const DeletedItemLabel = "item excluído"

// MovementFromEntity mapea entity.Movement → MovementResponse. item puede ser nil (ítem eliminado).
func MovementFromEntity(m *entity.Movement, item *entity.Item) MovementResponse {
	out := MovementResponse{
		ID:          m.ID,
		ItemID:      m.ItemID,
		ItemCode:    m.ItemCode,
		Direction:   string(m.Direction),
		Quantity:    m.Quantity,
		UnitValue:   m.UnitValue,
		TotalValue:  m.Value(),
		Date:        m.Date.Format("2006-01-02"),
		SupplierID:  m.SupplierID,
		Requester:   m.Requester,
		Responsible: m.Responsible,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
	if item != nil {
		out.ItemDescription = item.Description
	} else {
		out.ItemDescription = DeletedItemLabel
		out.ItemDeleted = true
	}
	return out
}
