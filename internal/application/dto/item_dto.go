package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Code        string           `json:"code" validate:"required,max=50"`
	Description string           `json:"description" validate:"required,max=300"`
	Category    string           `json:"category" validate:"required,max=100"`
	Location    string           `json:"location" validate:"required,max=100"`
	Unit        string           `json:"unit" validate:"required,max=20"`
	Quantity    *decimal.Decimal `json:"quantity" validate:"required"`
	MinQuantity *decimal.Decimal `json:"min_quantity,omitempty"`
	UnitValue   *decimal.Decimal `json:"unit_value,omitempty"`
}

// ToDraft convierte el request en borrador de dominio.
func (r CreateItemRequest) ToDraft() entity.ItemDraft {
	return entity.ItemDraft{
		Code:        r.Code,
		Description: r.Description,
		Category:    r.Category,
		Location:    r.Location,
		Unit:        r.Unit,
		Quantity:    r.Quantity,
		MinQuantity: r.MinQuantity,
		UnitValue:   r.UnitValue,
	}
}

// UpdateItemRequest body para PUT /api/items/:id. Solo se aplican los campos presentes.
type UpdateItemRequest struct {
	Description *string          `json:"description,omitempty" validate:"omitempty,max=300"`
	Category    *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	Location    *string          `json:"location,omitempty" validate:"omitempty,max=100"`
	Unit        *string          `json:"unit,omitempty" validate:"omitempty,max=20"`
	MinQuantity *decimal.Decimal `json:"min_quantity,omitempty"`
	UnitValue   *decimal.Decimal `json:"unit_value,omitempty"`
}

// ToPatch convierte el request en patch de dominio.
func (r UpdateItemRequest) ToPatch() entity.ItemPatch {
	return entity.ItemPatch{
		Description: r.Description,
		Category:    r.Category,
		Location:    r.Location,
		Unit:        r.Unit,
		MinQuantity: r.MinQuantity,
		UnitValue:   r.UnitValue,
	}
}

// ItemQuery filtros de GET /api/items y reportes de estoque.
type ItemQuery struct {
	PageRequest
	Search   string `query:"search"`
	Category string `query:"category"`
	Location string `query:"location"`
	LowStock bool   `query:"low_stock"`
}

// ItemResponse salida de un ítem con su valor total derivado.
type ItemResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Location    string          `json:"location"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	UnitValue   decimal.Decimal `json:"unit_value"`
	TotalValue  decimal.Decimal `json:"total_value"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListResponse página de ítems.
type ItemListResponse struct {
	Items      []ItemResponse  `json:"items"`
	Page       PageResponse    `json:"page"`
	TotalValue decimal.Decimal `json:"total_value"` // Σ valor total del conjunto filtrado (no solo de la página)
}

// ItemFromEntity mapea entity.Item → ItemResponse.
func ItemFromEntity(it *entity.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Code:        it.Code,
		Description: it.Description,
		Category:    it.Category,
		Location:    it.Location,
		Unit:        it.Unit,
		Quantity:    it.Quantity,
		MinQuantity: it.MinQuantity,
		UnitValue:   it.UnitValue,
		TotalValue:  it.TotalValue(),
		LowStock:    it.IsLowStock(),
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

// ItemsFromEntities mapea una lista.
func ItemsFromEntities(items []*entity.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ItemFromEntity(it))
	}
	return out
}
