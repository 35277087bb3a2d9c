package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SetCountedRequest body para PUT /api/counts/:id/items/:itemId. Value se guarda tal cual.
type SetCountedRequest struct {
	Value string `json:"value"`
}

// CountSessionResponse estado de una sesión de contagem.
type CountSessionResponse struct {
	ID        string            `json:"id"`
	State     string            `json:"state"`
	StartedBy string            `json:"started_by"`
	StartedAt time.Time         `json:"started_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Counted   map[string]string `json:"counted"`
}

// DivergenceResponse un ítem a ajustar.
type DivergenceResponse struct {
	ItemID          string          `json:"item_id"`
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	SystemQuantity  decimal.Decimal `json:"system_quantity"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Difference      decimal.Decimal `json:"difference"`
	UnitValue       decimal.Decimal `json:"unit_value"`
	Impact          decimal.Decimal `json:"impact"`
}

// CountSummaryResponse resumen de la sesión (progreso sobre el conjunto filtrado).
type CountSummaryResponse struct {
	CountedItems         int                  `json:"counted_items"`
	TotalItems           int                  `json:"total_items"`
	Progress             float64              `json:"progress"`
	DivergenceCount      int                  `json:"divergence_count"`
	TotalAdjustmentValue decimal.Decimal      `json:"total_adjustment_value"`
	Divergences          []DivergenceResponse `json:"divergences"`
}

// CommitCountResponse resultado de confirmar el inventario.
type CommitCountResponse struct {
	Session     CountSessionResponse `json:"session"`
	Adjusted    []ItemResponse       `json:"adjusted"`
	TotalImpact decimal.Decimal      `json:"total_impact"`
}
