package dto

import "github.com/shopspring/decimal"

// LowStockItemResponse ítem en o por debajo del mínimo, con sugerencia de reposición.
type LowStockItemResponse struct {
	ItemResponse
	Deficit           decimal.Decimal `json:"deficit"`             // MinQuantity - Quantity (0 si está justo en el mínimo)
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"` // MinQuantity × 1.5 - Quantity
	EstimatedCost     decimal.Decimal `json:"estimated_cost"`      // SuggestedOrderQty × UnitValue
	Priority          int             `json:"priority"`            // 1 = más urgente
}

// MovementReportResponse movimientos de un período con totales.
type MovementReportResponse struct {
	From               string             `json:"from,omitempty"`
	To                 string             `json:"to,omitempty"`
	Movements          []MovementResponse `json:"movements"`
	EntryCount         int                `json:"entry_count"`
	ExitCount          int                `json:"exit_count"`
	TotalEntryQuantity decimal.Decimal    `json:"total_entry_quantity"`
	TotalEntryValue    decimal.Decimal    `json:"total_entry_value"`
	TotalExitQuantity  decimal.Decimal    `json:"total_exit_quantity"`
	TotalExitValue     decimal.Decimal    `json:"total_exit_value"`
}

// ValuationGroup valor de estoque agrupado (por localización o categoría).
type ValuationGroup struct {
	Key        string          `json:"key"`
	ItemCount  int             `json:"item_count"`
	TotalValue decimal.Decimal `json:"total_value"`
	Share      decimal.Decimal `json:"share"` // % del total general
}

// ValuationResponse valor del estoque por localización y por categoría.
type ValuationResponse struct {
	ByLocation []ValuationGroup `json:"by_location"`
	ByCategory []ValuationGroup `json:"by_category"`
	GrandTotal decimal.Decimal  `json:"grand_total"`
}

// DashboardSummaryDTO respuesta de GET /api/reports/dashboard.
type DashboardSummaryDTO struct {
	ItemCount     int             `json:"item_count"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LowStockCount int             `json:"low_stock_count"`

	// Movimientos del día actual (zona horaria de la aplicación)
	EntriesToday int `json:"entries_today"`
	ExitsToday   int `json:"exits_today"`

	LowStock  []LowStockItemResponse `json:"low_stock"` // top 5 por prioridad
	DateLabel string                 `json:"date_label"`
}
