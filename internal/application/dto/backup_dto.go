package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotVersion versión del formato de backup.
const SnapshotVersion = 1

// SnapshotDTO formato JSON del backup. Los tres arreglos son obligatorios al restaurar.
type SnapshotDTO struct {
	Version    int                    `json:"version"`
	ExportedAt time.Time              `json:"exported_at"`
	Items      *[]SnapshotItemDTO     `json:"items"`
	Movements  *[]SnapshotMovementDTO `json:"movements"`
	Users      *[]SnapshotUserDTO     `json:"users"`
}

// SnapshotItemDTO ítem tal como se guarda en el backup.
type SnapshotItemDTO struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Location    string          `json:"location"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	UnitValue   decimal.Decimal `json:"unit_value"`
	TotalValue  decimal.Decimal `json:"total_value"` // informativo; al restaurar se recalcula
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SnapshotMovementDTO movimiento tal como se guarda en el backup.
type SnapshotMovementDTO struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	ItemCode    string          `json:"item_code"`
	Direction   string          `json:"direction"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitValue   decimal.Decimal `json:"unit_value"`
	Date        string          `json:"date"` // YYYY-MM-DD
	SupplierID  string          `json:"supplier_id,omitempty"`
	Requester   string          `json:"requester,omitempty"`
	Responsible string          `json:"responsible,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SnapshotUserDTO usuario tal como se guarda en el backup (con hash, nunca password plano).
type SnapshotUserDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RestoreResponse conteos restaurados.
type RestoreResponse struct {
	Items     int `json:"items"`
	Movements int `json:"movements"`
	Users     int `json:"users"`
}
