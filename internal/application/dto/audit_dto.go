package dto

import "time"

// AuditQuery filtros de GET /api/audit. Fechas YYYY-MM-DD.
type AuditQuery struct {
	PageRequest
	Actor  string `query:"actor"`
	Action string `query:"action"`
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// AuditEntryResponse un registro de auditoría.
type AuditEntryResponse struct {
	ID          string    `json:"id"`
	At          time.Time `json:"at"`
	Actor       string    `json:"actor"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
}

// AuditListResponse página del log de auditoría.
type AuditListResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
	Page    PageResponse         `json:"page"`
}
