package entity

import "time"

// Acciones registradas en la auditoría.
const (
	AuditItemCreated     = "item.created"
	AuditItemUpdated     = "item.updated"
	AuditItemDeleted     = "item.deleted"
	AuditEntryRecorded   = "movement.entry"
	AuditExitRecorded    = "movement.exit"
	AuditCountCommitted  = "count.committed"
	AuditCountCancelled  = "count.cancelled"
	AuditLowStock        = "stock.low"
	AuditUserCreated     = "user.created"
	AuditUserUpdated     = "user.updated"
	AuditUserDeleted     = "user.deleted"
	AuditPasswordChanged = "user.password_changed"
	AuditLogin           = "auth.login"
	AuditLogout          = "auth.logout"
	AuditSupplierCreated = "supplier.created"
	AuditSupplierUpdated = "supplier.updated"
	AuditSupplierDeleted = "supplier.deleted"
	AuditBackupRestored  = "backup.restored"
)

// AuditEntry registro append-only de una acción realizada por un usuario.
type AuditEntry struct {
	ID          string
	At          time.Time
	Actor       string // username
	Action      string
	Description string // texto legible
}
