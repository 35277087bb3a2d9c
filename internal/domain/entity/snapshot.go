package entity

import "time"

// Snapshot es el estado completo exportado/restaurado por el backup.
type Snapshot struct {
	ExportedAt time.Time
	Items      []*Item
	Movements  []*Movement
	Users      []*User
}
