package repository

import (
	"context"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

// SnapshotStore exporta y reemplaza de forma atómica ítems, movimientos y usuarios.
type SnapshotStore interface {
	Snapshot(ctx context.Context) (*entity.Snapshot, error)
	// Replace sustituye todo el estado; si falla, el estado anterior queda intacto.
	Replace(ctx context.Context, snapshot *entity.Snapshot) error
}
