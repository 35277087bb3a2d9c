package repository

import (
	"context"
	"time"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

// MovementFilter filtros para consultar el histórico. Campos vacíos/nil no filtran.
// From y To son inclusivos y se comparan contra Movement.Date.
type MovementFilter struct {
	ItemID    string
	Direction entity.MovementDirection
	From      *time.Time
	To        *time.Time
}

// MovementRepository puerto del histórico de movimientos (append-only).
type MovementRepository interface {
	Append(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// List devuelve los movimientos ordenados por fecha y creación (más recientes primero).
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
