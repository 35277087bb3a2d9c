package repository

import (
	"context"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// Los métodos Get* devuelven (nil, nil) cuando el ítem no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetByCode busca por código exacto.
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	// GetByNormalizedCode busca ignorando mayúsculas y espacios (ver inventory.NormalizeCode).
	GetByNormalizedCode(ctx context.Context, code string) (*entity.Item, error)
	// GetForUpdate bloquea el ítem hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error
	// List devuelve todos los ítems ordenados por código.
	List(ctx context.Context) ([]*entity.Item, error)
}
