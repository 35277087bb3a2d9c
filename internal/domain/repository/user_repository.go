package repository

import (
	"context"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

// UserRepository puerto de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByUsername compara sin distinguir mayúsculas.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.User, error)
}
