package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

// EnsureAdmin crea el usuario administrador inicial cuando la tabla users está vacía.
// Devuelve true si lo creó.
func EnsureAdmin(ctx context.Context, pool *pgxpool.Pool, username, passwordHash string) (bool, error) {
	var n int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	now := time.Now()
	err := NewUserRepository(pool).Create(ctx, &entity.User{
		ID:           uuid.NewString(),
		Name:         "Administrador",
		Username:     username,
		PasswordHash: passwordHash,
		Role:         entity.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
