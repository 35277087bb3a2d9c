package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/inventory"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

var _ repository.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore exporta y restaura ítems, movimientos y usuarios.
// Fornecedores y auditoría no se tocan.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

// NewSnapshotStore construye el adaptador de backup.
func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Snapshot lee todo dentro de una transacción REPEATABLE READ para obtener una vista consistente.
func (s *SnapshotStore) Snapshot(ctx context.Context) (*entity.Snapshot, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	snap := &entity.Snapshot{}
	if snap.Items, err = NewItemRepository(tx).List(ctx); err != nil {
		return nil, err
	}
	if snap.Movements, err = NewMovementRepository(tx).List(ctx, repository.MovementFilter{}); err != nil {
		return nil, err
	}
	if snap.Users, err = queryUsers(ctx, tx); err != nil {
		return nil, err
	}
	return snap, nil
}

// Replace vacía las tablas y copia el snapshot con COPY, todo en una transacción.
func (s *SnapshotStore) Replace(ctx context.Context, snap *entity.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin restore: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `TRUNCATE items, movements, users`); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"items"},
		[]string{"id", "code", "code_norm", "description", "category", "location", "unit",
			"quantity", "min_quantity", "unit_value", "created_at", "updated_at"},
		pgx.CopyFromSlice(len(snap.Items), func(i int) ([]any, error) {
			it := snap.Items[i]
			return []any{it.ID, it.Code, inventory.NormalizeCode(it.Code), it.Description, it.Category,
				it.Location, it.Unit, it.Quantity, it.MinQuantity, it.UnitValue, it.CreatedAt, it.UpdatedAt}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy items: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"movements"},
		[]string{"id", "item_id", "item_code", "direction", "quantity", "unit_value", "date",
			"supplier_id", "requester", "responsible", "created_by", "created_at"},
		pgx.CopyFromSlice(len(snap.Movements), func(i int) ([]any, error) {
			m := snap.Movements[i]
			return []any{m.ID, m.ItemID, m.ItemCode, string(m.Direction), m.Quantity, m.UnitValue, m.Date,
				m.SupplierID, m.Requester, m.Responsible, m.CreatedBy, m.CreatedAt}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy movements: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"users"},
		[]string{"id", "name", "username", "password_hash", "role", "active", "created_at", "updated_at"},
		pgx.CopyFromSlice(len(snap.Users), func(i int) ([]any, error) {
			u := snap.Users[i]
			return []any{u.ID, u.Name, u.Username, u.PasswordHash, u.Role, u.Active, u.CreatedAt, u.UpdatedAt}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy users: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit restore: %w", err)
	}
	return nil
}
