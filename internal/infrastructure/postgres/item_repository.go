package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/inventory"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, code, description, category, location, unit, quantity, min_quantity, unit_value, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
// La unicidad del código se apoya en la columna code_norm, calculada con inventory.NormalizeCode.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un ítem nuevo.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, code, code_norm, description, category, location, unit, quantity, min_quantity, unit_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Code, inventory.NormalizeCode(item.Code), item.Description, item.Category, item.Location,
		item.Unit, item.Quantity, item.MinQuantity, item.UnitValue, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			if constraintName(err) == "items_code_norm_key" {
				return domain.ErrDuplicateCode
			}
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetByCode busca por código exacto.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE code = $1`, code)
}

// GetByNormalizedCode busca ignorando mayúsculas y espacios.
func (r *ItemRepo) GetByNormalizedCode(ctx context.Context, code string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE code_norm = $1`, inventory.NormalizeCode(code))
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// Update reemplaza los campos editables y la cantidad. El código es inmutable.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET description = $2, category = $3, location = $4, unit = $5,
			quantity = $6, min_quantity = $7, unit_value = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		item.ID, item.Description, item.Category, item.Location, item.Unit,
		item.Quantity, item.MinQuantity, item.UnitValue, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el ítem; los movimientos quedan en el histórico.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve todos los ítems ordenados por código.
func (r *ItemRepo) List(ctx context.Context) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *ItemRepo) getOne(ctx context.Context, query string, arg any) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.Code, &it.Description, &it.Category, &it.Location, &it.Unit,
		&it.Quantity, &it.MinQuantity, &it.UnitValue, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
