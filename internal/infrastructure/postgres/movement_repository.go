package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, item_id, item_code, direction, quantity, unit_value, date, supplier_id, requester, responsible, created_by, created_at`

// MovementRepo histórico de movimientos (append-only).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append registra un movimiento.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	query := `INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ItemID, m.ItemCode, string(m.Direction), m.Quantity, m.UnitValue, m.Date,
		m.SupplierID, m.Requester, m.Responsible, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento; (nil, nil) si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List filtra el histórico; más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.ItemID != "" {
		add("item_id = $%d", f.ItemID)
	}
	if f.Direction != "" {
		add("direction = $%d", string(f.Direction))
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date <= $%d", *f.To)
	}
	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m   entity.Movement
		dir string
	)
	err := row.Scan(&m.ID, &m.ItemID, &m.ItemCode, &dir, &m.Quantity, &m.UnitValue, &m.Date,
		&m.SupplierID, &m.Requester, &m.Responsible, &m.CreatedBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Direction = entity.MovementDirection(dir)
	return &m, nil
}
