package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, name, document, contact, phone, email, created_at, updated_at`

// SupplierRepo fornecedores sobre PostgreSQL.
type SupplierRepo struct {
	pool *pgxpool.Pool
}

// NewSupplierRepository construye el adaptador.
func NewSupplierRepository(pool *pgxpool.Pool) *SupplierRepo {
	return &SupplierRepo{pool: pool}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO suppliers (`+supplierColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Name, s.Document, s.Contact, s.Phone, s.Email, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE suppliers SET name = $2, document = $3, contact = $4, phone = $5, email = $6, updated_at = $7
		WHERE id = $1`,
		s.ID, s.Name, s.Document, s.Contact, s.Phone, s.Email, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ordena por nombre.
func (r *SupplierRepo) List(ctx context.Context) ([]*entity.Supplier, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.Document, &s.Contact, &s.Phone, &s.Email, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
