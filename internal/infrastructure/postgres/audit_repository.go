package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo log de auditoría append-only.
type AuditRepo struct {
	pool *pgxpool.Pool
}

// NewAuditRepository construye el adaptador.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

// Append inserta una entrada.
func (r *AuditRepo) Append(ctx context.Context, e *entity.AuditEntry) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO audit_log (id, at, actor, action, description) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.At, e.Actor, e.Action, e.Description)
	if err != nil {
		return fmt.Errorf("insert audit: %w", err)
	}
	return nil
}

// List devuelve la página pedida (más recientes primero) y el total filtrado. limit <= 0 no limita.
func (r *AuditRepo) List(ctx context.Context, f repository.AuditFilter, limit, offset int) ([]*entity.AuditEntry, int, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Actor != "" {
		add("actor = $%d", f.Actor)
	}
	if f.Action != "" {
		add("action = $%d", f.Action)
	}
	if f.From != nil {
		add("at >= $%d", *f.From)
	}
	if f.To != nil {
		add("at <= $%d", *f.To)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM audit_log`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit: %w", err)
	}

	query := `SELECT id, at, actor, action, description FROM audit_log` + cond + ` ORDER BY at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", offset)
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.AuditEntry, 0)
	for rows.Next() {
		var e entity.AuditEntry
		if err := rows.Scan(&e.ID, &e.At, &e.Actor, &e.Action, &e.Description); err != nil {
			return nil, 0, fmt.Errorf("scan audit: %w", err)
		}
		list = append(list, &e)
	}
	return list, total, rows.Err()
}
