package memory

import (
	"context"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo log de auditoría en memoria (append-only).
type AuditRepo struct {
	a access
}

func (r *AuditRepo) Append(_ context.Context, e *entity.AuditEntry) error {
	return r.a.write(func(st *state) error {
		c := *e
		st.audit = append(st.audit, &c)
		return nil
	})
}

// List recorre el log del más reciente al más antiguo.
func (r *AuditRepo) List(_ context.Context, f repository.AuditFilter, limit, offset int) ([]*entity.AuditEntry, int, error) {
	var (
		page  []*entity.AuditEntry
		total int
	)
	err := r.a.read(func(st *state) error {
		for i := len(st.audit) - 1; i >= 0; i-- {
			e := st.audit[i]
			if f.Actor != "" && e.Actor != f.Actor {
				continue
			}
			if f.Action != "" && e.Action != f.Action {
				continue
			}
			if f.From != nil && e.At.Before(*f.From) {
				continue
			}
			if f.To != nil && e.At.After(*f.To) {
				continue
			}
			if total >= offset && (limit <= 0 || len(page) < limit) {
				c := *e
				page = append(page, &c)
			}
			total++
		}
		return nil
	})
	return page, total, err
}
