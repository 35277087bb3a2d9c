package memory

import (
	"context"
	"sort"

	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo histórico de movimientos en memoria (append-only).
type MovementRepo struct {
	a access
}

// Append agrega un movimiento al final del histórico.
func (r *MovementRepo) Append(_ context.Context, m *entity.Movement) error {
	return r.a.write(func(st *state) error {
		for _, existing := range st.movements {
			if existing.ID == m.ID {
				return domain.ErrDuplicate
			}
		}
		st.movements = append(st.movements, m.Clone())
		return nil
	})
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.a.read(func(st *state) error {
		for _, m := range st.movements {
			if m.ID == id {
				out = m.Clone()
				break
			}
		}
		return nil
	})
	return out, err
}

// List filtra el histórico; más recientes primero.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.a.read(func(st *state) error {
		out = make([]*entity.Movement, 0, len(st.movements))
		for _, m := range st.movements {
			if f.ItemID != "" && m.ItemID != f.ItemID {
				continue
			}
			if f.Direction != "" && m.Direction != f.Direction {
				continue
			}
			if f.From != nil && m.Date.Before(*f.From) {
				continue
			}
			if f.To != nil && m.Date.After(*f.To) {
				continue
			}
			out = append(out, m.Clone())
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}
