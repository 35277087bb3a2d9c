package memory

import (
	"context"
	"sort"

	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo fornecedores en memoria.
type SupplierRepo struct {
	a access
}

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.suppliers[s.ID]; ok {
			return domain.ErrDuplicate
		}
		st.suppliers[s.ID] = s.Clone()
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.a.read(func(st *state) error {
		out = st.suppliers[id].Clone()
		return nil
	})
	return out, err
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.suppliers[s.ID]; !ok {
			return domain.ErrNotFound
		}
		st.suppliers[s.ID] = s.Clone()
		return nil
	})
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.suppliers[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.suppliers, id)
		return nil
	})
}

// List devuelve los fornecedores ordenados por nombre.
func (r *SupplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.a.read(func(st *state) error {
		out = make([]*entity.Supplier, 0, len(st.suppliers))
		for _, s := range st.suppliers {
			out = append(out, s.Clone())
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}
