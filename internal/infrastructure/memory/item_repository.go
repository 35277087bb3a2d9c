package memory

import (
	"context"
	"sort"

	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/inventory"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository. Devuelve siempre copias.
type ItemRepo struct {
	a access
}

// Create persiste un ítem nuevo. Falla con ErrDuplicateCode si el código normalizado ya existe.
func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	return r.a.write(func(st *state) error {
		if findByNormalizedCode(st, item.Code) != nil {
			return domain.ErrDuplicateCode
		}
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		st.items[item.ID] = item.Clone()
		return nil
	})
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.a.read(func(st *state) error {
		out = st.items[id].Clone()
		return nil
	})
	return out, err
}

// GetByCode busca por código exacto.
func (r *ItemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	var out *entity.Item
	err := r.a.read(func(st *state) error {
		for _, it := range st.items {
			if it.Code == code {
				out = it.Clone()
				break
			}
		}
		return nil
	})
	return out, err
}

// GetByNormalizedCode busca ignorando mayúsculas y espacios.
func (r *ItemRepo) GetByNormalizedCode(_ context.Context, code string) (*entity.Item, error) {
	var out *entity.Item
	err := r.a.read(func(st *state) error {
		out = findByNormalizedCode(st, code).Clone()
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: dentro de una tx el TxRunner ya tiene el lock exclusivo.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza el ítem guardado por una copia del recibido.
func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.items[item.ID]; !ok {
			return domain.ErrNotFound
		}
		st.items[item.ID] = item.Clone()
		return nil
	})
}

// Delete elimina un ítem. El histórico de movimientos no se toca.
func (r *ItemRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.items, id)
		return nil
	})
}

// List devuelve todos los ítems ordenados por código.
func (r *ItemRepo) List(_ context.Context) ([]*entity.Item, error) {
	var out []*entity.Item
	err := r.a.read(func(st *state) error {
		out = sortedItems(st.items)
		return nil
	})
	return out, err
}

func findByNormalizedCode(st *state, code string) *entity.Item {
	norm := inventory.NormalizeCode(code)
	for _, it := range st.items {
		if inventory.NormalizeCode(it.Code) == norm {
			return it
		}
	}
	return nil
}

func sortedItems(m map[string]*entity.Item) []*entity.Item {
	out := make([]*entity.Item, 0, len(m))
	for _, it := range m {
		out = append(out, it.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
