package inventory

import (
	"strings"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"golang.org/x/text/cases"
)

// ItemFilter filtros de la pantalla de estoque y de la contagem de inventario.
// Campos vacíos no filtran.
type ItemFilter struct {
	Search       string // busca en código y descripción
	Category     string
	Location     string
	LowStockOnly bool
}

// Match indica si el ítem pasa el filtro.
func (f ItemFilter) Match(item *entity.Item) bool {
	fold := cases.Fold()
	if f.Category != "" && fold.String(item.Category) != fold.String(f.Category) {
		return false
	}
	if f.Location != "" && fold.String(item.Location) != fold.String(f.Location) {
		return false
	}
	if f.LowStockOnly && !item.IsLowStock() {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		q = fold.String(q)
		if !strings.Contains(fold.String(item.Code), q) && !strings.Contains(fold.String(item.Description), q) {
			return false
		}
	}
	return true
}

// Apply devuelve los ítems que pasan el filtro, en el mismo orden.
func (f ItemFilter) Apply(items []*entity.Item) []*entity.Item {
	out := make([]*entity.Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}
