package inventory

import (
	"strings"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Divergence diferencia entre la cantidad contada y la del sistema para un ítem.
type Divergence struct {
	Item        *entity.Item
	NewQuantity decimal.Decimal // cantidad contada
	Difference  decimal.Decimal // contada - sistema
}

// Impact devuelve el impacto financiero: Difference × UnitValue.
func (d Divergence) Impact() decimal.Decimal {
	return d.Difference.Mul(d.Item.UnitValue)
}

// Summary agregados de una sesión de contagem.
type Summary struct {
	CountedItems         int     // ítems (del conjunto filtrado) con valor contado no vacío
	TotalItems           int     // tamaño del conjunto filtrado
	Progress             float64 // CountedItems / TotalItems × 100; 0 si el conjunto está vacío
	DivergenceCount      int
	TotalAdjustmentValue decimal.Decimal // Σ Difference × UnitValue
}

// ParseCounted interpreta el valor crudo digitado por el operador.
// Devuelve ok=false si está vacío, no es numérico, es negativo o tiene más de
// entity.DecimalPlaces casas decimales.
func ParseCounted(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(s)
	if err != nil || v.IsNegative() || !entity.FitsScale(v) {
		return decimal.Zero, false
	}
	return v, true
}

// ComputeDivergences recorre los ítems (en su orden) y devuelve los que tienen un valor contado
// válido y distinto de la cantidad del sistema. Vacíos, no numéricos e iguales no aparecen.
func ComputeDivergences(items []*entity.Item, counted map[string]string) []Divergence {
	out := make([]Divergence, 0)
	for _, item := range items {
		raw, ok := counted[item.ID]
		if !ok {
			continue
		}
		v, ok := ParseCounted(raw)
		if !ok || v.Equal(item.Quantity) {
			continue
		}
		out = append(out, Divergence{
			Item:        item,
			NewQuantity: v,
			Difference:  v.Sub(item.Quantity),
		})
	}
	return out
}

// ComputeSummary calcula progreso, divergencias e impacto sobre el conjunto filtrado.
func ComputeSummary(filtered []*entity.Item, counted map[string]string) Summary {
	s := Summary{TotalItems: len(filtered), TotalAdjustmentValue: decimal.Zero}
	for _, item := range filtered {
		if strings.TrimSpace(counted[item.ID]) != "" {
			s.CountedItems++
		}
	}
	if s.TotalItems > 0 {
		s.Progress = float64(s.CountedItems) / float64(s.TotalItems) * 100
	}
	divs := ComputeDivergences(filtered, counted)
	s.DivergenceCount = len(divs)
	for _, d := range divs {
		s.TotalAdjustmentValue = s.TotalAdjustmentValue.Add(d.Impact())
	}
	return s
}
