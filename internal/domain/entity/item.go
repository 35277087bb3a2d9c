package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alumasa/almoxarifado-api/internal/domain"
)

// DecimalPlaces casas decimales que persisten cantidades y valores (NUMERIC(18,4)).
const DecimalPlaces = 4

// FitsScale indica si v no tiene más de DecimalPlaces casas significativas.
func FitsScale(v decimal.Decimal) bool {
	return v.Equal(v.Truncate(DecimalPlaces))
}

// CheckScale devuelve ErrValidation si v no cabe en DecimalPlaces casas.
func CheckScale(field string, v decimal.Decimal) error {
	if !FitsScale(v) {
		return fmt.Errorf("%w: %s aceita no máximo %d casas decimais", domain.ErrValidation, field, DecimalPlaces)
	}
	return nil
}

// Item representa un ítem del almoxarifado (SKU con cantidad, mínimo y valor medio).
// El valor total no se almacena: siempre es Quantity × UnitValue (ver TotalValue).
// Quantity y UnitValue solo cambian vía ApplyDelta, SetQuantity y SetUnitValue.
type Item struct {
	ID          string
	Code        string // código único asignado por el operador, inmutable
	Description string
	Category    string
	Location    string
	Unit        string // unidad de medida (un, kg, m, cx...)
	Quantity    decimal.Decimal
	MinQuantity decimal.Decimal
	UnitValue   decimal.Decimal // valor unitario medio
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TotalValue devuelve Quantity × UnitValue.
func (i *Item) TotalValue() decimal.Decimal {
	return i.Quantity.Mul(i.UnitValue)
}

// ApplyDelta suma delta (con signo) a la cantidad actual. No valida signo ni magnitud.
func (i *Item) ApplyDelta(delta decimal.Decimal, now time.Time) {
	i.Quantity = i.Quantity.Add(delta)
	i.UpdatedAt = now
}

// SetQuantity sobrescribe la cantidad actual (usado por la conciliación de inventario).
func (i *Item) SetQuantity(qty decimal.Decimal, now time.Time) {
	i.Quantity = qty
	i.UpdatedAt = now
}

// SetUnitValue sobrescribe el valor unitario medio.
func (i *Item) SetUnitValue(v decimal.Decimal, now time.Time) {
	i.UnitValue = v
	i.UpdatedAt = now
}

// IsLowStock indica si la cantidad está en o por debajo del mínimo.
func (i *Item) IsLowStock() bool {
	return i.Quantity.LessThanOrEqual(i.MinQuantity)
}

// Clone devuelve una copia independiente del ítem.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}
