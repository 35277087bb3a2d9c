package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección de un movimiento de estoque.
type MovementDirection string

const (
	DirectionEntry MovementDirection = "entry" // entrada
	DirectionExit  MovementDirection = "exit"  // saída
)

// Valid indica si la dirección es conocida.
func (d MovementDirection) Valid() bool {
	return d == DirectionEntry || d == DirectionExit
}

// Movement es un registro inmutable del histórico de movimientos (entrada o salida).
// El histórico es append-only: nunca se edita ni se elimina.
type Movement struct {
	ID          string
	ItemID      string
	ItemCode    string // copia del código en el momento del registro (el ítem puede ser eliminado)
	Direction   MovementDirection
	Quantity    decimal.Decimal // siempre > 0; el signo lo da Direction
	UnitValue   decimal.Decimal // costo informado en la entrada o valor medio del ítem al registrar
	Date        time.Time       // día calendario (00:00 en la zona horaria de la aplicación)
	SupplierID  string          // solo entradas, opcional
	Requester   string          // solo salidas
	Responsible string          // solo salidas
	CreatedBy   string
	CreatedAt   time.Time
}

// SignedQuantity devuelve la cantidad con signo (+ entrada, - salida).
func (m *Movement) SignedQuantity() decimal.Decimal {
	if m.Direction == DirectionExit {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// Value devuelve Quantity × UnitValue.
func (m *Movement) Value() decimal.Decimal {
	return m.Quantity.Mul(m.UnitValue)
}

// Clone devuelve una copia independiente del movimiento.
func (m *Movement) Clone() *Movement {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// CalendarDay trunca t al inicio del día en loc.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}
