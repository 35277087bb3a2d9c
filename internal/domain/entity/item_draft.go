package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/shopspring/decimal"
)

// ItemDraft es un ítem en edición que todavía no existe en el catálogo.
// Los campos pueden estar vacíos; Build verifica que todo lo obligatorio esté presente.
type ItemDraft struct {
	Code        string
	Description string
	Category    string
	Location    string
	Unit        string
	Quantity    *decimal.Decimal // cantidad inicial, obligatoria
	MinQuantity *decimal.Decimal // opcional, 0 por defecto
	UnitValue   *decimal.Decimal // opcional, 0 por defecto
}

// Validate verifica campos obligatorios y rangos. Devuelve un error envuelto en domain.ErrValidation.
func (d ItemDraft) Validate() error {
	required := []struct {
		name, value string
	}{
		{"código", d.Code},
		{"descrição", d.Description},
		{"categoria", d.Category},
		{"localização", d.Location},
		{"unidade", d.Unit},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s é obrigatório", domain.ErrValidation, f.name)
		}
	}
	if d.Quantity == nil {
		return fmt.Errorf("%w: quantidade inicial é obrigatória", domain.ErrValidation)
	}
	if d.Quantity.IsNegative() {
		return fmt.Errorf("%w: quantidade não pode ser negativa", domain.ErrValidation)
	}
	if d.MinQuantity != nil && d.MinQuantity.IsNegative() {
		return fmt.Errorf("%w: estoque mínimo não pode ser negativo", domain.ErrValidation)
	}
	if d.UnitValue != nil && d.UnitValue.IsNegative() {
		return fmt.Errorf("%w: valor unitário não pode ser negativo", domain.ErrValidation)
	}
	if err := CheckScale("quantidade", *d.Quantity); err != nil {
		return err
	}
	if d.MinQuantity != nil {
		if err := CheckScale("estoque mínimo", *d.MinQuantity); err != nil {
			return err
		}
	}
	if d.UnitValue != nil {
		if err := CheckScale("valor unitário", *d.UnitValue); err != nil {
			return err
		}
	}
	return nil
}

// Build valida el borrador y construye el ítem definitivo.
func (d ItemDraft) Build(id string, now time.Time) (*Item, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	item := &Item{
		ID:          id,
		Code:        strings.TrimSpace(d.Code),
		Description: strings.TrimSpace(d.Description),
		Category:    strings.TrimSpace(d.Category),
		Location:    strings.TrimSpace(d.Location),
		Unit:        strings.TrimSpace(d.Unit),
		Quantity:    *d.Quantity,
		MinQuantity: decimal.Zero,
		UnitValue:   decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if d.MinQuantity != nil {
		item.MinQuantity = *d.MinQuantity
	}
	if d.UnitValue != nil {
		item.UnitValue = *d.UnitValue
	}
	return item, nil
}

// ItemPatch cambios permitidos sobre un ítem existente. El código y la cantidad no se editan aquí.
type ItemPatch struct {
	Description *string
	Category    *string
	Location    *string
	Unit        *string
	MinQuantity *decimal.Decimal
	UnitValue   *decimal.Decimal
}

// Apply aplica el patch sobre el ítem. Un campo de texto presente no puede quedar vacío.
func (p ItemPatch) Apply(item *Item, now time.Time) error {
	texts := []struct {
		name string
		src  *string
		dst  *string
	}{
		{"descrição", p.Description, &item.Description},
		{"categoria", p.Category, &item.Category},
		{"localização", p.Location, &item.Location},
		{"unidade", p.Unit, &item.Unit},
	}
	for _, t := range texts {
		if t.src == nil {
			continue
		}
		v := strings.TrimSpace(*t.src)
		if v == "" {
			return fmt.Errorf("%w: %s não pode ficar vazio", domain.ErrValidation, t.name)
		}
		*t.dst = v
	}
	if p.MinQuantity != nil {
		if p.MinQuantity.IsNegative() {
			return fmt.Errorf("%w: estoque mínimo não pode ser negativo", domain.ErrValidation)
		}
		if err := CheckScale("estoque mínimo", *p.MinQuantity); err != nil {
			return err
		}
		item.MinQuantity = *p.MinQuantity
	}
	if p.UnitValue != nil {
		if p.UnitValue.IsNegative() {
			return fmt.Errorf("%w: valor unitário não pode ser negativo", domain.ErrValidation)
		}
		if err := CheckScale("valor unitário", *p.UnitValue); err != nil {
			return err
		}
		item.SetUnitValue(*p.UnitValue, now)
	}
	item.UpdatedAt = now
	return nil
}
