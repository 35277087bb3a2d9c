package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/alumasa/almoxarifado-api/internal/domain"
)

// Supplier representa un fornecedor de materiales.
type Supplier struct {
	ID        string
	Name      string
	Document  string // CNPJ o CPF
	Contact   string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SupplierDraft fornecedor todavía no persistido; solo Name es obligatorio.
type SupplierDraft struct {
	Name     string
	Document string
	Contact  string
	Phone    string
	Email    string
}

// Build valida el borrador y construye el fornecedor.
func (d SupplierDraft) Build(id string, now time.Time) (*Supplier, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, fmt.Errorf("%w: nome do fornecedor é obrigatório", domain.ErrValidation)
	}
	return &Supplier{
		ID:        id,
		Name:      strings.TrimSpace(d.Name),
		Document:  strings.TrimSpace(d.Document),
		Contact:   strings.TrimSpace(d.Contact),
		Phone:     strings.TrimSpace(d.Phone),
		Email:     strings.TrimSpace(d.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Apply copia los datos del borrador sobre un fornecedor existente.
func (d SupplierDraft) Apply(s *Supplier, now time.Time) error {
	built, err := d.Build(s.ID, s.CreatedAt)
	if err != nil {
		return err
	}
	built.UpdatedAt = now
	*s = *built
	return nil
}

// Clone devuelve una copia independiente.
func (s *Supplier) Clone() *Supplier {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
