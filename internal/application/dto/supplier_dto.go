package dto

import (
	"time"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

// SupplierRequest body para crear o editar un fornecedor.
type SupplierRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Document string `json:"document" validate:"omitempty,max=30"`
	Contact  string `json:"contact" validate:"omitempty,max=200"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// ToDraft convierte el request en borrador de dominio.
func (r SupplierRequest) ToDraft() entity.SupplierDraft {
	return entity.SupplierDraft{
		Name:     r.Name,
		Document: r.Document,
		Contact:  r.Contact,
		Phone:    r.Phone,
		Email:    r.Email,
	}
}

// SupplierResponse salida de un fornecedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	Contact   string    `json:"contact"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
