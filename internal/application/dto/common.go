package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/alumasa/almoxarifado-api/internal/domain"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPageResponse calcula el total de páginas (al menos 1).
func NewPageResponse(p PageRequest, total int) PageResponse {
	pages := 1
	if p.Limit > 0 && total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total, TotalPages: pages}
}

// Window devuelve los índices [start, end) de la página dentro de n elementos.
func (p PageRequest) Window(n int) (int, int) {
	start := p.Offset
	if start > n {
		start = n
	}
	end := n
	if p.Limit > 0 && start+p.Limit < n {
		end = start + p.Limit
	}
	return start, end
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}

// ParseDay interpreta una fecha YYYY-MM-DD como inicio del día en loc. Vacío devuelve nil.
func ParseDay(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: data inválida %q (use AAAA-MM-DD)", domain.ErrValidation, s)
	}
	return &t, nil
}
