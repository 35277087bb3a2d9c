package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: detalle") y los handlers los comparan con errors.Is.
var (
	ErrValidation        = errors.New("dados inválidos")
	ErrNotFound          = errors.New("recurso não encontrado")
	ErrDuplicateCode     = errors.New("código já cadastrado")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrInsufficientStock = errors.New("estoque insuficiente")
	ErrInvalidSnapshot   = errors.New("backup inválido")
	ErrUnauthorized      = errors.New("não autorizado")
	ErrForbidden         = errors.New("acesso negado")
	ErrConflict          = errors.New("conflito com o estado atual")
)
