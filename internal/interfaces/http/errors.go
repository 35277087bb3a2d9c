package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
	"github.com/alumasa/almoxarifado-api/internal/application/report"
	"github.com/alumasa/almoxarifado-api/internal/domain"
)

// errorMapping status HTTP y código estable por error de dominio. El orden importa:
// errBadBody antes que ErrValidation y ErrDuplicateCode antes que ErrDuplicate.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{errBadBody, fiber.StatusBadRequest, "INVALID_BODY"},
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidSnapshot, fiber.StatusBadRequest, "INVALID_SNAPSHOT"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicateCode, fiber.StatusConflict, "DUPLICATE_CODE"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrInsufficientStock, fiber.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
	{report.ErrPDFUnavailable, fiber.StatusServiceUnavailable, "PDF_UNAVAILABLE"},
}

// writeError traduce err a la respuesta HTTP. Los errores no mapeados son 500 y se loguean.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "erro interno"})
}

// ErrorHandler handler de errores de Fiber: respeta *fiber.Error (404 de ruta, 405) y delega el resto.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_" + itoa(fe.Code), Message: fe.Message})
	}
	return writeError(c, err)
}
