package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/alumasa/almoxarifado-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct aplica las tags `validate` y devuelve un error envuelto en ErrValidation
// con los campos inválidos.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: campos inválidos: %s", domain.ErrValidation, strings.Join(fields, ", "))
}

// parseBody decodifica el JSON del body en dst y lo valida.
// Devuelve errBadBody si el JSON no se puede leer.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return errBadBody
	}
	return validateStruct(dst)
}

// parseQuery decodifica la query string en dst y la valida.
func parseQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return fmt.Errorf("%w: parâmetros de consulta inválidos", domain.ErrValidation)
	}
	return validateStruct(dst)
}

var errBadBody = fmt.Errorf("%w: corpo da requisição inválido", domain.ErrValidation)

func itoa(n int) string { return strconv.Itoa(n) }
