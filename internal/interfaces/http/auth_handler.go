package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alumasa/almoxarifado-api/internal/application/auth"
	"github.com/alumasa/almoxarifado-api/internal/application/dto"
)

// AuthHandler maneja login, logout y cambio de contraseña.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sessão
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Encerrar sessão
// @Tags         auth
// @Security     Bearer
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.uc.Logout(c.UserContext(), GetUsername(c))
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangePassword godoc
// @Summary      Alterar a própria senha
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.ChangePasswordRequest  true  "senha atual e nova"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.uc.ChangePassword(c.UserContext(), GetUserID(c), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
