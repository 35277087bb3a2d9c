package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alumasa/almoxarifado-api/internal/application/audit"
	"github.com/alumasa/almoxarifado-api/internal/application/backup"
	"github.com/alumasa/almoxarifado-api/internal/application/dto"
)

// AdminHandler auditoría y backup.
type AdminHandler struct {
	audit  *audit.Service
	backup *backup.Service
}

// NewAdminHandler construye el handler.
func NewAdminHandler(auditSvc *audit.Service, backupSvc *backup.Service) *AdminHandler {
	return &AdminHandler{audit: auditSvc, backup: backupSvc}
}

// Audit godoc
// @Summary      Log de auditoria
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        actor   query  string  false  "Usuário"
// @Param        action  query  string  false  "Ação (ex.: movement.exit)"
// @Param        from    query  string  false  "Data inicial AAAA-MM-DD"
// @Param        to      query  string  false  "Data final AAAA-MM-DD"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.AuditListResponse
// @Router       /api/audit [get]
func (h *AdminHandler) Audit(c *fiber.Ctx) error {
	var q dto.AuditQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.audit.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar backup
// @Description  Itens, movimentações e usuários em JSON.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SnapshotDTO
// @Router       /api/backup [get]
func (h *AdminHandler) Export(c *fiber.Ctx) error {
	body, err := h.backup.ExportJSON(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, fiber.MIMEApplicationJSONCharsetUTF8, "almoxarifado-backup.json", body)
}

// Restore godoc
// @Summary      Restaurar backup
// @Description  Substitui todo o estado. Um arquivo inválido não altera nada.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SnapshotDTO  true  "Backup exportado"
// @Success      200   {object}  dto.RestoreResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/backup/restore [post]
func (h *AdminHandler) Restore(c *fiber.Ctx) error {
	out, err := h.backup.Restore(c.UserContext(), GetUsername(c), c.Body())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
