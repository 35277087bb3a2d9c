package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
	"github.com/alumasa/almoxarifado-api/internal/application/inventory"
	domaininv "github.com/alumasa/almoxarifado-api/internal/domain/inventory"
)

// CountHandler sesiones de contagem física (inventário).
type CountHandler struct {
	reconciler *inventory.Reconciler
}

// NewCountHandler construye el handler.
func NewCountHandler(reconciler *inventory.Reconciler) *CountHandler {
	return &CountHandler{reconciler: reconciler}
}

// Start godoc
// @Summary      Iniciar contagem
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.CountSessionResponse
// @Router       /api/counts [post]
func (h *CountHandler) Start(c *fiber.Ctx) error {
	s, err := h.reconciler.Start(c.UserContext(), GetUsername(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sessionResponse(s))
}

// Get godoc
// @Summary      Obter contagem
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da contagem"
// @Success      200  {object}  dto.CountSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counts/{id} [get]
func (h *CountHandler) Get(c *fiber.Ctx) error {
	s, err := h.reconciler.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sessionResponse(s))
}

// SetCounted godoc
// @Summary      Informar quantidade contada
// @Description  O valor é guardado como digitado; vazio ou não numérico não gera ajuste.
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Param        id      path  string                 true  "ID da contagem"
// @Param        itemId  path  string                 true  "ID do item"
// @Param        body    body  dto.SetCountedRequest  true  "Valor contado"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/items/{itemId} [put]
func (h *CountHandler) SetCounted(c *fiber.Ctx) error {
	var in dto.SetCountedRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.reconciler.SetCounted(c.UserContext(), c.Params("id"), c.Params("itemId"), in.Value); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary godoc
// @Summary      Resumo da contagem
// @Description  Progresso e divergências calculados sobre os itens que passam no filtro.
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID da contagem"
// @Param        search    query  string  false  "Busca"
// @Param        category  query  string  false  "Categoria"
// @Param        location  query  string  false  "Localização"
// @Success      200  {object}  dto.CountSummaryResponse
// @Router       /api/counts/{id}/summary [get]
func (h *CountHandler) Summary(c *fiber.Ctx) error {
	var q dto.ItemQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	filter := domaininv.ItemFilter{Search: q.Search, Category: q.Category, Location: q.Location, LowStockOnly: q.LowStock}
	sum, divs, err := h.reconciler.Summary(c.UserContext(), c.Params("id"), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summaryResponse(sum, divs))
}

// Confirm godoc
// @Summary      Revisar antes de confirmar
// @Description  Passa a contagem para confirmação e devolve o resumo de todo o catálogo.
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da contagem"
// @Success      200  {object}  dto.CountSummaryResponse
// @Router       /api/counts/{id}/confirm [post]
func (h *CountHandler) Confirm(c *fiber.Ctx) error {
	sum, divs, err := h.reconciler.RequestCommit(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summaryResponse(sum, divs))
}

// Commit godoc
// @Summary      Confirmar inventário
// @Description  Ajusta o saldo dos itens divergentes. Irreversível.
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da contagem"
// @Success      200  {object}  dto.CommitCountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/commit [post]
func (h *CountHandler) Commit(c *fiber.Ctx) error {
	res, err := h.reconciler.Commit(c.UserContext(), c.Params("id"), GetUsername(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CommitCountResponse{
		Session:     sessionResponse(res.Session),
		Adjusted:    dto.ItemsFromEntities(res.Adjusted),
		TotalImpact: res.TotalImpact,
	})
}

// Cancel godoc
// @Summary      Cancelar contagem
// @Tags         counts
// @Security     Bearer
// @Param        id   path  string  true  "ID da contagem"
// @Success      204
// @Router       /api/counts/{id} [delete]
func (h *CountHandler) Cancel(c *fiber.Ctx) error {
	if err := h.reconciler.Cancel(c.UserContext(), c.Params("id"), GetUsername(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func sessionResponse(s *inventory.CountSession) dto.CountSessionResponse {
	counted := make(map[string]string, len(s.Counted))
	for k, v := range s.Counted {
		counted[k] = v
	}
	return dto.CountSessionResponse{
		ID:        s.ID,
		State:     string(s.State),
		StartedBy: s.StartedBy,
		StartedAt: s.StartedAt,
		UpdatedAt: s.UpdatedAt,
		Counted:   counted,
	}
}

func summaryResponse(sum domaininv.Summary, divs []domaininv.Divergence) dto.CountSummaryResponse {
	out := dto.CountSummaryResponse{
		CountedItems:         sum.CountedItems,
		TotalItems:           sum.TotalItems,
		Progress:             sum.Progress,
		DivergenceCount:      sum.DivergenceCount,
		TotalAdjustmentValue: sum.TotalAdjustmentValue,
		Divergences:          make([]dto.DivergenceResponse, 0, len(divs)),
	}
	for _, d := range divs {
		out.Divergences = append(out.Divergences, dto.DivergenceResponse{
			ItemID:          d.Item.ID,
			Code:            d.Item.Code,
			Description:     d.Item.Description,
			SystemQuantity:  d.Item.Quantity,
			CountedQuantity: d.NewQuantity,
			Difference:      d.Difference,
			UnitValue:       d.Item.UnitValue,
			Impact:          d.Impact(),
		})
	}
	return out
}
