package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
	"github.com/alumasa/almoxarifado-api/internal/application/inventory"
	"github.com/alumasa/almoxarifado-api/internal/application/report"
)

// ItemHandler catálogo de ítems. Las lecturas paginadas salen del servicio de relatórios.
type ItemHandler struct {
	ledger  *inventory.Ledger
	reports *report.Service
}

// NewItemHandler construye el handler.
func NewItemHandler(ledger *inventory.Ledger, reports *report.Service) *ItemHandler {
	return &ItemHandler{ledger: ledger, reports: reports}
}

// List godoc
// @Summary      Listar itens
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Busca em código e descrição"
// @Param        category   query  string  false  "Categoria"
// @Param        location   query  string  false  "Localização"
// @Param        low_stock  query  bool    false  "Somente estoque baixo"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var q dto.ItemQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.reports.StockPosition(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obter item por ID ou código
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID ou código do item"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	return h.get(c, c.Params("id"))
}

// GetByCode godoc
// @Summary      Obter item por código
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código do item"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/code/{code} [get]
func (h *ItemHandler) GetByCode(c *fiber.Ctx) error {
	return h.get(c, c.Params("code"))
}

func (h *ItemHandler) get(c *fiber.Ctx, key string) error {
	item, err := h.ledger.GetItem(c.UserContext(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// Create godoc
// @Summary      Cadastrar item
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Dados do item"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	item, err := h.ledger.CreateItem(c.UserContext(), GetUsername(c), in.ToDraft())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ItemFromEntity(item))
}

// Update godoc
// @Summary      Editar item
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do item"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a alterar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	item, err := h.ledger.UpdateItem(c.UserContext(), GetUsername(c), c.Params("id"), in.ToPatch())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ItemFromEntity(item))
}

// Delete godoc
// @Summary      Excluir item
// @Description  O histórico de movimentações do item é preservado.
// @Tags         items
// @Security     Bearer
// @Param        id   path  string  true  "ID do item"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	if err := h.ledger.DeleteItem(c.UserContext(), GetUsername(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
