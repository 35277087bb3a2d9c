package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
	"github.com/alumasa/almoxarifado-api/internal/application/inventory"
	"github.com/alumasa/almoxarifado-api/internal/application/report"
	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

// MovementHandler entradas, saídas e histórico.
type MovementHandler struct {
	recorder *inventory.MovementRecorder
	ledger   *inventory.Ledger
	reports  *report.Service
}

// NewMovementHandler construye el handler.
func NewMovementHandler(recorder *inventory.MovementRecorder, ledger *inventory.Ledger, reports *report.Service) *MovementHandler {
	return &MovementHandler{recorder: recorder, ledger: ledger, reports: reports}
}

// RecordEntry godoc
// @Summary      Registrar entrada
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordEntryRequest  true  "Código do item, quantidade, fornecedor e custo opcionais"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/entries [post]
func (h *MovementHandler) RecordEntry(c *fiber.Ctx) error {
	var in dto.RecordEntryRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	m, err := h.recorder.RecordEntry(c.UserContext(), inventory.EntryInput{
		ItemCode:   in.ItemCode,
		Quantity:   in.Quantity,
		SupplierID: in.SupplierID,
		UnitCost:   in.UnitCost,
		Actor:      GetUsername(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, m)
}

// RecordExit godoc
// @Summary      Registrar saída
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordExitRequest  true  "Item, quantidade, solicitante e responsável"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements/exits [post]
func (h *MovementHandler) RecordExit(c *fiber.Ctx) error {
	var in dto.RecordExitRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	m, err := h.recorder.RecordExit(c.UserContext(), inventory.ExitInput{
		ItemID:      in.ItemID,
		Quantity:    in.Quantity,
		Requester:   in.Requester,
		Responsible: in.Responsible,
		Actor:       GetUsername(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, m)
}

func (h *MovementHandler) respond(c *fiber.Ctx, m *entity.Movement) error {
	item, err := h.ledger.GetItem(c.UserContext(), m.ItemID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		item = nil
	case err != nil:
		// La movimentação ya quedó registrada; se responde sin la descripción.
		log.Warn().Err(err).Str("movement_id", m.ID).Str("item_id", m.ItemID).Msg("no se pudo leer el ítem de la movimentação")
		item = &entity.Item{ID: m.ItemID, Code: m.ItemCode}
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(m, item))
}

// List godoc
// @Summary      Histórico de movimentações
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        item_id    query  string  false  "ID do item"
// @Param        direction  query  string  false  "entry ou exit"
// @Param        from       query  string  false  "Data inicial AAAA-MM-DD"
// @Param        to         query  string  false  "Data final AAAA-MM-DD"
// @Success      200  {object}  dto.MovementReportResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.reports.Movements(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
