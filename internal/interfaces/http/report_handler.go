package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
	"github.com/alumasa/almoxarifado-api/internal/application/report"
)

// ReportHandler relatórios de leitura y exportaciones.
type ReportHandler struct {
	svc *report.Service
}

// NewReportHandler construye el handler.
func NewReportHandler(svc *report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Stock godoc
// @Summary      Posição de estoque
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Busca"
// @Param        category  query  string  false  "Categoria"
// @Param        location  query  string  false  "Localização"
// @Param        limit     query  int     false  "Límite"  default(20)
// @Param        offset    query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/reports/stock [get]
func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	var q dto.ItemQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.StockPosition(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Itens com estoque baixo
// @Description  Itens com quantidade no mínimo ou abaixo, com sugestão de reposição.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemResponse
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.svc.LowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Movimentações do período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from       query  string  false  "Data inicial AAAA-MM-DD"
// @Param        to         query  string  false  "Data final AAAA-MM-DD"
// @Param        direction  query  string  false  "entry ou exit"
// @Param        item_id    query  string  false  "ID do item"
// @Success      200  {object}  dto.MovementReportResponse
// @Router       /api/reports/movements [get]
func (h *ReportHandler) Movements(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.Movements(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Valuation godoc
// @Summary      Valor do estoque por localização e categoria
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ValuationResponse
// @Router       /api/reports/valuation [get]
func (h *ReportHandler) Valuation(c *fiber.Ctx) error {
	out, err := h.svc.Valuation(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Resumo do painel
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.svc.Dashboard(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockCSV godoc
// @Summary      Exportar posição de estoque (CSV)
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  file
// @Router       /api/reports/stock.csv [get]
func (h *ReportHandler) StockCSV(c *fiber.Ctx) error {
	return h.itemExport(c, "text/csv; charset=utf-8", "estoque.csv", h.svc.StockCSV)
}

// StockXML godoc
// @Summary      Exportar posição de estoque (XML)
// @Tags         reports
// @Security     Bearer
// @Produce      application/xml
// @Success      200  {file}  file
// @Router       /api/reports/stock.xml [get]
func (h *ReportHandler) StockXML(c *fiber.Ctx) error {
	return h.itemExport(c, "application/xml; charset=utf-8", "estoque.xml", h.svc.StockXML)
}

// StockXLSX godoc
// @Summary      Exportar posição de estoque (XLSX)
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Router       /api/reports/stock.xlsx [get]
func (h *ReportHandler) StockXLSX(c *fiber.Ctx) error {
	return h.itemExport(c, mimeXLSX, "estoque.xlsx", h.svc.StockXLSX)
}

// StockPDF godoc
// @Summary      Exportar posição de estoque (PDF)
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  file
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/stock.pdf [get]
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	return h.itemExport(c, "application/pdf", "estoque.pdf", h.svc.StockPDF)
}

// CountSheetPDF godoc
// @Summary      Folha de contagem em branco (PDF)
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  file
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/count-sheet.pdf [get]
func (h *ReportHandler) CountSheetPDF(c *fiber.Ctx) error {
	return h.itemExport(c, "application/pdf", "folha-de-contagem.pdf", h.svc.CountSheetPDF)
}

// MovementsCSV godoc
// @Summary      Exportar movimentações do período (CSV)
// @Tags         reports
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  file
// @Router       /api/reports/movements.csv [get]
func (h *ReportHandler) MovementsCSV(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	body, err := h.svc.MovementsCSV(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, "text/csv; charset=utf-8", "movimentacoes.csv", body)
}

func (h *ReportHandler) itemExport(c *fiber.Ctx, contentType, filename string,
	export func(ctx context.Context, q dto.ItemQuery) ([]byte, error)) error {
	var q dto.ItemQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	body, err := export(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, contentType, filename, body)
}

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func sendFile(c *fiber.Ctx, contentType, filename string, body []byte) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(body)
}
