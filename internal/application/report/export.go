package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
)

// ErrPDFUnavailable el servicio se construyó sin renderer PDF.
var ErrPDFUnavailable = errors.New("report: geração de PDF indisponível")

// PDFRenderer genera los documentos PDF (implementado en infrastructure/pdf).
type PDFRenderer interface {
	StockPositionPDF(ctx context.Context, doc StockDocument) ([]byte, error)
	CountSheetPDF(ctx context.Context, doc CountSheetDocument) ([]byte, error)
}

// StockDocument posición de estoque lista para imprimir (valores ya formateados).
type StockDocument struct {
	Title       string
	Filter      string
	GeneratedAt string
	Rows        []StockRow
	ItemCount   int
	TotalValue  string
}

// StockRow línea de la posición de estoque.
type StockRow struct {
	Code        string
	Description string
	Location    string
	Unit        string
	Quantity    string
	MinQuantity string
	UnitValue   string
	TotalValue  string
	LowStock    bool
}

// CountSheetDocument planilla de contagem ciega: sin saldo del sistema, con espacio para anotar.
type CountSheetDocument struct {
	Title       string
	Filter      string
	GeneratedAt string
	Rows        []CountSheetRow
}

// CountSheetRow línea de la planilla de contagem.
type CountSheetRow struct {
	Code        string
	Description string
	Location    string
	Unit        string
}

var stockCSVHeader = []string{
	"Código", "Descrição", "Categoria", "Localização", "Unidade",
	"Quantidade", "Estoque mínimo", "Valor unitário", "Valor total", "Situação",
}

// utf8BOM para que planillas en pt-BR abran el archivo con la codificación correcta.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func newCSVWriter(buf *bytes.Buffer) *csv.Writer {
	buf.Write(utf8BOM)
	w := csv.NewWriter(buf)
	w.Comma = ';'
	return w
}

// StockCSV exporta la posición de estoque filtrada (sin paginar).
func (s *Service) StockCSV(ctx context.Context, q dto.ItemQuery) ([]byte, error) {
	items, err := s.filteredItems(ctx, q)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := newCSVWriter(&buf)
	if err := w.Write(stockCSVHeader); err != nil {
		return nil, err
	}
	for _, it := range items {
		status := "OK"
		if it.IsLowStock() {
			status = "Estoque baixo"
		}
		if err := w.Write([]string{
			it.Code,
			it.Description,
			it.Category,
			it.Location,
			it.Unit,
			FormatQuantity(it.Quantity),
			FormatQuantity(it.MinQuantity),
			FormatDecimal(it.UnitValue, 2),
			FormatDecimal(it.TotalValue(), 2),
			status,
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MovementsCSV exporta el reporte de movimientos del período.
func (s *Service) MovementsCSV(ctx context.Context, q dto.MovementQuery) ([]byte, error) {
	rep, err := s.Movements(ctx, q)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := newCSVWriter(&buf)
	if err := w.Write([]string{
		"Data", "Tipo", "Código", "Descrição", "Quantidade", "Valor unitário", "Valor total",
		"Fornecedor", "Solicitante", "Responsável", "Registrado por",
	}); err != nil {
		return nil, err
	}
	for _, m := range rep.Movements {
		kind := "Entrada"
		if m.Direction == string(entity.DirectionExit) {
			kind = "Saída"
		}
		day, _ := time.Parse("2006-01-02", m.Date)
		if err := w.Write([]string{
			FormatDate(day),
			kind,
			m.ItemCode,
			m.ItemDescription,
			FormatQuantity(m.Quantity),
			FormatDecimal(m.UnitValue, 2),
			FormatDecimal(m.TotalValue, 2),
			m.SupplierName,
			m.Requester,
			m.Responsible,
			m.CreatedBy,
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StockXML exporta la posición de estoque filtrada como XML (valores con punto decimal).
func (s *Service) StockXML(ctx context.Context, q dto.ItemQuery) ([]byte, error) {
	items, err := s.filteredItems(ctx, q)
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("estoque")
	root.CreateAttr("gerado_em", s.now().In(s.loc).Format(time.RFC3339))
	root.CreateAttr("itens", strconv.Itoa(len(items)))

	for _, it := range items {
		el := root.CreateElement("item")
		el.CreateAttr("id", it.ID)
		el.CreateAttr("codigo", it.Code)
		if it.IsLowStock() {
			el.CreateAttr("estoque_baixo", "true")
		}
		el.CreateElement("descricao").SetText(it.Description)
		el.CreateElement("categoria").SetText(it.Category)
		el.CreateElement("localizacao").SetText(it.Location)
		el.CreateElement("unidade").SetText(it.Unit)
		el.CreateElement("quantidade").SetText(it.Quantity.String())
		el.CreateElement("estoque_minimo").SetText(it.MinQuantity.String())
		el.CreateElement("valor_unitario").SetText(it.UnitValue.StringFixed(2))
		el.CreateElement("valor_total").SetText(it.TotalValue().StringFixed(2))
	}
	root.CreateElement("valor_total_geral").SetText(totalValue(items).StringFixed(2))
	doc.Indent(2)
	return doc.WriteToBytes()
}

// StockPDF posición de estoque en PDF.
func (s *Service) StockPDF(ctx context.Context, q dto.ItemQuery) ([]byte, error) {
	if s.renderer == nil {
		return nil, ErrPDFUnavailable
	}
	items, err := s.filteredItems(ctx, q)
	if err != nil {
		return nil, err
	}
	doc := StockDocument{
		Title:       "Posição de Estoque",
		Filter:      describeFilter(q),
		GeneratedAt: s.now().In(s.loc).Format("02/01/2006 15:04"),
		ItemCount:   len(items),
		Rows:        make([]StockRow, 0, len(items)),
	}
	for _, it := range items {
		doc.Rows = append(doc.Rows, StockRow{
			Code:        it.Code,
			Description: it.Description,
			Location:    it.Location,
			Unit:        it.Unit,
			Quantity:    FormatQuantity(it.Quantity),
			MinQuantity: FormatQuantity(it.MinQuantity),
			UnitValue:   FormatMoney(it.UnitValue),
			TotalValue:  FormatMoney(it.TotalValue()),
			LowStock:    it.IsLowStock(),
		})
	}
	doc.TotalValue = FormatMoney(totalValue(items))
	return s.renderer.StockPositionPDF(ctx, doc)
}

// CountSheetPDF planilla en blanco para la contagem física de los ítems filtrados.
func (s *Service) CountSheetPDF(ctx context.Context, q dto.ItemQuery) ([]byte, error) {
	if s.renderer == nil {
		return nil, ErrPDFUnavailable
	}
	items, err := s.filteredItems(ctx, q)
	if err != nil {
		return nil, err
	}
	doc := CountSheetDocument{
		Title:       "Planilha de Contagem de Inventário",
		Filter:      describeFilter(q),
		GeneratedAt: s.now().In(s.loc).Format("02/01/2006 15:04"),
		Rows:        make([]CountSheetRow, 0, len(items)),
	}
	for _, it := range items {
		doc.Rows = append(doc.Rows, CountSheetRow{
			Code:        it.Code,
			Description: it.Description,
			Location:    it.Location,
			Unit:        it.Unit,
		})
	}
	return s.renderer.CountSheetPDF(ctx, doc)
}

func totalValue(items []*entity.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.TotalValue())
	}
	return total
}

// describeFilter texto del filtro aplicado para el encabezado de los PDFs.
func describeFilter(q dto.ItemQuery) string {
	var parts []string
	if q.Search != "" {
		parts = append(parts, "Busca: "+q.Search)
	}
	if q.Category != "" {
		parts = append(parts, "Categoria: "+q.Category)
	}
	if q.Location != "" {
		parts = append(parts, "Localização: "+q.Location)
	}
	if q.LowStock {
		parts = append(parts, "Somente estoque baixo")
	}
	if len(parts) == 0 {
		return "Todos os itens"
	}
	return strings.Join(parts, " | ")
}
