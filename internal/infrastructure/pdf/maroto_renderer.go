// Package pdf genera los relatórios imprimibles del almoxarifado con Maroto v2.
//
// Layout de la página A4 (posición de estoque):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + filtro     │  Fecha de emisión            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descrição | Local | Un | Qtd | Mín | Valor  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: cantidad de ítems / valor total del estoque        │
//	└─────────────────────────────────────────────────────────────┘
//
// La folha de contagem reemplaza las columnas numéricas por un espacio en
// blanco para anotar la cantidad contada a mano.
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/alumasa/almoxarifado-api/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// column describe una columna de la tabla: título, ancho en la grilla de 12 y alineación.
type column struct {
	label string
	size  int
	align align.Type
}

var stockColumns = []column{
	{"Código", 1, align.Left},
	{"Descrição", 4, align.Left},
	{"Localização", 2, align.Left},
	{"Un", 1, align.Center},
	{"Qtd", 1, align.Right},
	{"Mín", 1, align.Right},
	{"Valor total", 2, align.Right},
}

var countColumns = []column{
	{"Código", 2, align.Left},
	{"Descrição", 4, align.Left},
	{"Localização", 2, align.Left},
	{"Un", 1, align.Center},
	{"Contado", 3, align.Center},
}

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implementa report.PDFRenderer usando Maroto v2.
type MarotoRenderer struct {
	company string
}

// NewMarotoRenderer construye el renderer. company aparece como autor del documento.
func NewMarotoRenderer(company string) *MarotoRenderer {
	return &MarotoRenderer{company: company}
}

// StockPositionPDF genera la posición de estoque; los ítems en estoque bajo van en rojo.
func (r *MarotoRenderer) StockPositionPDF(ctx context.Context, doc report.StockDocument) ([]byte, error) {
	m := r.newDocument(doc.Title, orientation.Horizontal)

	m.AddRows(headerRow(doc.Title, doc.Filter, doc.GeneratedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(stockColumns))
	for _, sr := range doc.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.AddRows(stockRow(sr))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc.ItemCount, doc.TotalValue))

	return generate(m)
}

// CountSheetPDF genera la folha de contagem para el recuento físico.
func (r *MarotoRenderer) CountSheetPDF(ctx context.Context, doc report.CountSheetDocument) ([]byte, error) {
	m := r.newDocument(doc.Title, orientation.Vertical)

	m.AddRows(headerRow(doc.Title, doc.Filter, doc.GeneratedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(countColumns))
	for _, cr := range doc.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m.AddRows(countRow(cr))
	}
	m.AddRows(row.New(12))
	m.AddRows(signatureRow())

	return generate(m)
}

func (r *MarotoRenderer) newDocument(title string, o orientation.Type) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(o).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(r.company, true).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + filtro (izq) y fecha de emisión (der).
func headerRow(title, filter, generatedAt string) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Filtro: "+nonEmpty(filter, "todos os itens"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("ALUMASA · ALMOXARIFADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido em "+generatedAt, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera con fondo en el color primario.
func tableHeaderRow(cols []column) core.Row {
	cells := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		cells = append(cells, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cells...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func stockRow(sr report.StockRow) core.Row {
	values := []string{sr.Code, sr.Description, sr.Location, sr.Unit, sr.Quantity, sr.MinQuantity, sr.TotalValue}
	var color *props.Color
	if sr.LowStock {
		color = colorAlert
	}
	return dataRow(stockColumns, values, color)
}

func countRow(cr report.CountSheetRow) core.Row {
	return dataRow(countColumns, []string{cr.Code, cr.Description, cr.Location, cr.Unit, "____________"}, nil)
}

func dataRow(cols []column, values []string, color *props.Color) core.Row {
	cells := make([]core.Col, 0, len(cols))
	for i, c := range cols {
		cells = append(cells, col.New(c.size).Add(text.New(values[i], props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1, Color: color,
		})))
	}
	return row.New(7).Add(cells...)
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(itemCount int, total string) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(label("Itens:"), text.New("Valor total:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 6,
		})),
		col.New(3).Add(
			text.New(fmt.Sprintf("%d", itemCount), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New(total, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 6,
			}),
		),
	)
}

// signatureRow: espacio para firma del conferente y del responsable.
func signatureRow() core.Row {
	sign := func(label string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{Size: 9, Align: align.Center}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 5, Color: colorGray}),
		)
	}
	return row.New(14).Add(sign("Conferente"), sign("Responsável pelo almoxarifado"))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
