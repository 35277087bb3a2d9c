package report_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
	"github.com/alumasa/almoxarifado-api/internal/application/report"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/infrastructure/memory"
)

var reportNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeRenderer struct {
	stock report.StockDocument
	sheet report.CountSheetDocument
}

func (f *fakeRenderer) StockPositionPDF(_ context.Context, doc report.StockDocument) ([]byte, error) {
	f.stock = doc
	return []byte("%PDF-stock"), nil
}

func (f *fakeRenderer) CountSheetPDF(_ context.Context, doc report.CountSheetDocument) ([]byte, error) {
	f.sheet = doc
	return []byte("%PDF-sheet"), nil
}

func newReportService(t *testing.T) (*report.Service, *memory.Store, *fakeRenderer) {
	t.Helper()
	store := memory.NewStore()
	memory.Seed(store, "a", "b", reportNow.Add(-48*time.Hour))
	r := &fakeRenderer{}
	svc := report.NewService(store.Items(), store.Movements(), store.Suppliers(), r, time.UTC).
		WithClock(func() time.Time { return reportNow })
	return svc, store, r
}

func mustItem(t *testing.T, store *memory.Store, code string) *entity.Item {
	t.Helper()
	it, err := store.Items().GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it
}

func appendMovement(t *testing.T, store *memory.Store, id string, it *entity.Item, dir entity.MovementDirection, qty string, day time.Time) {
	t.Helper()
	require.NoError(t, store.Movements().Append(context.Background(), &entity.Movement{
		ID:        id,
		ItemID:    it.ID,
		ItemCode:  it.Code,
		Direction: dir,
		Quantity:  decimal.RequireFromString(qty),
		UnitValue: it.UnitValue,
		Date:      entity.CalendarDay(day, time.UTC),
		CreatedBy: "almoxarife",
		CreatedAt: day,
	}))
}

func TestService_StockPositionPaginado(t *testing.T) {
	svc, _, _ := newReportService(t)
	res, err := svc.StockPosition(context.Background(), dto.ItemQuery{PageRequest: dto.PageRequest{Limit: 3}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 3)
	assert.Equal(t, 8, res.Page.Total)
	assert.Equal(t, 3, res.Page.TotalPages)
	assert.Equal(t, "27467.40", res.TotalValue.StringFixed(2), "total del conjunto filtrado, no de la página")

	last, err := svc.StockPosition(context.Background(), dto.ItemQuery{PageRequest: dto.PageRequest{Limit: 3, Offset: 6}})
	require.NoError(t, err)
	assert.Len(t, last.Items, 2)

	beyond, err := svc.StockPosition(context.Background(), dto.ItemQuery{PageRequest: dto.PageRequest{Limit: 3, Offset: 50}})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
}

func TestService_LowStockOrdenadoPorUrgencia(t *testing.T) {
	svc, _, _ := newReportService(t)
	low, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)

	assert.Equal(t, "EPI-100", low[0].Code)
	assert.Equal(t, 1, low[0].Priority)
	assert.Equal(t, "5", low[0].Deficit.String())
	assert.Equal(t, "20", low[0].SuggestedOrderQty.String())
	assert.Equal(t, "360.00", low[0].EstimatedCost.StringFixed(2))

	assert.Equal(t, "SIL-040", low[1].Code)
	assert.Equal(t, "597.60", low[1].EstimatedCost.StringFixed(2))
}

func TestService_MovementsDelPeriodoConItemExcluido(t *testing.T) {
	svc, store, _ := newReportService(t)
	ctx := context.Background()
	par := mustItem(t, store, "PAR-001")
	chp := mustItem(t, store, "CHP-010")
	epi := mustItem(t, store, "EPI-100")

	appendMovement(t, store, "m1", par, entity.DirectionEntry, "100", reportNow.AddDate(0, 0, -1))
	appendMovement(t, store, "m2", chp, entity.DirectionExit, "10", reportNow)
	appendMovement(t, store, "m3", epi, entity.DirectionExit, "2", reportNow)
	require.NoError(t, store.Items().Delete(ctx, epi.ID))

	rep, err := svc.Movements(ctx, dto.MovementQuery{From: "2026-03-10", To: "2026-03-10"})
	require.NoError(t, err)
	require.Len(t, rep.Movements, 2)
	assert.Equal(t, 2, rep.ExitCount)
	assert.Zero(t, rep.EntryCount)
	assert.Equal(t, "121.00", rep.TotalExitValue.StringFixed(2)) // 10 × 8.50 + 2 × 18.00

	var orphan dto.MovementResponse
	for _, m := range rep.Movements {
		if m.ItemCode == "EPI-100" {
			orphan = m
		}
	}
	assert.True(t, orphan.ItemDeleted)
	assert.Equal(t, dto.DeletedItemLabel, orphan.ItemDescription)

	all, err := svc.Movements(ctx, dto.MovementQuery{Direction: "entry"})
	require.NoError(t, err)
	require.Len(t, all.Movements, 1)
	assert.Equal(t, "75.00", all.TotalEntryValue.StringFixed(2))

	_, err = svc.Movements(ctx, dto.MovementQuery{From: "ontem"})
	assert.Error(t, err)
}

func TestService_Valuation(t *testing.T) {
	svc, _, _ := newReportService(t)
	v, err := svc.Valuation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "27467.40", v.GrandTotal.StringFixed(2))

	require.NotEmpty(t, v.ByLocation)
	assert.Equal(t, "Pátio C", v.ByLocation[0].Key)
	assert.Equal(t, "17352.00", v.ByLocation[0].TotalValue.StringFixed(2))

	var fix dto.ValuationGroup
	for _, g := range v.ByCategory {
		if g.Key == "Fixação" {
			fix = g
		}
	}
	assert.Equal(t, 3, fix.ItemCount)
	assert.Equal(t, "3017.00", fix.TotalValue.StringFixed(2))
}

func TestService_Dashboard(t *testing.T) {
	svc, store, _ := newReportService(t)
	chp := mustItem(t, store, "CHP-010")
	appendMovement(t, store, "m1", chp, entity.DirectionExit, "1", reportNow)
	appendMovement(t, store, "m2", chp, entity.DirectionEntry, "1", reportNow)
	appendMovement(t, store, "m3", chp, entity.DirectionEntry, "1", reportNow.AddDate(0, 0, -3))

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, d.ItemCount)
	assert.Equal(t, 2, d.LowStockCount)
	assert.Equal(t, 1, d.EntriesToday)
	assert.Equal(t, 1, d.ExitsToday)
	assert.Equal(t, "10 de março de 2026", d.DateLabel)
}

func TestService_StockCSV(t *testing.T) {
	svc, _, _ := newReportService(t)
	out, err := svc.StockCSV(context.Background(), dto.ItemQuery{Category: "Fixação"})
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))

	lines := strings.Split(strings.TrimSpace(string(out[3:])), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Código;Descrição;"))
	assert.Equal(t, "PAR-001;Parafuso sextavado M8 x 30 zincado;Fixação;Estante A1;un;1.500;500;0,75;1.125,00;OK", lines[1])
}

func TestService_StockXML(t *testing.T) {
	svc, _, _ := newReportService(t)
	out, err := svc.StockXML(context.Background(), dto.ItemQuery{Search: "CHP"})
	require.NoError(t, err)
	xml := string(out)
	assert.Contains(t, xml, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, xml, `codigo="CHP-010"`)
	assert.Contains(t, xml, `<valor_total>3825.00</valor_total>`)
	assert.Contains(t, xml, `<valor_total_geral>3825.00</valor_total_geral>`)
}

func TestService_StockXLSX(t *testing.T) {
	svc, _, _ := newReportService(t)
	out, err := svc.StockXLSX(context.Background(), dto.ItemQuery{Search: "CHP"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Estoque")
	require.NoError(t, err)
	require.Len(t, rows, 2, "cabeçalho + CHP-010")
	assert.Equal(t, "Código", rows[0][0])
	assert.Equal(t, "CHP-010", rows[1][0])
	assert.Equal(t, "3825", rows[1][8])
}

func TestService_PDFs(t *testing.T) {
	svc, _, r := newReportService(t)
	ctx := context.Background()

	out, err := svc.StockPDF(ctx, dto.ItemQuery{})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-stock", string(out))
	assert.Len(t, r.stock.Rows, 8)
	assert.Equal(t, "Todos os itens", r.stock.Filter)
	assert.Equal(t, "R$ 27.467,40", r.stock.TotalValue)

	_, err = svc.CountSheetPDF(ctx, dto.ItemQuery{Location: "Estante A1"})
	require.NoError(t, err)
	assert.Len(t, r.sheet.Rows, 2)
	assert.Equal(t, "Localização: Estante A1", r.sheet.Filter)

	noPDF := report.NewService(nil, nil, nil, nil, nil)
	_, err = noPDF.StockPDF(ctx, dto.ItemQuery{})
	assert.ErrorIs(t, err, report.ErrPDFUnavailable)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "R$ 1.125,00", report.FormatMoney(decimal.RequireFromString("1125")))
	assert.Equal(t, "-425,00", report.FormatDecimal(decimal.RequireFromString("-425"), 2))
	assert.Equal(t, "1.700", report.FormatQuantity(decimal.RequireFromString("1700")))
	assert.Equal(t, "12,5", report.FormatQuantity(decimal.RequireFromString("12.5")))
}
