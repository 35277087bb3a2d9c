package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumasa/almoxarifado-api/internal/application/report"
	"github.com/alumasa/almoxarifado-api/internal/infrastructure/pdf"
)

func TestMarotoRenderer_StockPosition(t *testing.T) {
	r := pdf.NewMarotoRenderer("Alumasa")
	out, err := r.StockPositionPDF(context.Background(), report.StockDocument{
		Title:       "Posição de estoque",
		GeneratedAt: "10 de março de 2026",
		Rows: []report.StockRow{
			{Code: "PAR-001", Description: "Parafuso", Location: "Estante A1", Unit: "un", Quantity: "1.200", MinQuantity: "500", UnitValue: "R$ 0,45", TotalValue: "R$ 540,00"},
			{Code: "EPI-100", Description: "Luva de vaqueta", Location: "Armário E1", Unit: "par", Quantity: "25", MinQuantity: "30", UnitValue: "R$ 18,00", TotalValue: "R$ 450,00", LowStock: true},
		},
		ItemCount:  2,
		TotalValue: "R$ 990,00",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMarotoRenderer_CountSheet(t *testing.T) {
	r := pdf.NewMarotoRenderer("Alumasa")
	out, err := r.CountSheetPDF(context.Background(), report.CountSheetDocument{
		Title:       "Folha de contagem",
		Filter:      "categoria Chapas",
		GeneratedAt: "10 de março de 2026",
		Rows:        []report.CountSheetRow{{Code: "CHP-010", Description: "Chapa", Location: "Pátio B", Unit: "un"}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMarotoRenderer_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pdf.NewMarotoRenderer("Alumasa").StockPositionPDF(ctx, report.StockDocument{
		Rows: []report.StockRow{{Code: "X"}},
	})
	assert.ErrorIs(t, err, context.Canceled)
}
