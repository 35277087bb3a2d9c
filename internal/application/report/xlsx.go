package report

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
)

const stockSheet = "Estoque"

// StockXLSX exporta la posición de estoque filtrada como planilla. Cantidades y valores van como
// números para que se puedan sumar en la planilla.
func (s *Service) StockXLSX(ctx context.Context, q dto.ItemQuery) ([]byte, error) {
	items, err := s.filteredItems(ctx, q)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", stockSheet); err != nil {
		return nil, err
	}

	header := make([]any, len(stockCSVHeader))
	for i, h := range stockCSVHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(stockSheet, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(stockSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	for i, it := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		status := "OK"
		if it.IsLowStock() {
			status = "Estoque baixo"
		}
		row := []any{
			it.Code,
			it.Description,
			it.Category,
			it.Location,
			it.Unit,
			it.Quantity.InexactFloat64(),
			it.MinQuantity.InexactFloat64(),
			it.UnitValue.Round(2).InexactFloat64(),
			it.TotalValue().Round(2).InexactFloat64(),
			status,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(stockSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	// larguras: código, descrição, categoria, localização
	widths := map[string]float64{"A": 12, "B": 40, "C": 16, "D": 16, "J": 14}
	for col, w := range widths {
		if err := f.SetColWidth(stockSheet, col, col, w); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
