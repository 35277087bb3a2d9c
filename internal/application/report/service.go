// Package report arma los reportes de solo lectura del almoxarifado: posición de estoque,
// estoque baixo, movimientos por período, valorización y dashboard, más sus exportaciones.
package report

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/alumasa/almoxarifado-api/internal/application/dto"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/inventory"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

// Factor del estoque ideal sobre el mínimo para la sugerencia de reposición.
var idealStockFactor = decimal.NewFromFloat(1.5)

// Service reportes; nunca modifica el estado.
type Service struct {
	itemRepo     repository.ItemRepository
	movRepo      repository.MovementRepository
	supplierRepo repository.SupplierRepository
	renderer     PDFRenderer
	loc          *time.Location
	now          func() time.Time
}

// NewService construye el servicio. renderer puede ser nil si no se exporta PDF.
func NewService(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	supplierRepo repository.SupplierRepository,
	renderer PDFRenderer,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		itemRepo:     itemRepo,
		movRepo:      movRepo,
		supplierRepo: supplierRepo,
		renderer:     renderer,
		loc:          loc,
		now:          time.Now,
	}
}

// WithClock reemplaza time.Now (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func filterFromQuery(q dto.ItemQuery) inventory.ItemFilter {
	return inventory.ItemFilter{
		Search:       q.Search,
		Category:     q.Category,
		Location:     q.Location,
		LowStockOnly: q.LowStock,
	}
}

func (s *Service) filteredItems(ctx context.Context, q dto.ItemQuery) ([]*entity.Item, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterFromQuery(q).Apply(items), nil
}

// StockPosition lista paginada de ítems filtrados, con el valor total del conjunto filtrado.
func (s *Service) StockPosition(ctx context.Context, q dto.ItemQuery) (*dto.ItemListResponse, error) {
	q.DefaultPage()
	items, err := s.filteredItems(ctx, q)
	if err != nil {
		return nil, err
	}
	start, end := q.Window(len(items))
	return &dto.ItemListResponse{
		Items:      dto.ItemsFromEntities(items[start:end]),
		Page:       dto.NewPageResponse(q.PageRequest, len(items)),
		TotalValue: totalValue(items),
	}, nil
}

// LowStock ítems con cantidad <= mínimo, ordenados por urgencia (menor proporción cantidad/mínimo primero).
func (s *Service) LowStock(ctx context.Context) ([]dto.LowStockItemResponse, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return lowStock(items), nil
}

func lowStock(items []*entity.Item) []dto.LowStockItemResponse {
	out := make([]dto.LowStockItemResponse, 0)
	ratios := make(map[string]decimal.Decimal)
	for _, it := range items {
		if !it.IsLowStock() {
			continue
		}
		deficit := it.MinQuantity.Sub(it.Quantity)
		if deficit.IsNegative() {
			deficit = decimal.Zero
		}
		suggested := it.MinQuantity.Mul(idealStockFactor).Sub(it.Quantity)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		ratio := decimal.Zero
		if it.MinQuantity.IsPositive() {
			ratio = it.Quantity.Div(it.MinQuantity)
		}
		ratios[it.ID] = ratio
		out = append(out, dto.LowStockItemResponse{
			ItemResponse:      dto.ItemFromEntity(it),
			Deficit:           deficit,
			SuggestedOrderQty: suggested,
			EstimatedCost:     suggested.Mul(it.UnitValue).Round(2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := ratios[out[i].ID], ratios[out[j].ID]
		if !ri.Equal(rj) {
			return ri.LessThan(rj)
		}
		if !out[i].Deficit.Equal(out[j].Deficit) {
			return out[i].Deficit.GreaterThan(out[j].Deficit)
		}
		return out[i].Code < out[j].Code
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out
}

// Movements reporte de movimientos del período [from, to] con totales de entradas y saídas.
// Los movimientos de ítems eliminados aparecen como "item excluído".
func (s *Service) Movements(ctx context.Context, q dto.MovementQuery) (*dto.MovementReportResponse, error) {
	filter, err := s.movementFilter(q)
	if err != nil {
		return nil, err
	}
	movs, err := s.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.supplierRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	supplierNames := make(map[string]string, len(suppliers))
	for _, sp := range suppliers {
		supplierNames[sp.ID] = sp.Name
	}

	res := &dto.MovementReportResponse{
		From:               q.From,
		To:                 q.To,
		Movements:          make([]dto.MovementResponse, 0, len(movs)),
		TotalEntryQuantity: decimal.Zero,
		TotalEntryValue:    decimal.Zero,
		TotalExitQuantity:  decimal.Zero,
		TotalExitValue:     decimal.Zero,
	}
	for _, m := range movs {
		row := dto.MovementFromEntity(m, byID[m.ItemID])
		row.SupplierName = supplierNames[m.SupplierID]
		res.Movements = append(res.Movements, row)
		switch m.Direction {
		case entity.DirectionEntry:
			res.EntryCount++
			res.TotalEntryQuantity = res.TotalEntryQuantity.Add(m.Quantity)
			res.TotalEntryValue = res.TotalEntryValue.Add(m.Value())
		case entity.DirectionExit:
			res.ExitCount++
			res.TotalExitQuantity = res.TotalExitQuantity.Add(m.Quantity)
			res.TotalExitValue = res.TotalExitValue.Add(m.Value())
		}
	}
	return res, nil
}

func (s *Service) movementFilter(q dto.MovementQuery) (repository.MovementFilter, error) {
	from, err := dto.ParseDay(q.From, s.loc)
	if err != nil {
		return repository.MovementFilter{}, err
	}
	to, err := dto.ParseDay(q.To, s.loc)
	if err != nil {
		return repository.MovementFilter{}, err
	}
	return repository.MovementFilter{
		ItemID:    strings.TrimSpace(q.ItemID),
		Direction: entity.MovementDirection(q.Direction),
		From:      from,
		To:        to,
	}, nil
}

// Valuation valor del estoque por localización y por categoría.
func (s *Service) Valuation(ctx context.Context) (*dto.ValuationResponse, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	grand := totalValue(items)
	return &dto.ValuationResponse{
		ByLocation: groupValue(items, grand, func(it *entity.Item) string { return it.Location }),
		ByCategory: groupValue(items, grand, func(it *entity.Item) string { return it.Category }),
		GrandTotal: grand,
	}, nil
}

func groupValue(items []*entity.Item, grand decimal.Decimal, key func(*entity.Item) string) []dto.ValuationGroup {
	idx := make(map[string]int)
	out := make([]dto.ValuationGroup, 0)
	for _, it := range items {
		k := key(it)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, dto.ValuationGroup{Key: k, TotalValue: decimal.Zero})
		}
		out[i].ItemCount++
		out[i].TotalValue = out[i].TotalValue.Add(it.TotalValue())
	}
	hundred := decimal.NewFromInt(100)
	for i := range out {
		if grand.IsPositive() {
			out[i].Share = out[i].TotalValue.Div(grand).Mul(hundred).Round(2)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].TotalValue.Equal(out[j].TotalValue) {
			return out[i].TotalValue.GreaterThan(out[j].TotalValue)
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Dashboard KPIs del almoxarifado. Catálogo y movimientos del día se consultan en paralelo.
func (s *Service) Dashboard(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := s.now().In(s.loc)
	today := entity.CalendarDay(now, s.loc)
	out := &dto.DashboardSummaryDTO{TotalValue: decimal.Zero, DateLabel: DateLabel(now)}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.itemRepo.List(ctx)
		if err != nil {
			return err
		}
		out.ItemCount = len(items)
		for _, it := range items {
			out.TotalValue = out.TotalValue.Add(it.TotalValue())
		}
		low := lowStock(items)
		out.LowStockCount = len(low)
		if len(low) > 5 {
			low = low[:5]
		}
		out.LowStock = low
		return nil
	})
	g.Go(func() error {
		movs, err := s.movRepo.List(ctx, repository.MovementFilter{From: &today, To: &today})
		if err != nil {
			return err
		}
		for _, m := range movs {
			if m.Direction == entity.DirectionEntry {
				out.EntriesToday++
			} else {
				out.ExitsToday++
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
