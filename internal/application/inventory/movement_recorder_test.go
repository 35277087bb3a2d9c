package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/alumasa/almoxarifado-api/internal/application/inventory"
	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

func exitOf(itemID, qty string) appinv.ExitInput {
	return appinv.ExitInput{
		ItemID:      itemID,
		Quantity:    decimal.RequireFromString(qty),
		Requester:   "Produção - linha 2",
		Responsible: "João",
		Actor:       "almoxarife",
	}
}

func entryOf(code, qty string) appinv.EntryInput {
	return appinv.EntryInput{ItemCode: code, Quantity: decimal.RequireFromString(qty), Actor: "almoxarife"}
}

func repositoryFilterFor(itemID string) repository.MovementFilter {
	return repository.MovementFilter{ItemID: itemID}
}

// Escenario PAR-001: 1500 → saída 300 → entrada 500 → saída 2000 rechazada.
func TestMovementRecorder_EscenarioPAR001(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	par := f.item(t, "PAR-001")
	require.Equal(t, "1125.00", par.TotalValue().StringFixed(2))

	_, err := f.recorder.RecordExit(ctx, exitOf(par.ID, "300"))
	require.NoError(t, err)
	par = f.item(t, "PAR-001")
	assert.True(t, par.Quantity.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, "900.00", par.TotalValue().StringFixed(2))

	_, err = f.recorder.RecordEntry(ctx, entryOf("PAR-001", "500"))
	require.NoError(t, err)
	par = f.item(t, "PAR-001")
	assert.True(t, par.Quantity.Equal(decimal.NewFromInt(1700)))
	assert.Equal(t, "1275.00", par.TotalValue().StringFixed(2))

	_, err = f.recorder.RecordExit(ctx, exitOf(par.ID, "2000"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	par = f.item(t, "PAR-001")
	assert.True(t, par.Quantity.Equal(decimal.NewFromInt(1700)), "la saída rechazada no altera el ítem")

	movs, err := f.store.Movements().List(ctx, repositoryFilterFor(par.ID))
	require.NoError(t, err)
	assert.Len(t, movs, 2, "la saída rechazada no deja registro")
	assert.Equal(t, []string{entity.AuditExitRecorded, entity.AuditEntryRecorded}, f.audit.actions())
}

func TestMovementRecorder_RegistroDeEntrada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	suppliers, err := f.store.Suppliers().List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, suppliers)

	in := entryOf("REB-005", "10")
	in.SupplierID = suppliers[0].ID
	mov, err := f.recorder.RecordEntry(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, entity.DirectionEntry, mov.Direction)
	assert.Equal(t, "REB-005", mov.ItemCode)
	assert.Equal(t, suppliers[0].ID, mov.SupplierID)
	assert.Equal(t, entity.CalendarDay(fixedNow, nil), mov.Date, "fecha con granularidad de día")
	assert.Equal(t, "almoxarife", mov.CreatedBy)
}

func TestMovementRecorder_EntradaResuelvePorCodigoExacto(t *testing.T) {
	f := newFixture(t)
	_, err := f.recorder.RecordEntry(context.Background(), entryOf("par-001", "1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementRecorder_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	par := f.item(t, "PAR-001")

	for _, qty := range []string{"0", "-5", "0.00001", "1.12345"} {
		_, err := f.recorder.RecordEntry(ctx, entryOf("PAR-001", qty))
		assert.ErrorIs(t, err, domain.ErrValidation, "entrada %s", qty)
		_, err = f.recorder.RecordExit(ctx, exitOf(par.ID, qty))
		assert.ErrorIs(t, err, domain.ErrValidation, "saída %s", qty)
	}

	fine := entryOf("PAR-001", "1")
	cost := decimal.RequireFromString("0.123456")
	fine.UnitCost = &cost
	_, err := f.recorder.RecordEntry(ctx, fine)
	assert.ErrorIs(t, err, domain.ErrValidation, "custo com mais de 4 casas")

	in := entryOf("PAR-001", "1")
	in.SupplierID = "fornecedor-inexistente"
	_, err = f.recorder.RecordEntry(ctx, in)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	noRequester := exitOf(par.ID, "1")
	noRequester.Requester = " "
	_, err = f.recorder.RecordExit(ctx, noRequester)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.recorder.RecordExit(ctx, exitOf("id-inexistente", "1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.True(t, f.item(t, "PAR-001").Quantity.Equal(decimal.NewFromInt(1500)))
	assert.Empty(t, f.audit.actions(), "operaciones fallidas no se auditan")
}

func TestMovementRecorder_SaidaDeTodoElSaldo(t *testing.T) {
	f := newFixture(t)
	rebite := f.item(t, "REB-005")
	_, err := f.recorder.RecordExit(context.Background(), exitOf(rebite.ID, "40"))
	require.NoError(t, err)
	assert.True(t, f.item(t, "REB-005").Quantity.IsZero())
}

func TestMovementRecorder_CostoMedioPonderado(t *testing.T) {
	f := newFixture(t)
	// CHP-010: 450 × 8.50; entran 50 a 10.50 → (3825 + 525) / 500 = 8.70
	in := entryOf("CHP-010", "50")
	in.UnitCost = dec("10.50")
	mov, err := f.recorder.RecordEntry(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "10.5", mov.UnitValue.String())

	chp := f.item(t, "CHP-010")
	assert.Equal(t, "8.7", chp.UnitValue.String())
	assert.Equal(t, "4350.00", chp.TotalValue().StringFixed(2))
}

func TestMovementRecorder_NotificaEstoqueBaixo(t *testing.T) {
	f := newFixture(t)
	par := f.item(t, "PAR-001")

	_, err := f.recorder.RecordExit(context.Background(), exitOf(par.ID, "999"))
	require.NoError(t, err)
	assert.Empty(t, f.notifier.items, "501 sigue por encima del mínimo")

	_, err = f.recorder.RecordExit(context.Background(), exitOf(par.ID, "1"))
	require.NoError(t, err)
	require.Len(t, f.notifier.items, 1, "500 == mínimo")
	assert.Equal(t, "PAR-001", f.notifier.items[0].Code)
}

func TestMovementRecorder_SaidasConcurrentesNoDejanSaldoNegativo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	epi := f.item(t, "EPI-100") // 25 pares

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.recorder.RecordExit(ctx, exitOf(epi.ID, "1"))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				fail++
				return
			}
			ok++
		}()
	}
	wg.Wait()

	assert.Equal(t, 25, ok)
	assert.Equal(t, 15, fail)
	assert.True(t, f.item(t, "EPI-100").Quantity.IsZero())
	movs, err := f.store.Movements().List(ctx, repositoryFilterFor(epi.ID))
	require.NoError(t, err)
	assert.Len(t, movs, 25)
}
