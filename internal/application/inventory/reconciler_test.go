package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/alumasa/almoxarifado-api/internal/application/inventory"
	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/inventory"
	"github.com/alumasa/almoxarifado-api/internal/infrastructure/lock"
	"github.com/alumasa/almoxarifado-api/internal/infrastructure/memory"
)

// Escenario CHP-010: sistema 450, contado "400" → diferencia -50, impacto -425.00.
func TestReconciler_EscenarioCHP010(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chp := f.item(t, "CHP-010")

	s, err := f.reconciler.Start(ctx, "almoxarife")
	require.NoError(t, err)
	assert.Equal(t, appinv.CountCounting, s.State)
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, chp.ID, "400"))

	summary, divs, err := f.reconciler.RequestCommit(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, divs, 1)
	assert.Equal(t, "CHP-010", divs[0].Item.Code)
	assert.Equal(t, "-50", divs[0].Difference.String())
	assert.Equal(t, "-425.00", divs[0].Impact().StringFixed(2))
	assert.Equal(t, 1, summary.DivergenceCount)
	assert.Equal(t, "-425.00", summary.TotalAdjustmentValue.StringFixed(2))

	res, err := f.reconciler.Commit(ctx, s.ID, "almoxarife")
	require.NoError(t, err)
	require.Len(t, res.Adjusted, 1)
	assert.Equal(t, appinv.CountCommitted, res.Session.State)

	chp = f.item(t, "CHP-010")
	assert.True(t, chp.Quantity.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, "3400.00", chp.TotalValue().StringFixed(2))
	assert.Contains(t, f.audit.actions(), entity.AuditCountCommitted)

	_, err = f.reconciler.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "la sesión se limpia al confirmar")
}

func TestReconciler_ValorVacioNoSeAjusta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	par := f.item(t, "PAR-001")
	ved := f.item(t, "VED-031")

	s, err := f.reconciler.Start(ctx, "almoxarife")
	require.NoError(t, err)
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, par.ID, ""))
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, ved.ID, "abc"))

	_, divs, err := f.reconciler.RequestCommit(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, divs)

	res, err := f.reconciler.Commit(ctx, s.ID, "almoxarife")
	require.NoError(t, err)
	assert.Empty(t, res.Adjusted)
	assert.Equal(t, par, f.item(t, "PAR-001"))
	assert.Equal(t, ved, f.item(t, "VED-031"))
}

func TestReconciler_ConteoIgualAlSistemaNoCambiaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	items, err := f.store.Items().List(ctx)
	require.NoError(t, err)

	s, err := f.reconciler.Start(ctx, "almoxarife")
	require.NoError(t, err)
	for _, it := range items {
		require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, it.ID, it.Quantity.String()))
	}
	summary, divs, err := f.reconciler.RequestCommit(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, divs)
	assert.Equal(t, len(items), summary.CountedItems)
	assert.InDelta(t, 100.0, summary.Progress, 0.0001)

	_, err = f.reconciler.Commit(ctx, s.ID, "almoxarife")
	require.NoError(t, err)
	after, err := f.store.Items().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, items, after, "ningún ítem cambia, ni siquiera UpdatedAt")
}

func TestReconciler_SummaryFiltrado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	par := f.item(t, "PAR-001")
	chp := f.item(t, "CHP-010")

	s, err := f.reconciler.Start(ctx, "almoxarife")
	require.NoError(t, err)
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, par.ID, "1490"))
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, chp.ID, "400"))

	summary, divs, err := f.reconciler.Summary(ctx, s.ID, inventory.ItemFilter{Category: "Fixação"})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 1, summary.CountedItems)
	assert.InDelta(t, 33.333, summary.Progress, 0.01)
	require.Len(t, divs, 1)
	assert.Equal(t, "-7.50", summary.TotalAdjustmentValue.StringFixed(2))

	empty, _, err := f.reconciler.Summary(ctx, s.ID, inventory.ItemFilter{Category: "não existe"})
	require.NoError(t, err)
	assert.Zero(t, empty.Progress)
}

func TestReconciler_SetCountedSobrescribeYGuardaCrudo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	par := f.item(t, "PAR-001")

	s, err := f.reconciler.Start(ctx, "almoxarife")
	require.NoError(t, err)
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, par.ID, "10"))
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, par.ID, " 12,5x "))

	got, err := f.reconciler.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, " 12,5x ", got.Counted[par.ID])

	assert.ErrorIs(t, f.reconciler.SetCounted(ctx, s.ID, "id-inexistente", "1"), domain.ErrNotFound)
	assert.ErrorIs(t, f.reconciler.SetCounted(ctx, "sessao-inexistente", par.ID, "1"), domain.ErrNotFound)
}

func TestReconciler_CommitExigeRevision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chp := f.item(t, "CHP-010")

	s, err := f.reconciler.Start(ctx, "almoxarife")
	require.NoError(t, err)
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, chp.ID, "400"))

	_, err = f.reconciler.Commit(ctx, s.ID, "almoxarife")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, _, err = f.reconciler.RequestCommit(ctx, s.ID)
	require.NoError(t, err)
	// Digitar de nuevo vuelve a Counting.
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, chp.ID, "401"))
	got, err := f.reconciler.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, appinv.CountCounting, got.State)
	_, err = f.reconciler.Commit(ctx, s.ID, "almoxarife")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, f.item(t, "CHP-010").Quantity.Equal(decimal.NewFromInt(450)))
}

func TestReconciler_CancelSinEfectos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chp := f.item(t, "CHP-010")

	s, err := f.reconciler.Start(ctx, "almoxarife")
	require.NoError(t, err)
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, chp.ID, "1"))
	_, _, err = f.reconciler.RequestCommit(ctx, s.ID)
	require.NoError(t, err)

	require.NoError(t, f.reconciler.Cancel(ctx, s.ID, "almoxarife"))
	assert.Equal(t, chp, f.item(t, "CHP-010"))
	_, err = f.reconciler.Get(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{entity.AuditCountCancelled}, f.audit.actions())
}

func TestReconciler_MovimentacaoDuranteContagemBloqueaCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chp := f.item(t, "CHP-010")

	s, err := f.reconciler.Start(ctx, "almoxarife")
	require.NoError(t, err)
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, chp.ID, "400"))
	_, _, err = f.reconciler.RequestCommit(ctx, s.ID)
	require.NoError(t, err)

	_, err = f.recorder.RecordExit(ctx, exitOf(chp.ID, "20"))
	require.NoError(t, err)

	_, err = f.reconciler.Commit(ctx, s.ID, "almoxarife")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, f.item(t, "CHP-010").Quantity.Equal(decimal.NewFromInt(430)), "el saldo de la saída no se pisa")

	// La sesión sigue abierta: recontar y confirmar.
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, chp.ID, "400"))
	_, _, err = f.reconciler.RequestCommit(ctx, s.ID)
	require.NoError(t, err)
	_, err = f.reconciler.Commit(ctx, s.ID, "almoxarife")
	require.NoError(t, err)
	assert.True(t, f.item(t, "CHP-010").Quantity.Equal(decimal.NewFromInt(400)))
}

// hookLocker ejecuta onAcquire antes de tomar las claves.
type hookLocker struct {
	appinv.Locker
	onAcquire func()
}

func (h *hookLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	if h.onAcquire != nil {
		fn := h.onAcquire
		h.onAcquire = nil
		fn()
	}
	return h.Locker.Acquire(ctx, keys...)
}

func TestReconciler_SesionBloqueadaDuranteCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	par := f.item(t, "PAR-001")
	chp := f.item(t, "CHP-010")

	locker := &hookLocker{Locker: lock.NewLocalLocker()}
	rec := appinv.NewReconciler(f.store.Items(), memory.NewTxRunner(f.store), locker, f.audit)

	s, err := rec.Start(ctx, "almoxarife")
	require.NoError(t, err)
	require.NoError(t, rec.SetCounted(ctx, s.ID, chp.ID, "400"))
	_, _, err = rec.RequestCommit(ctx, s.ID)
	require.NoError(t, err)

	var setErr, commitErr, cancelErr, requestErr error
	locker.onAcquire = func() {
		setErr = rec.SetCounted(ctx, s.ID, par.ID, "1000")
		_, commitErr = rec.Commit(ctx, s.ID, "almoxarife")
		cancelErr = rec.Cancel(ctx, s.ID, "almoxarife")
		_, _, requestErr = rec.RequestCommit(ctx, s.ID)
	}

	res, err := rec.Commit(ctx, s.ID, "almoxarife")
	require.NoError(t, err)
	assert.ErrorIs(t, setErr, domain.ErrConflict, "no se acepta un valor que no se va a aplicar")
	assert.ErrorIs(t, commitErr, domain.ErrConflict)
	assert.ErrorIs(t, cancelErr, domain.ErrConflict)
	assert.ErrorIs(t, requestErr, domain.ErrConflict)

	assert.Equal(t, appinv.CountCommitted, res.Session.State)
	assert.Equal(t, map[string]string{chp.ID: "400"}, res.Session.Counted)
	assert.True(t, f.item(t, "PAR-001").Quantity.Equal(par.Quantity))
	assert.True(t, f.item(t, "CHP-010").Quantity.Equal(decimal.NewFromInt(400)))
}

func TestReconciler_CommitFallidoVuelveAConfirmPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chp := f.item(t, "CHP-010")

	s, err := f.reconciler.Start(ctx, "almoxarife")
	require.NoError(t, err)
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, chp.ID, "400"))
	_, _, err = f.reconciler.RequestCommit(ctx, s.ID)
	require.NoError(t, err)
	_, err = f.recorder.RecordExit(ctx, exitOf(chp.ID, "5"))
	require.NoError(t, err)

	_, err = f.reconciler.Commit(ctx, s.ID, "almoxarife")
	require.ErrorIs(t, err, domain.ErrConflict)
	got, err := f.reconciler.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, appinv.CountConfirmPending, got.State)
	require.NoError(t, f.reconciler.Cancel(ctx, s.ID, "almoxarife"))
}

func TestReconciler_DescartaSesionesInactivas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := fixedNow
	rec := appinv.NewReconciler(f.store.Items(), memory.NewTxRunner(f.store), lock.NewLocalLocker(), f.audit,
		appinv.WithSessionTTL(time.Hour),
		appinv.WithReconcilerClock(func() time.Time { return now }),
	)

	old, err := rec.Start(ctx, "almoxarife")
	require.NoError(t, err)
	now = now.Add(30 * time.Minute)
	active, err := rec.Start(ctx, "almoxarife")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Open())

	now = now.Add(45 * time.Minute)
	require.NoError(t, rec.SetCounted(ctx, active.ID, f.item(t, "CHP-010").ID, "1"))
	assert.Equal(t, 1, rec.Sweep())
	assert.Equal(t, 1, rec.Open())

	_, err = rec.Get(ctx, old.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = rec.Get(ctx, active.ID)
	assert.NoError(t, err)

	// Start también barre.
	now = now.Add(2 * time.Hour)
	_, err = rec.Start(ctx, "almoxarife")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Open())
}

func TestReconciler_SetCountedRechazaMasDeCuatroCasas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	chp := f.item(t, "CHP-010")

	s, err := f.reconciler.Start(ctx, "almoxarife")
	require.NoError(t, err)
	assert.ErrorIs(t, f.reconciler.SetCounted(ctx, s.ID, chp.ID, "400.00001"), domain.ErrValidation)
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, chp.ID, "400.5"))
	require.NoError(t, f.reconciler.SetCounted(ctx, s.ID, chp.ID, "abc"), "texto livre se guarda e se ignora")
}
