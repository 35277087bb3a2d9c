package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appinv "github.com/alumasa/almoxarifado-api/internal/application/inventory"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/infrastructure/lock"
	"github.com/alumasa/almoxarifado-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type recordedAudit struct {
	Actor, Action, Description string
}

// fakeAudit guarda en memoria lo que se audita.
type fakeAudit struct {
	mu      sync.Mutex
	entries []recordedAudit
}

func (f *fakeAudit) Record(_ context.Context, actor, action, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, recordedAudit{actor, action, description})
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeNotifier struct {
	mu    sync.Mutex
	items []entity.Item
}

func (f *fakeNotifier) NotifyLowStock(_ context.Context, item entity.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, item)
	return nil
}

type fixture struct {
	store      *memory.Store
	audit      *fakeAudit
	notifier   *fakeNotifier
	ledger     *appinv.Ledger
	recorder   *appinv.MovementRecorder
	reconciler *appinv.Reconciler
}

var fixedNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

// newFixture arma el motor de inventario sobre el store en memoria con el catálogo de demostración.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	memory.Seed(store, "x", "y", fixedNow.Add(-24*time.Hour))
	locker := lock.NewLocalLocker()
	audit := &fakeAudit{}
	notifier := &fakeNotifier{}
	tx := memory.NewTxRunner(store)
	return &fixture{
		store:    store,
		audit:    audit,
		notifier: notifier,
		ledger:   appinv.NewLedger(store.Items(), locker, audit),
		recorder: appinv.NewMovementRecorder(tx, store.Items(), store.Suppliers(), locker, audit,
			appinv.WithClock(func() time.Time { return fixedNow }),
			appinv.WithLowStockNotifier(notifier),
		),
		reconciler: appinv.NewReconciler(store.Items(), tx, locker, audit),
	}
}

func (f *fixture) item(t *testing.T, code string) *entity.Item {
	t.Helper()
	it, err := f.store.Items().GetByCode(context.Background(), code)
	require.NoError(t, err)
	require.NotNil(t, it, "item %s debe existir en el catálogo de demostración", code)
	return it
}
