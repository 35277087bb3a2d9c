package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/inventory"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

// CountState estado de una sesión de contagem.
type CountState string

const (
	CountCounting       CountState = "counting"
	CountConfirmPending CountState = "confirm_pending"
	CountCommitting     CountState = "committing"
	CountCommitted      CountState = "committed"
	CountCancelled      CountState = "cancelled"
)

// CountSession sesión de contagem física. Counted guarda el valor digitado tal cual;
// Baseline guarda la cantidad del sistema en el momento de digitarlo.
type CountSession struct {
	ID        string
	State     CountState
	StartedBy string
	StartedAt time.Time
	UpdatedAt time.Time
	Counted   map[string]string
	Baseline  map[string]decimal.Decimal
}

func (s *CountSession) clone() *CountSession {
	c := *s
	c.Counted = make(map[string]string, len(s.Counted))
	for k, v := range s.Counted {
		c.Counted[k] = v
	}
	c.Baseline = make(map[string]decimal.Decimal, len(s.Baseline))
	for k, v := range s.Baseline {
		c.Baseline[k] = v
	}
	return &c
}

// CommitResult ítems ajustados por la confirmación del inventario.
type CommitResult struct {
	Session     *CountSession
	Adjusted    []*entity.Item
	Divergences []inventory.Divergence
	TotalImpact decimal.Decimal
}

// DefaultSessionTTL tiempo sin actividad tras el cual una sesión abierta se descarta.
const DefaultSessionTTL = 24 * time.Hour

// Reconciler conduce las sesiones de contagem:
// Counting → ConfirmPending → Committing → Committed | Cancelled.
// Las sesiones viven solo en memoria; confirmar, cancelar o abandonarlas por más de ttl las elimina del registro.
type Reconciler struct {
	itemRepo repository.ItemRepository
	txRunner TxRunner
	locker   Locker
	audit    AuditRecorder
	now      func() time.Time
	ttl      time.Duration

	mu       sync.Mutex
	sessions map[string]*CountSession
}

// ReconcilerOption configura opciones del Reconciler.
type ReconcilerOption func(*Reconciler)

// WithSessionTTL fija el tiempo de inactividad tras el cual se descarta una sesión.
func WithSessionTTL(ttl time.Duration) ReconcilerOption {
	return func(r *Reconciler) { r.ttl = ttl }
}

// WithReconcilerClock reemplaza el reloj (tests).
func WithReconcilerClock(now func() time.Time) ReconcilerOption {
	return func(r *Reconciler) { r.now = now }
}

// NewReconciler construye el conciliador.
func NewReconciler(itemRepo repository.ItemRepository, txRunner TxRunner, locker Locker, audit AuditRecorder, opts ...ReconcilerOption) *Reconciler {
	if audit == nil {
		audit = nopAudit{}
	}
	r := &Reconciler{
		itemRepo: itemRepo,
		txRunner: txRunner,
		locker:   locker,
		audit:    audit,
		now:      time.Now,
		ttl:      DefaultSessionTTL,
		sessions: make(map[string]*CountSession),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start abre una sesión nueva en estado Counting.
func (r *Reconciler) Start(ctx context.Context, actor string) (*CountSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := r.now()
	s := &CountSession{
		ID:        uuid.New().String(),
		State:     CountCounting,
		StartedBy: actor,
		StartedAt: now,
		UpdatedAt: now,
		Counted:   make(map[string]string),
		Baseline:  make(map[string]decimal.Decimal),
	}
	r.mu.Lock()
	r.sweepLocked(now)
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s.clone(), nil
}

// Sweep descarta las sesiones sin actividad por más de ttl y devuelve cuántas eliminó.
func (r *Reconciler) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

// Open devuelve la cantidad de sesiones registradas.
func (r *Reconciler) Open() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// sweepLocked requiere r.mu tomado. Una sesión en Committing nunca se descarta.
func (r *Reconciler) sweepLocked(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	n := 0
	for id, s := range r.sessions {
		if s.State != CountCommitting && now.Sub(s.UpdatedAt) > r.ttl {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Get devuelve una copia de la sesión.
func (r *Reconciler) Get(_ context.Context, sessionID string) (*CountSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.clone(), nil
}

// SetCounted guarda el valor crudo digitado para el ítem, sobrescribiendo el anterior.
// Si la sesión esperaba confirmación vuelve a Counting. Un número con más de
// entity.DecimalPlaces casas se rechaza con ErrValidation.
func (r *Reconciler) SetCounted(ctx context.Context, sessionID, itemID, raw string) error {
	if v, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil {
		if err := entity.CheckScale("quantidade contada", v); err != nil {
			return err
		}
	}
	item, err := r.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.lookup(sessionID)
	if err != nil {
		return err
	}
	if s.State != CountCounting && s.State != CountConfirmPending {
		return fmt.Errorf("%w: contagem %s", domain.ErrConflict, s.State)
	}
	s.Counted[itemID] = raw
	s.Baseline[itemID] = item.Quantity
	s.State = CountCounting
	s.UpdatedAt = r.now()
	return nil
}

// Summary calcula progreso, divergencias e impacto sobre los ítems que pasan el filtro.
func (r *Reconciler) Summary(ctx context.Context, sessionID string, filter inventory.ItemFilter) (inventory.Summary, []inventory.Divergence, error) {
	s, err := r.Get(ctx, sessionID)
	if err != nil {
		return inventory.Summary{}, nil, err
	}
	items, err := r.itemRepo.List(ctx)
	if err != nil {
		return inventory.Summary{}, nil, err
	}
	filtered := filter.Apply(items)
	return inventory.ComputeSummary(filtered, s.Counted), inventory.ComputeDivergences(filtered, s.Counted), nil
}

// RequestCommit pasa la sesión a ConfirmPending y devuelve el resumen sobre todo el catálogo,
// que es lo que se va a aplicar.
func (r *Reconciler) RequestCommit(ctx context.Context, sessionID string) (inventory.Summary, []inventory.Divergence, error) {
	items, err := r.itemRepo.List(ctx)
	if err != nil {
		return inventory.Summary{}, nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.lookup(sessionID)
	if err != nil {
		return inventory.Summary{}, nil, err
	}
	if s.State != CountCounting && s.State != CountConfirmPending {
		return inventory.Summary{}, nil, fmt.Errorf("%w: contagem %s", domain.ErrConflict, s.State)
	}
	s.State = CountConfirmPending
	s.UpdatedAt = r.now()
	return inventory.ComputeSummary(items, s.Counted), inventory.ComputeDivergences(items, s.Counted), nil
}

// Commit aplica SetQuantity a cada ítem con valor contado válido y distinto del saldo, en una sola
// transacción y con los locks de esos ítems. Si algún ítem se movimentó después de contado, no aplica nada
// (ErrConflict). Es irreversible; la sesión se elimina del registro.
func (r *Reconciler) Commit(ctx context.Context, sessionID, actor string) (*CommitResult, error) {
	r.mu.Lock()
	s, err := r.lookup(sessionID)
	switch {
	case err != nil:
	case s.State == CountCommitting:
		err = fmt.Errorf("%w: contagem já está sendo confirmada", domain.ErrConflict)
	case s.State != CountConfirmPending:
		err = fmt.Errorf("%w: contagem precisa ser revisada antes de confirmar", domain.ErrConflict)
	}
	var snapshot *CountSession
	if err == nil {
		s.State = CountCommitting
		s.UpdatedAt = r.now()
		snapshot = s.clone()
	}
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}
	// Mientras la sesión está en Committing nadie más la modifica; si la aplicación falla vuelve a ConfirmPending.
	committed := false
	defer func() {
		if committed {
			return
		}
		r.mu.Lock()
		if cur, ok := r.sessions[sessionID]; ok && cur.State == CountCommitting {
			cur.State = CountConfirmPending
		}
		r.mu.Unlock()
	}()

	keys := make([]string, 0, len(snapshot.Counted))
	for itemID, raw := range snapshot.Counted {
		if _, ok := inventory.ParseCounted(raw); ok {
			keys = append(keys, ItemLockKey(itemID))
		}
	}
	sort.Strings(keys)
	release, err := r.locker.Acquire(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer release()

	now := r.now()
	res := &CommitResult{TotalImpact: decimal.Zero}
	err = r.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, _ repository.MovementRepository) error {
		res.Adjusted = res.Adjusted[:0]
		items, err := itemRepo.List(ctx)
		if err != nil {
			return err
		}
		divs := inventory.ComputeDivergences(items, snapshot.Counted)
		for _, d := range divs {
			if base, ok := snapshot.Baseline[d.Item.ID]; ok && !base.Equal(d.Item.Quantity) {
				return fmt.Errorf("%w: item %s foi movimentado durante a contagem (saldo contado sobre %s, atual %s)",
					domain.ErrConflict, d.Item.Code, base.String(), d.Item.Quantity.String())
			}
		}
		for _, d := range divs {
			updated, err := setQuantity(ctx, itemRepo, d.Item.ID, d.NewQuantity, now)
			if err != nil {
				return err
			}
			res.Adjusted = append(res.Adjusted, updated)
			res.TotalImpact = res.TotalImpact.Add(d.Impact())
		}
		res.Divergences = divs
		return nil
	})
	if err != nil {
		return nil, err
	}

	committed = true
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
	snapshot.State = CountCommitted
	snapshot.UpdatedAt = now
	res.Session = snapshot

	r.audit.Record(ctx, actor, entity.AuditCountCommitted,
		fmt.Sprintf("Inventário confirmado: %d itens ajustados, impacto total %s", len(res.Adjusted), res.TotalImpact.StringFixed(2)))
	return res, nil
}

// Cancel descarta la sesión sin tocar el ledger.
func (r *Reconciler) Cancel(ctx context.Context, sessionID, actor string) error {
	r.mu.Lock()
	s, err := r.lookup(sessionID)
	if err == nil && s.State == CountCommitting {
		err = fmt.Errorf("%w: contagem já está sendo confirmada", domain.ErrConflict)
	}
	if err == nil {
		s.State = CountCancelled
		delete(r.sessions, sessionID)
	}
	r.mu.Unlock()
	if err != nil {
		return err
	}
	r.audit.Record(ctx, actor, entity.AuditCountCancelled, fmt.Sprintf("Contagem %s cancelada (%d itens digitados)", sessionID, len(s.Counted)))
	return nil
}

// lookup requiere r.mu tomado.
func (r *Reconciler) lookup(sessionID string) (*CountSession, error) {
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: contagem %s", domain.ErrNotFound, sessionID)
	}
	return s, nil
}
