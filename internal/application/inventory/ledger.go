package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/inventory"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

// Ledger es el dueño de cantidad y valor de cada ítem del catálogo.
// Los escritores (MovementRecorder y Reconciler) pasan siempre por sus operaciones.
type Ledger struct {
	itemRepo repository.ItemRepository
	locker   Locker
	audit    AuditRecorder
	now      func() time.Time
}

// NewLedger construye el ledger. audit puede ser nil.
func NewLedger(itemRepo repository.ItemRepository, locker Locker, audit AuditRecorder) *Ledger {
	if audit == nil {
		audit = nopAudit{}
	}
	return &Ledger{itemRepo: itemRepo, locker: locker, audit: audit, now: time.Now}
}

// GetItem busca un ítem por id y, si no existe, por código exacto.
func (l *Ledger) GetItem(ctx context.Context, idOrCode string) (*entity.Item, error) {
	item, err := l.itemRepo.GetByID(ctx, idOrCode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item, err = l.itemRepo.GetByCode(ctx, idOrCode)
		if err != nil {
			return nil, err
		}
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, idOrCode)
	}
	return item, nil
}

// ListItems devuelve los ítems que pasan el filtro, ordenados por código.
func (l *Ledger) ListItems(ctx context.Context, filter inventory.ItemFilter) ([]*entity.Item, error) {
	items, err := l.itemRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(items), nil
}

// ApplyDelta suma delta (con signo) a la cantidad del ítem. No valida signo.
func (l *Ledger) ApplyDelta(ctx context.Context, itemID string, delta decimal.Decimal) (*entity.Item, error) {
	release, err := l.locker.Acquire(ctx, ItemLockKey(itemID))
	if err != nil {
		return nil, err
	}
	defer release()
	return applyDelta(ctx, l.itemRepo, itemID, delta, l.now())
}

// SetQuantity sobrescribe la cantidad del ítem.
func (l *Ledger) SetQuantity(ctx context.Context, itemID string, qty decimal.Decimal) (*entity.Item, error) {
	release, err := l.locker.Acquire(ctx, ItemLockKey(itemID))
	if err != nil {
		return nil, err
	}
	defer release()
	return setQuantity(ctx, l.itemRepo, itemID, qty, l.now())
}

// CreateItem valida el borrador y registra el ítem. El código no puede repetirse (sin distinguir mayúsculas).
func (l *Ledger) CreateItem(ctx context.Context, actor string, draft entity.ItemDraft) (*entity.Item, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	existing, err := l.itemRepo.GetByNormalizedCode(ctx, draft.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateCode, existing.Code)
	}
	item, err := draft.Build(uuid.New().String(), l.now())
	if err != nil {
		return nil, err
	}
	if err := l.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	l.audit.Record(ctx, actor, entity.AuditItemCreated,
		fmt.Sprintf("Item %s (%s) cadastrado com quantidade %s", item.Code, item.Description, item.Quantity.String()))
	return item, nil
}

// UpdateItem aplica el patch sobre los datos descriptivos, el mínimo y el valor unitario.
func (l *Ledger) UpdateItem(ctx context.Context, actor, itemID string, patch entity.ItemPatch) (*entity.Item, error) {
	release, err := l.locker.Acquire(ctx, ItemLockKey(itemID))
	if err != nil {
		return nil, err
	}
	defer release()

	item, err := l.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
	}
	if err := patch.Apply(item, l.now()); err != nil {
		return nil, err
	}
	if err := l.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	l.audit.Record(ctx, actor, entity.AuditItemUpdated, fmt.Sprintf("Item %s editado", item.Code))
	return item, nil
}

// DeleteItem elimina el ítem del catálogo. El histórico de movimientos se conserva.
func (l *Ledger) DeleteItem(ctx context.Context, actor, itemID string) error {
	release, err := l.locker.Acquire(ctx, ItemLockKey(itemID))
	if err != nil {
		return err
	}
	defer release()

	item, err := l.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
	}
	if err := l.itemRepo.Delete(ctx, itemID); err != nil {
		return err
	}
	l.audit.Record(ctx, actor, entity.AuditItemDeleted, fmt.Sprintf("Item %s (%s) excluído", item.Code, item.Description))
	return nil
}

// mutateItem lee el ítem con bloqueo de fila, aplica fn y persiste. Usado también dentro de transacciones.
func mutateItem(ctx context.Context, repo repository.ItemRepository, itemID string, fn func(item *entity.Item) error) (*entity.Item, error) {
	item, err := repo.GetForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, itemID)
	}
	if err := fn(item); err != nil {
		return nil, err
	}
	if err := repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func applyDelta(ctx context.Context, repo repository.ItemRepository, itemID string, delta decimal.Decimal, now time.Time) (*entity.Item, error) {
	return mutateItem(ctx, repo, itemID, func(item *entity.Item) error {
		item.ApplyDelta(delta, now)
		return nil
	})
}

func setQuantity(ctx context.Context, repo repository.ItemRepository, itemID string, qty decimal.Decimal, now time.Time) (*entity.Item, error) {
	return mutateItem(ctx, repo, itemID, func(item *entity.Item) error {
		item.SetQuantity(qty, now)
		return nil
	})
}
