package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/alumasa/almoxarifado-api/internal/domain"
	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/inventory"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

// MovementRecorder registra entradas y saídas: actualiza el ledger y agrega el movimiento
// al histórico en la misma transacción, bajo el lock del ítem.
type MovementRecorder struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	supplierRepo repository.SupplierRepository
	locker       Locker
	audit        AuditRecorder
	notifier     LowStockNotifier
	loc          *time.Location
	now          func() time.Time
}

// RecorderOption configura opciones del MovementRecorder.
type RecorderOption func(*MovementRecorder)

// WithLocation zona horaria usada para el día calendario del movimiento.
func WithLocation(loc *time.Location) RecorderOption {
	return func(r *MovementRecorder) { r.loc = loc }
}

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) RecorderOption {
	return func(r *MovementRecorder) { r.now = now }
}

// WithLowStockNotifier avisa cuando una saída deja el ítem en o por debajo del mínimo.
func WithLowStockNotifier(n LowStockNotifier) RecorderOption {
	return func(r *MovementRecorder) { r.notifier = n }
}

// NewMovementRecorder construye el caso de uso.
func NewMovementRecorder(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	supplierRepo repository.SupplierRepository,
	locker Locker,
	audit AuditRecorder,
	opts ...RecorderOption,
) *MovementRecorder {
	if audit == nil {
		audit = nopAudit{}
	}
	r := &MovementRecorder{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
		locker:       locker,
		audit:        audit,
		loc:          time.UTC,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EntryInput datos de una entrada. UnitCost es opcional: si viene, recalcula el valor medio.
type EntryInput struct {
	ItemCode   string
	Quantity   decimal.Decimal
	SupplierID string
	UnitCost   *decimal.Decimal
	Actor      string
}

// ExitInput datos de una saída.
type ExitInput struct {
	ItemID      string
	Quantity    decimal.Decimal
	Requester   string
	Responsible string
	Actor       string
}

// RecordEntry registra una entrada. El ítem se resuelve por código exacto.
func (r *MovementRecorder) RecordEntry(ctx context.Context, in EntryInput) (*entity.Movement, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantidade deve ser maior que zero", domain.ErrValidation)
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: custo unitário não pode ser negativo", domain.ErrValidation)
	}
	if err := entity.CheckScale("quantidade", in.Quantity); err != nil {
		return nil, err
	}
	if in.UnitCost != nil {
		if err := entity.CheckScale("custo unitário", *in.UnitCost); err != nil {
			return nil, err
		}
	}
	code := strings.TrimSpace(in.ItemCode)
	if code == "" {
		return nil, fmt.Errorf("%w: código do item é obrigatório", domain.ErrValidation)
	}
	item, err := r.itemRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", domain.ErrNotFound, code)
	}
	supplierID := strings.TrimSpace(in.SupplierID)
	if supplierID != "" {
		supplier, err := r.supplierRepo.GetByID(ctx, supplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, fmt.Errorf("%w: fornecedor %s", domain.ErrNotFound, supplierID)
		}
	}

	release, err := r.locker.Acquire(ctx, ItemLockKey(item.ID))
	if err != nil {
		return nil, err
	}
	defer release()

	now := r.now()
	var mov *entity.Movement
	err = r.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		updated, err := mutateItem(ctx, itemRepo, item.ID, func(it *entity.Item) error {
			if in.UnitCost != nil {
				it.SetUnitValue(inventory.CostCalculator(it.Quantity, it.UnitValue, in.Quantity, *in.UnitCost), now)
			}
			it.ApplyDelta(in.Quantity, now)
			return nil
		})
		if err != nil {
			return err
		}
		unitValue := updated.UnitValue
		if in.UnitCost != nil {
			unitValue = *in.UnitCost
		}
		mov = r.newMovement(updated, entity.DirectionEntry, in.Quantity, unitValue, in.Actor, now)
		mov.SupplierID = supplierID
		return movRepo.Append(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	r.audit.Record(ctx, in.Actor, entity.AuditEntryRecorded,
		fmt.Sprintf("Entrada de %s %s do item %s (%s)", in.Quantity.String(), item.Unit, item.Code, item.Description))
	return mov, nil
}

// RecordExit registra una saída. Falla con ErrInsufficientStock si la cantidad supera el saldo.
func (r *MovementRecorder) RecordExit(ctx context.Context, in ExitInput) (*entity.Movement, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantidade deve ser maior que zero", domain.ErrValidation)
	}
	if err := entity.CheckScale("quantidade", in.Quantity); err != nil {
		return nil, err
	}
	requester := strings.TrimSpace(in.Requester)
	responsible := strings.TrimSpace(in.Responsible)
	if requester == "" {
		return nil, fmt.Errorf("%w: solicitante é obrigatório", domain.ErrValidation)
	}
	if responsible == "" {
		return nil, fmt.Errorf("%w: responsável é obrigatório", domain.ErrValidation)
	}

	release, err := r.locker.Acquire(ctx, ItemLockKey(in.ItemID))
	if err != nil {
		return nil, err
	}
	defer release()

	now := r.now()
	var (
		mov     *entity.Movement
		updated *entity.Item
	)
	err = r.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		var err error
		updated, err = mutateItem(ctx, itemRepo, in.ItemID, func(it *entity.Item) error {
			if in.Quantity.GreaterThan(it.Quantity) {
				return fmt.Errorf("%w: saldo de %s é %s, saída solicitada %s",
					domain.ErrInsufficientStock, it.Code, it.Quantity.String(), in.Quantity.String())
			}
			it.ApplyDelta(in.Quantity.Neg(), now)
			return nil
		})
		if err != nil {
			return err
		}
		mov = r.newMovement(updated, entity.DirectionExit, in.Quantity, updated.UnitValue, in.Actor, now)
		mov.Requester = requester
		mov.Responsible = responsible
		return movRepo.Append(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	r.audit.Record(ctx, in.Actor, entity.AuditExitRecorded,
		fmt.Sprintf("Saída de %s %s do item %s (%s) para %s, responsável %s",
			in.Quantity.String(), updated.Unit, updated.Code, updated.Description, requester, responsible))

	if r.notifier != nil && updated.IsLowStock() {
		if err := r.notifier.NotifyLowStock(ctx, *updated); err != nil {
			log.Warn().Err(err).Str("item_id", updated.ID).Str("code", updated.Code).Msg("no se pudo notificar estoque baixo")
		}
	}
	return mov, nil
}

func (r *MovementRecorder) newMovement(item *entity.Item, dir entity.MovementDirection, qty, unitValue decimal.Decimal, actor string, now time.Time) *entity.Movement {
	return &entity.Movement{
		ID:        uuid.New().String(),
		ItemID:    item.ID,
		ItemCode:  item.Code,
		Direction: dir,
		Quantity:  qty,
		UnitValue: unitValue,
		Date:      entity.CalendarDay(now, r.loc),
		CreatedBy: actor,
		CreatedAt: now,
	}
}
