package memory

import (
	"context"

	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

// TxRunner ejecuta callbacks de inventario de forma atómica sobre el Store.
// Las transacciones se serializan con el lock de escritura del store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos atados a una copia del estado; publica la copia solo si fn no devuelve error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	staged := r.s.st.stage()
	a := access{store: r.s, tx: staged}
	if err := fn(&ItemRepo{a: a}, &MovementRepo{a: a}); err != nil {
		return err
	}
	r.s.st = staged
	return nil
}
