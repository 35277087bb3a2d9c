// Package memory implementa los puertos de persistencia sobre estado en memoria.
// Es el backend por defecto del almoxarifado: todo vive en un Store protegido por un RWMutex
// y las transacciones trabajan sobre una copia que solo se publica si el callback termina sin error.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/alumasa/almoxarifado-api/internal/domain/entity"
	"github.com/alumasa/almoxarifado-api/internal/domain/repository"
)

// state son las colecciones del almoxarifado. Los punteros guardados nunca se mutan in-place:
// toda escritura reemplaza el puntero por un clon, así una copia superficial del mapa basta para aislar una tx.
type state struct {
	items     map[string]*entity.Item
	movements []*entity.Movement
	suppliers map[string]*entity.Supplier
	users     map[string]*entity.User
	audit     []*entity.AuditEntry
}

func newState() *state {
	return &state{
		items:     make(map[string]*entity.Item),
		suppliers: make(map[string]*entity.Supplier),
		users:     make(map[string]*entity.User),
	}
}

// stage copia lo que una transacción de inventario puede tocar (ítems y movimientos).
func (s *state) stage() *state {
	st := *s
	st.items = make(map[string]*entity.Item, len(s.items))
	for k, v := range s.items {
		st.items[k] = v
	}
	st.movements = slices.Clip(s.movements)
	return &st
}

// Store es el dueño de las colecciones en memoria.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// read ejecuta fn con lock de lectura.
func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

// write ejecuta fn con lock de escritura.
func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// access abstrae "store compartido" vs "copia de una tx en curso".
// Dentro de una tx el lock ya lo tiene el TxRunner.
type access struct {
	store *Store
	tx    *state
}

func (a access) read(fn func(st *state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	return a.store.read(fn)
}

func (a access) write(fn func(st *state) error) error {
	if a.tx != nil {
		return fn(a.tx)
	}
	return a.store.write(fn)
}

// Items devuelve el repositorio de ítems ligado al store compartido.
func (s *Store) Items() *ItemRepo { return &ItemRepo{a: access{store: s}} }

// Movements devuelve el repositorio del histórico de movimientos.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{a: access{store: s}} }

// Suppliers devuelve el repositorio de fornecedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{a: access{store: s}} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{a: access{store: s}} }

// Audit devuelve el repositorio de auditoría.
func (s *Store) Audit() *AuditRepo { return &AuditRepo{a: access{store: s}} }

// SnapshotStore devuelve el adaptador de backup.
func (s *Store) SnapshotStore() *SnapshotRepo { return &SnapshotRepo{s: s} }

var _ repository.SnapshotStore = (*SnapshotRepo)(nil)

// SnapshotRepo implementa repository.SnapshotStore sobre el Store.
type SnapshotRepo struct {
	s *Store
}

// Snapshot devuelve una copia de ítems, movimientos y usuarios.
func (r *SnapshotRepo) Snapshot(_ context.Context) (*entity.Snapshot, error) {
	snap := &entity.Snapshot{}
	err := r.s.read(func(st *state) error {
		snap.Items = sortedItems(st.items)
		snap.Movements = make([]*entity.Movement, 0, len(st.movements))
		for _, m := range st.movements {
			snap.Movements = append(snap.Movements, m.Clone())
		}
		snap.Users = sortedUsers(st.users)
		return nil
	})
	return snap, err
}

// Replace sustituye ítems, movimientos y usuarios de una sola vez.
// Fornecedores y auditoría no forman parte del backup y se conservan.
func (r *SnapshotRepo) Replace(_ context.Context, snap *entity.Snapshot) error {
	items := make(map[string]*entity.Item, len(snap.Items))
	for _, it := range snap.Items {
		items[it.ID] = it.Clone()
	}
	users := make(map[string]*entity.User, len(snap.Users))
	for _, u := range snap.Users {
		users[u.ID] = u.Clone()
	}
	movements := make([]*entity.Movement, 0, len(snap.Movements))
	for _, m := range snap.Movements {
		movements = append(movements, m.Clone())
	}
	return r.s.write(func(st *state) error {
		st.items = items
		st.users = users
		st.movements = movements
		return nil
	})
}
