// Package lock implementa exclusión mutua por clave para el motor de inventario:
// en proceso (LocalLocker) o distribuida sobre Redis (RedisLocker).
package lock

import (
	"context"
	"sort"
	"sync"
)

// slot semáforo de capacidad 1 con la cantidad de Acquire que lo referencian (dueño y en espera).
type slot struct {
	ch   chan struct{}
	refs int
}

// LocalLocker locks por clave dentro del proceso. Cada clave es un semáforo de capacidad 1,
// así la espera respeta la cancelación del contexto. El slot se borra cuando nadie lo referencia.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

// NewLocalLocker construye el locker en memoria.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]*slot)}
}

func (l *LocalLocker) ref(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) unref(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// Len devuelve la cantidad de claves tomadas o esperadas.
func (l *LocalLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

// Acquire bloquea todas las claves (en orden para evitar deadlocks) y devuelve la función de liberación.
func (l *LocalLocker) Acquire(ctx context.Context, keys ...string) (func(), error) {
	keys = normalizeKeys(keys)
	held := make([]string, 0, len(keys))
	slots := make([]*slot, 0, len(keys))
	var once sync.Once
	release := func() {
		once.Do(func() {
			for i := len(slots) - 1; i >= 0; i-- {
				<-slots[i].ch
				l.unref(held[i], slots[i])
			}
		})
	}
	for _, k := range keys {
		s := l.ref(k)
		select {
		case s.ch <- struct{}{}:
			held = append(held, k)
			slots = append(slots, s)
		case <-ctx.Done():
			l.unref(k, s)
			release()
			return nil, ctx.Err()
		}
	}
	return release, nil
}

// normalizeKeys ordena y quita duplicados.
func normalizeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
