package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/ventas-ledger/internal/domain"
)

// lockTable mutex por clave ("producto:<id>", "pedido:<id>").
// Cada entrada es un canal de capacidad 1; las entradas sin usuarios se eliminan.
type lockTable struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	ch   chan struct{}
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{entries: make(map[string]*lockEntry)}
}

func (t *lockTable) ref(key string) *lockEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok {
		e = &lockEntry{ch: make(chan struct{}, 1)}
		t.entries[key] = e
	}
	e.refs++
	return e
}

func (t *lockTable) unref(key string, e *lockEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(t.entries, key)
	}
}

// acquire espera el lock de key hasta timeout o cancelación del contexto.
func (t *lockTable) acquire(ctx context.Context, key string, timeout time.Duration) error {
	e := t.ref(key)
	select {
	case e.ch <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case e.ch <- struct{}{}:
		return nil
	case <-timer.C:
		t.unref(key, e)
		return fmt.Errorf("%w: %s ocupado más de %s", domain.ErrConcurrencyConflict, key, timeout)
	case <-ctx.Done():
		t.unref(key, e)
		return fmt.Errorf("%w: espera de %s interrumpida: %w", domain.ErrConcurrencyConflict, key, ctx.Err())
	}
}

func (t *lockTable) release(key string) {
	t.mu.Lock()
	e := t.entries[key]
	t.mu.Unlock()
	if e == nil {
		return
	}
	<-e.ch
	t.unref(key, e)
}
