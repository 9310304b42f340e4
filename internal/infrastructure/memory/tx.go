package memory

import (
	"context"
	"errors"

	"github.com/hashicorp/go-memdb"

	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
)

var errReadOnly = errors.New("transacción de solo lectura")

// txState estado de una transacción del store.
//
// Escritura: las lecturas ven el último commit más las escrituras propias (overlay); las
// escrituras se acumulan en ops y se aplican en una única transacción memdb al confirmar.
// Lectura: todas las consultas usan el mismo snapshot (snap).
type txState struct {
	store    *Store
	snap     *memdb.Txn
	writable bool

	held    []string
	heldSet map[string]struct{}

	products      map[string]*entity.Product
	orders        map[string]*entity.Order
	deletedOrders map[string]struct{}
	payments      []*entity.Payment

	ops []func(txn *memdb.Txn) error
}

func (s *Store) beginWrite() *txState {
	return &txState{
		store:         s,
		writable:      true,
		heldSet:       make(map[string]struct{}),
		products:      make(map[string]*entity.Product),
		orders:        make(map[string]*entity.Order),
		deletedOrders: make(map[string]struct{}),
	}
}

func (s *Store) beginRead() *txState {
	return &txState{
		store:         s,
		snap:          s.db.Txn(false),
		heldSet:       make(map[string]struct{}),
		products:      make(map[string]*entity.Product),
		orders:        make(map[string]*entity.Order),
		deletedOrders: make(map[string]struct{}),
	}
}

// reader snapshot fijo en lectura; último commit en escritura.
func (t *txState) reader() *memdb.Txn {
	if t.snap != nil {
		return t.snap
	}
	return t.store.db.Txn(false)
}

func (t *txState) checkWritable() error {
	if !t.writable {
		return errReadOnly
	}
	return nil
}

// lock toma el lock de key una sola vez por transacción; se libera en release.
func (t *txState) lock(ctx context.Context, key string) error {
	if _, ok := t.heldSet[key]; ok {
		return nil
	}
	if err := t.store.locks.acquire(ctx, key, t.store.lockTimeout); err != nil {
		return err
	}
	t.heldSet[key] = struct{}{}
	t.held = append(t.held, key)
	return nil
}

func (t *txState) enqueue(op func(txn *memdb.Txn) error) {
	t.ops = append(t.ops, op)
}

// commit aplica las escrituras acumuladas de forma atómica.
func (t *txState) commit() error {
	if len(t.ops) == 0 {
		return nil
	}
	txn := t.store.db.Txn(true)
	for _, op := range t.ops {
		if err := op(txn); err != nil {
			txn.Abort()
			return err
		}
	}
	txn.Commit()
	t.ops = nil
	return nil
}

func (t *txState) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.store.locks.release(t.held[i])
	}
	t.held = nil
	t.heldSet = map[string]struct{}{}
}

func productKey(id string) string { return "producto:" + id }
func orderKey(id string) string   { return "pedido:" + id }
