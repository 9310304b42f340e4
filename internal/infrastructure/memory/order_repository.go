package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/go-memdb"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-ledger/internal/domain"
	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

// OrderRepository implementación en memoria del puerto de pedidos.
type OrderRepository struct {
	tx *txState
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

// Create persiste el pedido con sus líneas.
func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	if err := r.tx.checkWritable(); err != nil {
		return err
	}
	if err := r.tx.lock(ctx, orderKey(o.ID)); err != nil {
		return err
	}
	cur, err := r.GetByID(ctx, o.ID)
	if err != nil {
		return err
	}
	if cur != nil {
		return fmt.Errorf("%w: pedido %s", domain.ErrDuplicate, o.ID)
	}
	r.put(o)
	return nil
}

// GetByID devuelve una copia del pedido o nil si no existe.
func (r *OrderRepository) GetByID(_ context.Context, id string) (*entity.Order, error) {
	if _, gone := r.tx.deletedOrders[id]; gone {
		return nil, nil
	}
	if o, ok := r.tx.orders[id]; ok {
		return o.Clone(), nil
	}
	obj, err := r.tx.reader().First(tableOrders, "id", id)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	o := obj.(*orderRecord).Order
	return o.Clone(), nil
}

// GetForUpdate toma el lock del pedido hasta el fin de la transacción.
func (r *OrderRepository) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	if r.tx.writable {
		if err := r.tx.lock(ctx, orderKey(id)); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// UpdatePaid fija total_pagado; fuera de [0, total] se rechaza.
func (r *OrderRepository) UpdatePaid(ctx context.Context, id string, totalPagado decimal.Decimal, now time.Time) error {
	if err := r.tx.checkWritable(); err != nil {
		return err
	}
	if err := r.tx.lock(ctx, orderKey(id)); err != nil {
		return err
	}
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, id)
	}
	if totalPagado.IsNegative() || totalPagado.GreaterThan(o.Total) {
		return fmt.Errorf("%w: total_pagado %s fuera de [0, %s]", domain.ErrOverpaymentRejected, totalPagado, o.Total)
	}
	o.TotalPagado = totalPagado
	o.UpdatedAt = now
	r.put(o)
	return nil
}

// Delete purga el pedido y sus pagos.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	if err := r.tx.checkWritable(); err != nil {
		return err
	}
	if err := r.tx.lock(ctx, orderKey(id)); err != nil {
		return err
	}
	o, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o == nil {
		return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, id)
	}
	delete(r.tx.orders, id)
	r.tx.deletedOrders[id] = struct{}{}
	kept := r.tx.payments[:0]
	for _, p := range r.tx.payments {
		if p.OrderID != id {
			kept = append(kept, p)
		}
	}
	r.tx.payments = kept

	r.tx.enqueue(func(txn *memdb.Txn) error {
		if _, err := txn.DeleteAll(tablePayments, "order", id); err != nil {
			return err
		}
		obj, err := txn.First(tableOrders, "id", id)
		if err != nil || obj == nil {
			return err
		}
		return txn.Delete(tableOrders, obj)
	})
	return nil
}

// List pedidos por fecha_pedido descendente.
func (r *OrderRepository) List(_ context.Context, limit, offset int) ([]*entity.Order, error) {
	it, err := r.tx.reader().Get(tableOrders, "id")
	if err != nil {
		return nil, err
	}
	all := make([]*entity.Order, 0)
	seen := make(map[string]struct{})
	for obj := it.Next(); obj != nil; obj = it.Next() {
		rec := obj.(*orderRecord)
		if _, gone := r.tx.deletedOrders[rec.ID]; gone {
			continue
		}
		seen[rec.ID] = struct{}{}
		if o, ok := r.tx.orders[rec.ID]; ok {
			all = append(all, o.Clone())
			continue
		}
		o := rec.Order
		all = append(all, o.Clone())
	}
	for id, o := range r.tx.orders {
		if _, ok := seen[id]; !ok {
			all = append(all, o.Clone())
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].FechaPedido.Equal(all[j].FechaPedido) {
			return all[i].ID < all[j].ID
		}
		return all[i].FechaPedido.After(all[j].FechaPedido)
	})
	if offset >= len(all) {
		return []*entity.Order{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *OrderRepository) put(o *entity.Order) {
	c := o.Clone()
	r.tx.orders[c.ID] = c
	rec := newOrderRecord(c)
	r.tx.enqueue(func(txn *memdb.Txn) error {
		return txn.Insert(tableOrders, rec)
	})
}
