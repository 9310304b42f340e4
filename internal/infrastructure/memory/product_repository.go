package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-memdb"

	"github.com/jhoicas/ventas-ledger/internal/domain"
	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

// ProductRepository implementación en memoria del puerto de productos, atada a una transacción.
type ProductRepository struct {
	tx *txState
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// Create da de alta un producto.
func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	if err := r.tx.checkWritable(); err != nil {
		return err
	}
	if p.Stock < 0 || p.StockMinimo < 0 {
		return fmt.Errorf("%w: stock y stock_minimo no pueden ser negativos", domain.ErrInvalidInput)
	}
	if err := r.tx.lock(ctx, productKey(p.ID)); err != nil {
		return err
	}
	cur, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if cur != nil {
		return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, p.ID)
	}
	r.put(p)
	return nil
}

// GetByID devuelve una copia del producto o nil si no existe.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := r.tx.products[id]; ok {
		c := *p
		return &c, nil
	}
	obj, err := r.tx.reader().First(tableProducts, "id", id)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	c := obj.(*productRecord).Product
	return &c, nil
}

// GetForUpdate toma el lock del producto hasta el fin de la transacción.
func (r *ProductRepository) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if r.tx.writable {
		if err := r.tx.lock(ctx, productKey(id)); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// UpdateStock fija el stock. Un nivel negativo se rechaza como stock insuficiente.
func (r *ProductRepository) UpdateStock(ctx context.Context, id string, stock int64, now time.Time) error {
	if err := r.tx.checkWritable(); err != nil {
		return err
	}
	if stock < 0 {
		return fmt.Errorf("%w: producto %s quedaría en %d", domain.ErrInsufficientStock, id, stock)
	}
	if err := r.tx.lock(ctx, productKey(id)); err != nil {
		return err
	}
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	p.Stock = stock
	p.UpdatedAt = now
	r.put(p)
	return nil
}

func (r *ProductRepository) put(p *entity.Product) {
	c := *p
	r.tx.products[c.ID] = &c
	rec := newProductRecord(&c)
	r.tx.enqueue(func(txn *memdb.Txn) error {
		return txn.Insert(tableProducts, rec)
	})
}

// autoProducts repositorio de productos fuera de transacción: cada escritura confirma sola.
type autoProducts struct {
	store *Store
}

// Products repositorio de catálogo para uso fuera de una transacción del ledger.
func (s *Store) Products() repository.ProductRepository {
	return &autoProducts{store: s}
}

func (a *autoProducts) Create(ctx context.Context, p *entity.Product) error {
	return a.write(ctx, func(r *ProductRepository) error { return r.Create(ctx, p) })
}

func (a *autoProducts) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r := &ProductRepository{tx: a.store.beginRead()}
	return r.GetByID(ctx, id)
}

func (a *autoProducts) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return a.GetByID(ctx, id)
}

func (a *autoProducts) UpdateStock(ctx context.Context, id string, stock int64, now time.Time) error {
	return a.write(ctx, func(r *ProductRepository) error { return r.UpdateStock(ctx, id, stock, now) })
}

func (a *autoProducts) write(ctx context.Context, fn func(r *ProductRepository) error) error {
	tx := a.store.beginWrite()
	defer tx.release()
	if err := fn(&ProductRepository{tx: tx}); err != nil {
		return err
	}
	return tx.commit()
}
