package memory

import (
	"context"

	"github.com/jhoicas/ventas-ledger/internal/application/analytics"
	"github.com/jhoicas/ventas-ledger/internal/application/inventory"
	"github.com/jhoicas/ventas-ledger/internal/application/sales"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

// TxRunner implementa los runners de transacción y snapshot sobre el Store.
type TxRunner struct {
	store *Store
}

var (
	_ inventory.TxRunner       = (*TxRunner)(nil)
	_ inventory.SnapshotRunner = (*TxRunner)(nil)
	_ sales.TxRunner           = (*TxRunner)(nil)
	_ analytics.SnapshotRunner = (*TxRunner)(nil)
)

// NewTxRunner crea el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con el repositorio de productos de una transacción.
// Commit si fn retorna nil; en otro caso se descartan las escrituras. Los locks se liberan siempre.
func (r *TxRunner) Run(ctx context.Context, fn func(products repository.ProductRepository) error) error {
	return r.write(ctx, func(tx *txState) error {
		return fn(&ProductRepository{tx: tx})
	})
}

// RunLedger como Run, con pedidos y pagos en la misma transacción.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
) error) error {
	return r.write(ctx, func(tx *txState) error {
		return fn(&ProductRepository{tx: tx}, &OrderRepository{tx: tx}, &PaymentRepository{tx: tx})
	})
}

// ReadLedger lectura de pedidos y pagos sobre un snapshot.
func (r *TxRunner) ReadLedger(ctx context.Context, fn func(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := r.store.beginRead()
	return fn(&OrderRepository{tx: tx}, &PaymentRepository{tx: tx})
}

// ReadSnapshot lectura de reportes sobre un snapshot; no toma locks.
func (r *TxRunner) ReadSnapshot(ctx context.Context, fn func(reports repository.ReportRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := r.store.beginRead()
	return fn(&ReportRepository{tx: tx})
}

func (r *TxRunner) write(ctx context.Context, fn func(tx *txState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := r.store.beginWrite()
	defer tx.release()
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.commit()
}
