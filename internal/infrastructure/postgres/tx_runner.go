package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ventas-ledger/internal/application/analytics"
	"github.com/jhoicas/ventas-ledger/internal/application/inventory"
	"github.com/jhoicas/ventas-ledger/internal/application/sales"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

var (
	_ inventory.TxRunner       = (*TxRunner)(nil)
	_ inventory.SnapshotRunner = (*TxRunner)(nil)
	_ sales.TxRunner           = (*TxRunner)(nil)
	_ analytics.SnapshotRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout > 0 fija lock_timeout en cada
// transacción de escritura; al vencer, la espera de un FOR UPDATE falla con ErrConcurrencyConflict.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run inicia una transacción, ejecuta fn con el repo de productos atado a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(products repository.ProductRepository) error) error {
	return r.write(ctx, func(tx pgx.Tx) error {
		return fn(NewProductRepository(tx))
	})
}

// RunLedger como Run, con productos, pedidos y pagos en la misma transacción.
func (r *TxRunner) RunLedger(ctx context.Context, fn func(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
) error) error {
	return r.write(ctx, func(tx pgx.Tx) error {
		return fn(NewProductRepository(tx), NewOrderRepository(tx), NewPaymentRepository(tx))
	})
}

// ReadLedger pedidos y pagos desde un snapshot REPEATABLE READ de solo lectura.
func (r *TxRunner) ReadLedger(ctx context.Context, fn func(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
) error) error {
	return r.read(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewPaymentRepository(tx))
	})
}

// ReadSnapshot reportes desde un snapshot REPEATABLE READ de solo lectura.
func (r *TxRunner) ReadSnapshot(ctx context.Context, fn func(reports repository.ReportRepository) error) error {
	return r.read(ctx, func(tx pgx.Tx) error {
		return fn(NewReportRepository(tx))
	})
}

func (r *TxRunner) write(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return mapError(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		// SET no admite parámetros; el valor es un entero controlado por la configuración.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return mapError(err, "set lock_timeout")
		}
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "commit transaction")
	}
	return nil
}

func (r *TxRunner) read(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return mapError(err, "begin snapshot")
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(tx); err != nil {
		return err
	}
	return mapError(tx.Commit(ctx), "commit snapshot")
}
