package inventory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/ventas-ledger/internal/domain"
	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

// StockLedger es dueño del contador de stock por producto.
// Toda mutación bloquea la fila del producto (GetForUpdate) antes de leer el nivel actual,
// por lo que dos reservas concurrentes sobre el mismo producto quedan linealizadas.
type StockLedger struct {
	txRunner  TxRunner
	snapshots SnapshotRunner
}

// NewStockLedger construye el ledger de stock.
func NewStockLedger(txRunner TxRunner, snapshots SnapshotRunner) *StockLedger {
	return &StockLedger{txRunner: txRunner, snapshots: snapshots}
}

// Reserve descuenta quantity del stock en su propia transacción y devuelve el nuevo nivel.
func (l *StockLedger) Reserve(ctx context.Context, productID string, quantity int64) (int64, error) {
	if productID == "" || quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}
	var level int64
	err := l.txRunner.Run(ctx, func(products repository.ProductRepository) error {
		p, err := l.ReserveInTx(ctx, products, productID, quantity, time.Now().UTC())
		if err != nil {
			return err
		}
		level = p.Stock
		return nil
	})
	if err != nil {
		return 0, err
	}
	return level, nil
}

// ReserveInTx reserva usando el repositorio del llamador (misma transacción).
// Si retorna error el llamador debe hacer rollback; así una orden de N líneas es todo o nada.
func (l *StockLedger) ReserveInTx(
	ctx context.Context,
	products repository.ProductRepository,
	productID string,
	quantity int64,
	now time.Time,
) (*entity.Product, error) {
	p, err := products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	if p.Stock < quantity {
		return nil, fmt.Errorf("%w: producto '%s' disponible %d, solicitado %d",
			domain.ErrInsufficientStock, p.Name, p.Stock, quantity)
	}
	p.Stock -= quantity
	p.UpdatedAt = now
	if err := products.UpdateStock(ctx, p.ID, p.Stock, now); err != nil {
		return nil, err
	}
	return p, nil
}

// Release suma quantity al stock. Solo para corrección administrativa: no existe flujo de
// cancelación de pedidos que devuelva stock.
func (l *StockLedger) Release(ctx context.Context, productID string, quantity int64) (int64, error) {
	if productID == "" || quantity <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return l.mutate(ctx, productID, func(p *entity.Product) error {
		if p.Stock > math.MaxInt64-quantity {
			return fmt.Errorf("%w: stock de %s fuera de rango", domain.ErrInvalidInput, productID)
		}
		p.Stock += quantity
		return nil
	})
}

// SetStock fija el nivel de stock (corrección administrativa directa).
func (l *StockLedger) SetStock(ctx context.Context, productID string, level int64) (int64, error) {
	if productID == "" || level < 0 {
		return 0, domain.ErrInvalidInput
	}
	return l.mutate(ctx, productID, func(p *entity.Product) error {
		p.Stock = level
		return nil
	})
}

func (l *StockLedger) mutate(ctx context.Context, productID string, apply func(p *entity.Product) error) (int64, error) {
	var level int64
	err := l.txRunner.Run(ctx, func(products repository.ProductRepository) error {
		p, err := products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		if err := apply(p); err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := products.UpdateStock(ctx, p.ID, p.Stock, now); err != nil {
			return err
		}
		level = p.Stock
		return nil
	})
	if err != nil {
		return 0, err
	}
	return level, nil
}

// LowStockSnapshot devuelve los productos con stock <= stock_minimo, leídos de un snapshot.
func (l *StockLedger) LowStockSnapshot(ctx context.Context) ([]*entity.Product, error) {
	var list []*entity.Product
	err := l.snapshots.ReadSnapshot(ctx, func(reports repository.ReportRepository) error {
		var err error
		list, err = reports.LowStockProducts(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("stock bajo: %w", err)
	}
	return list, nil
}
