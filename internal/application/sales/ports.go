package sales

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

// TxRunner ejecuta funciones con repositorios de productos, pedidos y pagos atados a una
// misma transacción (RunLedger) o a un snapshot de solo lectura (ReadLedger).
type TxRunner interface {
	RunLedger(ctx context.Context, fn func(
		products repository.ProductRepository,
		orders repository.OrderRepository,
		payments repository.PaymentRepository,
	) error) error
	ReadLedger(ctx context.Context, fn func(
		orders repository.OrderRepository,
		payments repository.PaymentRepository,
	) error) error
}

// StockReserver integra pedidos con el ledger de stock.
// ReserveInTx usa el repositorio del llamador (misma transacción); si retorna error
// (ej: domain.ErrInsufficientStock) el llamador debe hacer rollback.
type StockReserver interface {
	ReserveInTx(
		ctx context.Context,
		products repository.ProductRepository,
		productID string,
		quantity int64,
		now time.Time,
	) (*entity.Product, error)
}
