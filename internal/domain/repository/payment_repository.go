package repository

import (
	"context"

	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
)

// PaymentRepository puerto de pagos (solo inserción).
type PaymentRepository interface {
	// Create retorna domain.ErrDuplicatePayment si (order_id, codigo_confirmacion) ya existe.
	Create(ctx context.Context, payment *entity.Payment) error
	ExistsByConfirmation(ctx context.Context, orderID, code string) (bool, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Payment, error)
}
