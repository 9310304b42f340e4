package memory

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-memdb"

	"github.com/jhoicas/ventas-ledger/internal/domain"
	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

// PaymentRepository implementación en memoria del puerto de pagos.
type PaymentRepository struct {
	tx *txState
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)

// Create inserta el pago. Toma el lock del pedido: la verificación de duplicado y la
// inserción quedan serializadas con cualquier otro pago del mismo pedido.
func (r *PaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	if err := r.tx.checkWritable(); err != nil {
		return err
	}
	if err := r.tx.lock(ctx, orderKey(p.OrderID)); err != nil {
		return err
	}
	dup, err := r.ExistsByConfirmation(ctx, p.OrderID, p.CodigoConfirmacion)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("%w: código %s", domain.ErrDuplicatePayment, p.CodigoConfirmacion)
	}
	c := *p
	r.tx.payments = append(r.tx.payments, &c)
	rec := newPaymentRecord(&c)
	r.tx.enqueue(func(txn *memdb.Txn) error {
		return txn.Insert(tablePayments, rec)
	})
	return nil
}

// ExistsByConfirmation indica si el par (pedido, código) ya fue aplicado.
func (r *PaymentRepository) ExistsByConfirmation(_ context.Context, orderID, code string) (bool, error) {
	for _, p := range r.tx.payments {
		if p.OrderID == orderID && p.CodigoConfirmacion == code {
			return true, nil
		}
	}
	if _, gone := r.tx.deletedOrders[orderID]; gone {
		return false, nil
	}
	obj, err := r.tx.reader().First(tablePayments, "confirmation", orderID, code)
	if err != nil {
		return false, err
	}
	return obj != nil, nil
}

// ListByOrder pagos del pedido (confirmados más los propios de la transacción).
func (r *PaymentRepository) ListByOrder(_ context.Context, orderID string) ([]*entity.Payment, error) {
	out := make([]*entity.Payment, 0)
	if _, gone := r.tx.deletedOrders[orderID]; gone {
		return out, nil
	}
	it, err := r.tx.reader().Get(tablePayments, "order", orderID)
	if err != nil {
		return nil, err
	}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		c := obj.(*paymentRecord).Payment
		out = append(out, &c)
	}
	for _, p := range r.tx.payments {
		if p.OrderID == orderID {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}
