package postgres

import (
	"context"

	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos (solo inserción). UNIQUE (pedido_id, codigo_confirmacion) respalda la idempotencia.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create inserta el pago; la violación del UNIQUE se traduce a domain.ErrDuplicatePayment.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO pagos (id, pedido_id, monto, cuenta_origen, codigo_confirmacion, fecha_pago, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.OrderID, p.Monto, p.CuentaOrigen, p.CodigoConfirmacion, p.FechaPago, p.CreatedBy,
	)
	return mapError(err, "insert pago")
}

// ExistsByConfirmation indica si el código ya fue aplicado al pedido.
func (r *PaymentRepo) ExistsByConfirmation(ctx context.Context, orderID, code string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM pagos WHERE pedido_id = $1 AND codigo_confirmacion = $2)`,
		orderID, code,
	).Scan(&exists)
	if err != nil {
		return false, mapError(err, "exists pago")
	}
	return exists, nil
}

// ListByOrder pagos del pedido por fecha.
func (r *PaymentRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, pedido_id, monto, cuenta_origen, codigo_confirmacion, fecha_pago, created_by
		FROM pagos WHERE pedido_id = $1 ORDER BY fecha_pago, id`, orderID)
	if err != nil {
		return nil, mapError(err, "list pagos")
	}
	defer rows.Close()
	out := make([]*entity.Payment, 0)
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Monto, &p.CuentaOrigen, &p.CodigoConfirmacion, &p.FechaPago, &p.CreatedBy); err != nil {
			return nil, mapError(err, "scan pago")
		}
		p.FechaPago = p.FechaPago.UTC()
		out = append(out, &p)
	}
	return out, mapError(rows.Err(), "list pagos")
}
