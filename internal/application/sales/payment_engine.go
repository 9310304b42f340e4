package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-ledger/internal/domain"
	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/money"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

// PaymentInput datos de un pago a aplicar.
type PaymentInput struct {
	Monto              decimal.Decimal
	CuentaOrigen       string
	CodigoConfirmacion string
}

// PaymentEngine valida y aplica pagos contra un pedido.
// El incremento de total_pagado ocurre con la fila del pedido bloqueada, de modo que dos pagos
// parciales concurrentes que juntos excedan el saldo no pueden aplicarse ambos.
type PaymentEngine struct {
	txRunner TxRunner
}

// NewPaymentEngine construye el motor de pagos.
func NewPaymentEngine(txRunner TxRunner) *PaymentEngine {
	return &PaymentEngine{txRunner: txRunner}
}

// Apply aplica un pago al pedido orderID en su propia transacción.
// Devuelve el pago creado y el pedido con el total pagado actualizado.
func (e *PaymentEngine) Apply(ctx context.Context, orderID string, in PaymentInput, actor string) (*entity.Payment, *entity.Order, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, nil, fmt.Errorf("%w: pedido requerido", domain.ErrInvalidInput)
	}
	if err := validatePayment(in); err != nil {
		return nil, nil, err
	}
	var (
		payment *entity.Payment
		order   *entity.Order
	)
	err := e.txRunner.RunLedger(ctx, func(
		_ repository.ProductRepository,
		orders repository.OrderRepository,
		payments repository.PaymentRepository,
	) error {
		o, err := orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, orderID)
		}
		p, err := e.ApplyInTx(ctx, orders, payments, o, in, actor, time.Now().UTC())
		if err != nil {
			return err
		}
		payment, order = p, o
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return payment, order, nil
}

// ApplyInTx aplica el pago sobre un pedido ya bloqueado por el llamador.
// Orden de validación: duplicado antes que saldo, para que el reintento de un pago que
// completó el pedido se reporte como duplicado y no como sobrepago.
// Al terminar, order.TotalPagado refleja el nuevo total (y Estado() el nuevo estado).
func (e *PaymentEngine) ApplyInTx(
	ctx context.Context,
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	order *entity.Order,
	in PaymentInput,
	actor string,
	now time.Time,
) (*entity.Payment, error) {
	in.CuentaOrigen = strings.TrimSpace(in.CuentaOrigen)
	in.CodigoConfirmacion = strings.TrimSpace(in.CodigoConfirmacion)
	if err := validatePayment(in); err != nil {
		return nil, err
	}
	dup, err := payments.ExistsByConfirmation(ctx, order.ID, in.CodigoConfirmacion)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, fmt.Errorf("%w: código %s ya aplicado al pedido %s",
			domain.ErrDuplicatePayment, in.CodigoConfirmacion, order.ID)
	}
	saldo := order.Saldo()
	if in.Monto.GreaterThan(saldo) {
		return nil, fmt.Errorf("%w: saldo pendiente %s", domain.ErrOverpaymentRejected, money.Format(saldo))
	}

	payment := &entity.Payment{
		ID:                 uuid.New().String(),
		OrderID:            order.ID,
		Monto:              in.Monto,
		CuentaOrigen:       in.CuentaOrigen,
		CodigoConfirmacion: in.CodigoConfirmacion,
		FechaPago:          now,
		CreatedBy:          actor,
	}
	if err := payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	newPaid := order.TotalPagado.Add(in.Monto)
	if err := orders.UpdatePaid(ctx, order.ID, newPaid, now); err != nil {
		return nil, err
	}
	order.TotalPagado = newPaid
	order.UpdatedAt = now
	return payment, nil
}

func validatePayment(in PaymentInput) error {
	if !money.IsPositiveAmount(in.Monto) {
		return fmt.Errorf("%w: monto debe ser positivo con máximo %d decimales", domain.ErrInvalidInput, money.Scale)
	}
	if strings.TrimSpace(in.CuentaOrigen) == "" || len(in.CuentaOrigen) > 100 {
		return fmt.Errorf("%w: cuenta_origen requerida (máx. 100)", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.CodigoConfirmacion) == "" {
		return fmt.Errorf("%w: codigo_confirmacion requerido", domain.ErrInvalidInput)
	}
	return nil
}
