package sales

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-ledger/internal/domain"
	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// PaymentSummary estado de cobro de un pedido leído de un único snapshot.
type PaymentSummary struct {
	Order    *entity.Order
	Payments []*entity.Payment
	Pagado   decimal.Decimal // Σ montos de Payments (igual a Order.TotalPagado)
}

// OrderQueryUseCase consultas de pedidos y pagos, y la purga administrativa de pedidos.
type OrderQueryUseCase struct {
	txRunner TxRunner
}

// NewOrderQueryUseCase construye el caso de uso.
func NewOrderQueryUseCase(txRunner TxRunner) *OrderQueryUseCase {
	return &OrderQueryUseCase{txRunner: txRunner}
}

// GetOrder devuelve el pedido con sus líneas.
func (uc *OrderQueryUseCase) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := uc.txRunner.ReadLedger(ctx, func(orders repository.OrderRepository, _ repository.PaymentRepository) error {
		o, err := findOrder(ctx, orders, id)
		if err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListOrders lista pedidos del más reciente al más antiguo.
func (uc *OrderQueryUseCase) ListOrders(ctx context.Context, limit, offset int) ([]*entity.Order, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	var out []*entity.Order
	err := uc.txRunner.ReadLedger(ctx, func(orders repository.OrderRepository, _ repository.PaymentRepository) error {
		list, err := orders.List(ctx, limit, offset)
		if err != nil {
			return err
		}
		out = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListPayments pagos del pedido ordenados por fecha de pago.
func (uc *OrderQueryUseCase) ListPayments(ctx context.Context, orderID string) ([]*entity.Payment, error) {
	summary, err := uc.PaymentSummary(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return summary.Payments, nil
}

// PaymentSummary pedido y pagos leídos del mismo snapshot, para que Σ pagos == total_pagado.
func (uc *OrderQueryUseCase) PaymentSummary(ctx context.Context, orderID string) (*PaymentSummary, error) {
	var out *PaymentSummary
	err := uc.txRunner.ReadLedger(ctx, func(orders repository.OrderRepository, payments repository.PaymentRepository) error {
		o, err := findOrder(ctx, orders, orderID)
		if err != nil {
			return err
		}
		list, err := payments.ListByOrder(ctx, orderID)
		if err != nil {
			return err
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].FechaPago.Before(list[j].FechaPago) })
		pagado := decimal.Zero
		for _, p := range list {
			pagado = pagado.Add(p.Monto)
		}
		out = &PaymentSummary{Order: o, Payments: list, Pagado: pagado}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteOrder purga el pedido con sus líneas y pagos. No devuelve stock: es una corrección
// administrativa, no una devolución.
func (uc *OrderQueryUseCase) DeleteOrder(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: pedido requerido", domain.ErrInvalidInput)
	}
	return uc.txRunner.RunLedger(ctx, func(
		_ repository.ProductRepository,
		orders repository.OrderRepository,
		_ repository.PaymentRepository,
	) error {
		o, err := orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, id)
		}
		return orders.Delete(ctx, id)
	})
}

func findOrder(ctx context.Context, orders repository.OrderRepository, id string) (*entity.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: pedido requerido", domain.ErrInvalidInput)
	}
	o, err := orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: pedido %s", domain.ErrNotFound, id)
	}
	return o, nil
}
