package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
)

// OrderTotals agregados de pedidos creados en un rango.
type OrderTotals struct {
	TotalOrders   int
	TotalSales    decimal.Decimal
	PaidOrders    int
	PendingOrders int
}

// PaymentTotals agregados de pagos registrados en un rango.
type PaymentTotals struct {
	Count int
	Total decimal.Decimal
}

// PendingTotals agregados de pedidos en estado pendiente.
type PendingTotals struct {
	Count       int
	Outstanding decimal.Decimal // Σ (total - total_pagado)
}

// ReportRepository consultas de solo lectura. Una instancia está atada a un único snapshot:
// todas sus consultas ven el mismo punto en el tiempo.
// Los rangos son semiabiertos [start, end).
type ReportRepository interface {
	OrderTotals(ctx context.Context, start, end time.Time) (OrderTotals, error)
	PaymentTotals(ctx context.Context, start, end time.Time) (PaymentTotals, error)
	PendingTotals(ctx context.Context) (PendingTotals, error)
	LowStockProducts(ctx context.Context) ([]*entity.Product, error)
}
