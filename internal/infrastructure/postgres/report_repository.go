package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo agregados de solo lectura. Se construye sobre una tx REPEATABLE READ para que
// todas sus consultas compartan snapshot.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// OrderTotals pedidos con fecha_pedido en [start, end).
func (r *ReportRepo) OrderTotals(ctx context.Context, start, end time.Time) (repository.OrderTotals, error) {
	var out repository.OrderTotals
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total), 0),
		       COUNT(*) FILTER (WHERE estado = 'pagado'),
		       COUNT(*) FILTER (WHERE estado = 'pendiente')
		FROM pedidos
		WHERE fecha_pedido >= $1 AND fecha_pedido < $2`, start, end,
	).Scan(&out.TotalOrders, &out.TotalSales, &out.PaidOrders, &out.PendingOrders)
	if err != nil {
		return out, mapError(err, "totales pedidos")
	}
	return out, nil
}

// PaymentTotals pagos con fecha_pago en [start, end).
func (r *ReportRepo) PaymentTotals(ctx context.Context, start, end time.Time) (repository.PaymentTotals, error) {
	var out repository.PaymentTotals
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(monto), 0)
		FROM pagos
		WHERE fecha_pago >= $1 AND fecha_pago < $2`, start, end,
	).Scan(&out.Count, &out.Total)
	if err != nil {
		return out, mapError(err, "totales pagos")
	}
	return out, nil
}

// PendingTotals pedidos pendientes y saldo total.
func (r *ReportRepo) PendingTotals(ctx context.Context) (repository.PendingTotals, error) {
	var out repository.PendingTotals
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total - total_pagado), 0)
		FROM pedidos WHERE estado = 'pendiente'`,
	).Scan(&out.Count, &out.Outstanding)
	if err != nil {
		return out, mapError(err, "totales pendientes")
	}
	return out, nil
}

// LowStockProducts productos con stock <= stock_minimo.
func (r *ReportRepo) LowStockProducts(ctx context.Context) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM productos
		WHERE stock <= stock_minimo ORDER BY id`)
	if err != nil {
		return nil, mapError(err, "stock bajo")
	}
	defer rows.Close()
	out := make([]*entity.Product, 0)
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.StockMinimo, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, mapError(err, "scan producto")
		}
		out = append(out, &p)
	}
	return out, mapError(rows.Err(), "stock bajo")
}
