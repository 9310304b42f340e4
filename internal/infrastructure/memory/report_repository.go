package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

// ReportRepository consultas de reportes sobre el snapshot de una transacción de lectura.
type ReportRepository struct {
	tx *txState
}

var _ repository.ReportRepository = (*ReportRepository)(nil)

// OrderTotals recorre el índice por día desde el día de start y filtra por [start, end).
func (r *ReportRepository) OrderTotals(_ context.Context, start, end time.Time) (repository.OrderTotals, error) {
	out := repository.OrderTotals{TotalSales: decimal.Zero}
	it, err := r.tx.reader().LowerBound(tableOrders, "day", dayKey(start))
	if err != nil {
		return out, err
	}
	lastDay := dayKey(end)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		rec := obj.(*orderRecord)
		if rec.Day > lastDay {
			break
		}
		if !inRange(rec.Order.FechaPedido, start, end) {
			continue
		}
		out.TotalOrders++
		out.TotalSales = out.TotalSales.Add(rec.Order.Total)
		if rec.Order.Estado() == entity.EstadoPagado {
			out.PaidOrders++
		} else {
			out.PendingOrders++
		}
	}
	return out, nil
}

// PaymentTotals igual que OrderTotals sobre la tabla de pagos.
func (r *ReportRepository) PaymentTotals(_ context.Context, start, end time.Time) (repository.PaymentTotals, error) {
	out := repository.PaymentTotals{Total: decimal.Zero}
	it, err := r.tx.reader().LowerBound(tablePayments, "day", dayKey(start))
	if err != nil {
		return out, err
	}
	lastDay := dayKey(end)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		rec := obj.(*paymentRecord)
		if rec.Day > lastDay {
			break
		}
		if !inRange(rec.Payment.FechaPago, start, end) {
			continue
		}
		out.Count++
		out.Total = out.Total.Add(rec.Payment.Monto)
	}
	return out, nil
}

// PendingTotals usa el índice de estado.
func (r *ReportRepository) PendingTotals(_ context.Context) (repository.PendingTotals, error) {
	out := repository.PendingTotals{Outstanding: decimal.Zero}
	it, err := r.tx.reader().Get(tableOrders, "estado", entity.EstadoPendiente)
	if err != nil {
		return out, err
	}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		rec := obj.(*orderRecord)
		out.Count++
		out.Outstanding = out.Outstanding.Add(rec.Order.Saldo())
	}
	return out, nil
}

// LowStockProducts productos con stock <= stock_minimo, ordenados por ID.
func (r *ReportRepository) LowStockProducts(_ context.Context) ([]*entity.Product, error) {
	it, err := r.tx.reader().Get(tableProducts, "id")
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		p := obj.(*productRecord).Product
		if p.IsLowStock() {
			out = append(out, &p)
		}
	}
	return out, nil
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
