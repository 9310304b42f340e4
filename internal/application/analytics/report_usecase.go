// Package analytics contiene el motor de reportes del ledger: agregados diarios, mensuales y
// de saldo pendiente, siempre leídos de un único snapshot consistente.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ventas-ledger/internal/application/dto"
	"github.com/jhoicas/ventas-ledger/internal/domain"
	"github.com/jhoicas/ventas-ledger/internal/domain/money"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

// SnapshotRunner ejecuta lecturas sobre un snapshot consistente sin bloquear escritores.
type SnapshotRunner interface {
	ReadSnapshot(ctx context.Context, fn func(reports repository.ReportRepository) error) error
}

// ReportUseCase genera los reportes del ledger.
//
// Cada reporte hace todas sus consultas dentro de un mismo ReadSnapshot, de modo que
// paid_orders + pending_orders == total_orders aun con pagos en vuelo.
type ReportUseCase struct {
	snapshots SnapshotRunner
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(snapshots SnapshotRunner) *ReportUseCase {
	return &ReportUseCase{snapshots: snapshots}
}

// DailyStats resumen del día calendario UTC que contiene date.
func (uc *ReportUseCase) DailyStats(ctx context.Context, date time.Time) (*dto.DailyStatsResponse, error) {
	d := date.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var (
		orders   repository.OrderTotals
		payments repository.PaymentTotals
	)
	err := uc.snapshots.ReadSnapshot(ctx, func(reports repository.ReportRepository) error {
		var err error
		if orders, err = reports.OrderTotals(ctx, start, end); err != nil {
			return err
		}
		payments, err = reports.PaymentTotals(ctx, start, end)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("estadísticas diarias: %w", err)
	}
	return &dto.DailyStatsResponse{
		Fecha:          start.Format("2006-01-02"),
		TotalOrders:    orders.TotalOrders,
		TotalSales:     money.Format(orders.TotalSales),
		TotalCollected: money.Format(payments.Total),
		PaymentsCount:  payments.Count,
		PaidOrders:     orders.PaidOrders,
		PendingOrders:  orders.PendingOrders,
	}, nil
}

// PendingSummary cantidad de pedidos pendientes y el monto que falta cobrar.
func (uc *ReportUseCase) PendingSummary(ctx context.Context) (*dto.PendingSummaryResponse, error) {
	var pending repository.PendingTotals
	err := uc.snapshots.ReadSnapshot(ctx, func(reports repository.ReportRepository) error {
		var err error
		pending, err = reports.PendingTotals(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("resumen pendientes: %w", err)
	}
	return &dto.PendingSummaryResponse{
		Count:       pending.Count,
		TotalAmount: money.Format(pending.Outstanding),
	}, nil
}

// MonthlyStats resumen del mes calendario UTC.
func (uc *ReportUseCase) MonthlyStats(ctx context.Context, year, month int) (*dto.MonthlyStatsResponse, error) {
	if year < 1 || month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: año/mes inválido", domain.ErrInvalidInput)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var (
		orders   repository.OrderTotals
		payments repository.PaymentTotals
	)
	err := uc.snapshots.ReadSnapshot(ctx, func(reports repository.ReportRepository) error {
		var err error
		if orders, err = reports.OrderTotals(ctx, start, end); err != nil {
			return err
		}
		payments, err = reports.PaymentTotals(ctx, start, end)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("estadísticas mensuales: %w", err)
	}
	return &dto.MonthlyStatsResponse{
		Year:           year,
		Month:          month,
		TotalOrders:    orders.TotalOrders,
		TotalSales:     money.Format(orders.TotalSales),
		TotalCollected: money.Format(payments.Total),
	}, nil
}
