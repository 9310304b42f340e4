// Package ledger es la fachada del ledger de pedidos, stock y pagos: reintenta conflictos de
// concurrencia, emite un evento de auditoría por cada mutación y traduce a DTOs.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/ventas-ledger/internal/application/analytics"
	"github.com/jhoicas/ventas-ledger/internal/application/dto"
	"github.com/jhoicas/ventas-ledger/internal/application/inventory"
	"github.com/jhoicas/ventas-ledger/internal/application/sales"
	"github.com/jhoicas/ventas-ledger/internal/application/usecase"
	"github.com/jhoicas/ventas-ledger/internal/domain"
	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/money"
)

const (
	defaultMaxRetries   = 3
	defaultRetryBackoff = 10 * time.Millisecond
)

// Deps dependencias de la fachada. Audit y Dedup son opcionales.
type Deps struct {
	CreateOrder *sales.CreateOrderUseCase
	Payments    *sales.PaymentEngine
	Orders      *sales.OrderQueryUseCase
	Stock       *inventory.StockLedger
	Reports     *analytics.ReportUseCase
	Audit       AuditSink
	Dedup       PaymentDedup
	Logger      zerolog.Logger
}

// Options reintentos ante domain.ErrConcurrencyConflict.
// MaxRetries es la cantidad de reintentos adicionales (0 = un solo intento).
type Options struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

// Service fachada del ledger.
type Service struct {
	createOrder *sales.CreateOrderUseCase
	payments    *sales.PaymentEngine
	orders      *sales.OrderQueryUseCase
	stock       *inventory.StockLedger
	reports     *analytics.ReportUseCase
	audit       AuditSink
	dedup       PaymentDedup
	log         zerolog.Logger
	opts        Options
	now         func() time.Time
}

// NewService construye la fachada. MaxRetries < 0 usa 3; RetryBackoff <= 0 usa 10ms.
func NewService(d Deps, opts Options) *Service {
	if d.Audit == nil {
		d.Audit = NoopAudit{}
	}
	if d.Dedup == nil {
		d.Dedup = NoopDedup{}
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = defaultRetryBackoff
	}
	return &Service{
		createOrder: d.CreateOrder,
		payments:    d.Payments,
		orders:      d.Orders,
		stock:       d.Stock,
		reports:     d.Reports,
		audit:       d.Audit,
		dedup:       d.Dedup,
		log:         d.Logger,
		opts:        opts,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrder crea el pedido (reserva stock y, si se pidió, aplica el pago inmediato).
func (s *Service) CreateOrder(ctx context.Context, actor entity.Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	var (
		order   *entity.Order
		payment *entity.Payment
	)
	err := s.retry(ctx, func() error {
		var err error
		order, payment, err = s.createOrder.CreateOrder(ctx, toSalesInput(actor, in))
		return err
	})
	entityID := ""
	if order != nil {
		entityID = order.ID
	}
	s.emit(ctx, actor, entity.AuditOrderCreate, entityID, err)
	if err != nil {
		return nil, err
	}
	if payment != nil {
		s.remember(ctx, payment)
	}

	out := toOrderResponse(order)
	if payment != nil {
		p := toPaymentResponse(payment)
		out.Pago = &p
	}
	return out, nil
}

// ApplyPayment aplica un pago a un pedido existente.
func (s *Service) ApplyPayment(ctx context.Context, actor entity.Actor, in dto.RegisterPaymentRequest) (*dto.RegisterPaymentResponse, error) {
	code := strings.TrimSpace(in.CodigoConfirmacion)
	if code != "" && in.PedidoID != "" {
		seen, err := s.dedup.Seen(ctx, in.PedidoID, code)
		if err != nil {
			s.log.Warn().Err(err).Str("pedido_id", in.PedidoID).Msg("caché de pagos no disponible")
		}
		if seen {
			err := fmt.Errorf("%w: código %s ya aplicado al pedido %s", domain.ErrDuplicatePayment, code, in.PedidoID)
			s.emit(ctx, actor, entity.AuditPaymentApply, in.PedidoID, err)
			return nil, err
		}
	}

	var (
		payment *entity.Payment
		order   *entity.Order
	)
	err := s.retry(ctx, func() error {
		var err error
		payment, order, err = s.payments.Apply(ctx, in.PedidoID, sales.PaymentInput{
			Monto:              in.Monto,
			CuentaOrigen:       in.CuentaOrigen,
			CodigoConfirmacion: code,
		}, actor.UserID)
		return err
	})
	s.emit(ctx, actor, entity.AuditPaymentApply, in.PedidoID, err)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, payment)

	return &dto.RegisterPaymentResponse{
		Pago:        toPaymentResponse(payment),
		Estado:      order.Estado(),
		TotalPagado: money.Format(order.TotalPagado),
		Saldo:       money.Format(order.Saldo()),
	}, nil
}

// DeleteOrder purga un pedido con sus pagos. No devuelve stock.
func (s *Service) DeleteOrder(ctx context.Context, actor entity.Actor, id string) error {
	err := s.retry(ctx, func() error { return s.orders.DeleteOrder(ctx, id) })
	s.emit(ctx, actor, entity.AuditOrderDelete, id, err)
	return err
}

// ReleaseStock devuelve unidades al stock (corrección administrativa).
func (s *Service) ReleaseStock(ctx context.Context, actor entity.Actor, productID string, quantity int64) (*dto.StockLevelResponse, error) {
	var level int64
	err := s.retry(ctx, func() error {
		var err error
		level, err = s.stock.Release(ctx, productID, quantity)
		return err
	})
	s.emit(ctx, actor, entity.AuditStockRelease, productID, err)
	if err != nil {
		return nil, err
	}
	return &dto.StockLevelResponse{ProductID: productID, Stock: level}, nil
}

// SetStock fija el nivel de stock (corrección administrativa).
func (s *Service) SetStock(ctx context.Context, actor entity.Actor, productID string, level int64) (*dto.StockLevelResponse, error) {
	var out int64
	err := s.retry(ctx, func() error {
		var err error
		out, err = s.stock.SetStock(ctx, productID, level)
		return err
	})
	s.emit(ctx, actor, entity.AuditStockSet, productID, err)
	if err != nil {
		return nil, err
	}
	return &dto.StockLevelResponse{ProductID: productID, Stock: out}, nil
}

// GetOrder pedido con sus líneas.
func (s *Service) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// ListOrders pedidos del más reciente al más antiguo.
func (s *Service) ListOrders(ctx context.Context, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	list, err := s.orders.ListOrders(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// ListPayments pagos de un pedido.
func (s *Service) ListPayments(ctx context.Context, orderID string) ([]dto.PaymentResponse, error) {
	list, err := s.orders.ListPayments(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentResponse(p))
	}
	return out, nil
}

// GetPaymentSummary estado de cobro de un pedido.
func (s *Service) GetPaymentSummary(ctx context.Context, orderID string) (*dto.PaymentSummaryResponse, error) {
	sum, err := s.orders.PaymentSummary(ctx, orderID)
	if err != nil {
		return nil, err
	}
	pagos := make([]dto.PaymentResponse, 0, len(sum.Payments))
	for _, p := range sum.Payments {
		pagos = append(pagos, toPaymentResponse(p))
	}
	return &dto.PaymentSummaryResponse{
		PedidoID:       sum.Order.ID,
		Total:          money.Format(sum.Order.Total),
		TotalPagado:    money.Format(sum.Order.TotalPagado),
		SaldoPendiente: money.Format(sum.Order.Saldo()),
		Estado:         sum.Order.Estado(),
		CantidadPagos:  len(pagos),
		Pagos:          pagos,
	}, nil
}

// GetDailyStats reporte diario; fecha cero = hoy (UTC).
func (s *Service) GetDailyStats(ctx context.Context, date time.Time) (*dto.DailyStatsResponse, error) {
	if date.IsZero() {
		date = s.now()
	}
	return s.reports.DailyStats(ctx, date)
}

// GetMonthlyStats reporte mensual.
func (s *Service) GetMonthlyStats(ctx context.Context, year, month int) (*dto.MonthlyStatsResponse, error) {
	return s.reports.MonthlyStats(ctx, year, month)
}

// GetPendingSummary pedidos pendientes y saldo total.
func (s *Service) GetPendingSummary(ctx context.Context) (*dto.PendingSummaryResponse, error) {
	return s.reports.PendingSummary(ctx)
}

// GetLowStock productos en o por debajo del stock mínimo.
func (s *Service) GetLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := s.stock.LowStockSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *usecase.ToProductResponse(p))
	}
	return out, nil
}

// retry reintenta fn mientras falle con ErrConcurrencyConflict, con espera lineal.
func (s *Service) retry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) || attempt >= s.opts.MaxRetries {
			return err
		}
		s.log.Debug().Err(err).Int("intento", attempt+1).Msg("conflicto de concurrencia, reintentando")
		select {
		case <-ctx.Done():
			return err
		case <-time.After(s.opts.RetryBackoff * time.Duration(attempt+1)):
		}
	}
}

// emit registra la operación en el log y en el sink de auditoría.
func (s *Service) emit(ctx context.Context, actor entity.Actor, operation, entityID string, opErr error) {
	outcome := entity.AuditOutcomeOK
	if opErr != nil {
		outcome = domain.ErrorCode(opErr)
	}
	ev := s.log.Info()
	if opErr != nil {
		ev = s.log.Warn().Err(opErr)
	}
	ev.Str("op", operation).Str("actor", actor.UserID).Str("entity_id", entityID).Str("outcome", outcome).Msg("ledger")

	err := s.audit.Record(ctx, entity.AuditEvent{
		Actor:     actor.UserID,
		Operation: operation,
		EntityID:  entityID,
		Outcome:   outcome,
		Timestamp: s.now(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("op", operation).Str("entity_id", entityID).Msg("auditoría no registrada")
	}
}

func (s *Service) remember(ctx context.Context, p *entity.Payment) {
	if err := s.dedup.Remember(ctx, p.OrderID, p.CodigoConfirmacion); err != nil {
		s.log.Warn().Err(err).Str("pedido_id", p.OrderID).Msg("caché de pagos no actualizada")
	}
}
