package sales

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-ledger/internal/domain"
	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/money"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

// LineInput línea solicitada. Si PrecioUnitario es nil se toma el precio vigente del catálogo.
type LineInput struct {
	ProductID      string
	Cantidad       int64
	PrecioUnitario *decimal.Decimal
}

// CreateOrderInput entrada para crear un pedido.
type CreateOrderInput struct {
	ClienteID     string
	Lines         []LineInput
	PagoInmediato bool
	Pago          *PaymentInput
	Actor         string
}

// CreateOrderUseCase crea un pedido y reserva el stock de todas sus líneas en una sola transacción.
type CreateOrderUseCase struct {
	txRunner TxRunner
	stock    StockReserver
	payments *PaymentEngine
}

// NewCreateOrderUseCase construye el caso de uso.
func NewCreateOrderUseCase(txRunner TxRunner, stock StockReserver, payments *PaymentEngine) *CreateOrderUseCase {
	return &CreateOrderUseCase{txRunner: txRunner, stock: stock, payments: payments}
}

// CreateOrder valida la entrada, reserva stock (todo o nada), persiste el pedido y, si se pidió
// pago inmediato, aplica el pago en la misma transacción.
// Retorna el pedido y el pago inmediato (nil si no hubo).
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (*entity.Order, *entity.Payment, error) {
	if err := validateOrder(in); err != nil {
		return nil, nil, err
	}

	var (
		order   *entity.Order
		payment *entity.Payment
	)
	err := uc.txRunner.RunLedger(ctx, func(
		products repository.ProductRepository,
		orders repository.OrderRepository,
		payments repository.PaymentRepository,
	) error {
		now := time.Now().UTC()

		// 1) Reservar stock en orden ascendente de product_id (evita deadlocks entre pedidos
		// concurrentes que comparten productos). Un fallo hace rollback de todas las reservas.
		locked, err := uc.reserveAll(ctx, products, in.Lines, now)
		if err != nil {
			return err
		}

		// 2) Líneas con precio congelado y total
		o := &entity.Order{
			ID:          uuid.New().String(),
			ClienteID:   strings.TrimSpace(in.ClienteID),
			FechaPedido: now,
			Total:       decimal.Zero,
			TotalPagado: decimal.Zero,
			CreatedBy:   in.Actor,
			CreatedAt:   now,
			UpdatedAt:   now,
			Lines:       make([]entity.OrderLine, 0, len(in.Lines)),
		}
		for _, l := range in.Lines {
			price := locked[l.ProductID].Price
			if l.PrecioUnitario != nil {
				price = *l.PrecioUnitario
			}
			if !money.IsPositiveAmount(price) {
				return fmt.Errorf("%w: producto %s sin precio válido", domain.ErrInvalidOrder, l.ProductID)
			}
			subtotal := price.Mul(decimal.NewFromInt(l.Cantidad))
			o.Lines = append(o.Lines, entity.OrderLine{
				ID:             uuid.New().String(),
				OrderID:        o.ID,
				ProductID:      l.ProductID,
				Cantidad:       l.Cantidad,
				PrecioUnitario: price,
				Subtotal:       subtotal,
			})
			o.Total = o.Total.Add(subtotal)
		}

		// 3) Persistir cabecera y detalles
		if err := orders.Create(ctx, o); err != nil {
			return err
		}

		// 4) Pago inmediato: mismo motor de pagos, misma transacción
		var p *entity.Payment
		if in.PagoInmediato {
			p, err = uc.payments.ApplyInTx(ctx, orders, payments, o, *in.Pago, in.Actor, now)
			if err != nil {
				return err
			}
		}
		order, payment = o, p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return order, payment, nil
}

// reserveAll agrupa cantidades por producto y reserva en orden ascendente de ID.
func (uc *CreateOrderUseCase) reserveAll(
	ctx context.Context,
	products repository.ProductRepository,
	lines []LineInput,
	now time.Time,
) (map[string]*entity.Product, error) {
	qty := make(map[string]int64, len(lines))
	for _, l := range lines {
		qty[l.ProductID] += l.Cantidad
	}
	ids := make([]string, 0, len(qty))
	for id := range qty {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	locked := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := uc.stock.ReserveInTx(ctx, products, id, qty[id], now)
		if err != nil {
			return nil, err
		}
		locked[id] = p
	}
	return locked, nil
}

func validateOrder(in CreateOrderInput) error {
	if strings.TrimSpace(in.ClienteID) == "" {
		return fmt.Errorf("%w: cliente requerido", domain.ErrInvalidOrder)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: el pedido debe tener al menos una línea", domain.ErrInvalidOrder)
	}
	merged := make(map[string]int64, len(in.Lines))
	for i, l := range in.Lines {
		if strings.TrimSpace(l.ProductID) == "" {
			return fmt.Errorf("%w: línea %d sin producto", domain.ErrInvalidOrder, i+1)
		}
		if l.Cantidad <= 0 {
			return fmt.Errorf("%w: línea %d con cantidad no positiva", domain.ErrInvalidOrder, i+1)
		}
		// Las líneas del mismo producto se reservan sumadas: la suma debe caber en int64.
		if merged[l.ProductID] > math.MaxInt64-l.Cantidad {
			return fmt.Errorf("%w: cantidad total del producto %s fuera de rango", domain.ErrInvalidOrder, l.ProductID)
		}
		merged[l.ProductID] += l.Cantidad
		if l.PrecioUnitario != nil && !money.IsPositiveAmount(*l.PrecioUnitario) {
			return fmt.Errorf("%w: línea %d con precio no positivo o con más de %d decimales",
				domain.ErrInvalidOrder, i+1, money.Scale)
		}
	}
	if in.PagoInmediato {
		if in.Pago == nil {
			return fmt.Errorf("%w: pago inmediato sin datos de pago", domain.ErrInvalidOrder)
		}
		if err := validatePayment(*in.Pago); err != nil {
			return err
		}
	}
	return nil
}
