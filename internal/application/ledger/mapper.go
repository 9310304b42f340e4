package ledger

import (
	"github.com/jhoicas/ventas-ledger/internal/application/dto"
	"github.com/jhoicas/ventas-ledger/internal/application/sales"
	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/money"
)

func toSalesInput(actor entity.Actor, in dto.CreateOrderRequest) sales.CreateOrderInput {
	lines := make([]sales.LineInput, 0, len(in.Detalles))
	for _, d := range in.Detalles {
		lines = append(lines, sales.LineInput{
			ProductID:      d.ProductID,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
		})
	}
	out := sales.CreateOrderInput{
		ClienteID:     in.ClienteID,
		Lines:         lines,
		PagoInmediato: in.PagoInmediato,
		Actor:         actor.UserID,
	}
	if in.Pago != nil {
		out.Pago = &sales.PaymentInput{
			Monto:              in.Pago.Monto,
			CuentaOrigen:       in.Pago.CuentaOrigen,
			CodigoConfirmacion: in.Pago.CodigoConfirmacion,
		}
	}
	return out
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ID:             l.ID,
			ProductID:      l.ProductID,
			Cantidad:       l.Cantidad,
			PrecioUnitario: money.Format(l.PrecioUnitario),
			Subtotal:       money.Format(l.Subtotal),
		})
	}
	return &dto.OrderResponse{
		ID:          o.ID,
		ClienteID:   o.ClienteID,
		FechaPedido: o.FechaPedido,
		Estado:      o.Estado(),
		Total:       money.Format(o.Total),
		TotalPagado: money.Format(o.TotalPagado),
		Saldo:       money.Format(o.Saldo()),
		Detalles:    lines,
		CreatedBy:   o.CreatedBy,
	}
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:                 p.ID,
		PedidoID:           p.OrderID,
		Monto:              money.Format(p.Monto),
		CuentaOrigen:       p.CuentaOrigen,
		CodigoConfirmacion: p.CodigoConfirmacion,
		FechaPago:          p.FechaPago,
	}
}
