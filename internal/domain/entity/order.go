package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de un pedido.
const (
	EstadoPendiente = "pendiente"
	EstadoPagado    = "pagado"
)

// Order cabecera de un pedido con sus líneas.
// Total se calcula una vez al crear; TotalPagado solo crece vía pagos.
// No hay campo de estado: Estado() se deriva siempre de TotalPagado.
type Order struct {
	ID          string
	ClienteID   string
	FechaPedido time.Time // UTC
	Lines       []OrderLine
	Total       decimal.Decimal
	TotalPagado decimal.Decimal
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrderLine línea de pedido. PrecioUnitario es el precio al momento de la venta.
type OrderLine struct {
	ID             string
	OrderID        string
	ProductID      string
	Cantidad       int64
	PrecioUnitario decimal.Decimal
	Subtotal       decimal.Decimal
}

// Estado devuelve "pagado" si TotalPagado == Total, "pendiente" en otro caso.
func (o *Order) Estado() string {
	if o.TotalPagado.Equal(o.Total) {
		return EstadoPagado
	}
	return EstadoPendiente
}

// Saldo monto pendiente de pago (Total - TotalPagado).
func (o *Order) Saldo() decimal.Decimal {
	return o.Total.Sub(o.TotalPagado)
}

// Clone copia profunda; los stores no comparten slices de líneas con el llamador.
func (o *Order) Clone() *Order {
	c := *o
	if o.Lines != nil {
		c.Lines = make([]OrderLine, len(o.Lines))
		copy(c.Lines, o.Lines)
	}
	return &c
}
