package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterPaymentRequest entrada para POST /api/payments.
type RegisterPaymentRequest struct {
	PedidoID           string          `json:"pedido_id"`
	Monto              decimal.Decimal `json:"monto"`
	CuentaOrigen       string          `json:"cuenta_origen"`
	CodigoConfirmacion string          `json:"codigo_confirmacion"`
}

// PaymentResponse salida de un pago.
type PaymentResponse struct {
	ID                 string    `json:"id"`
	PedidoID           string    `json:"pedido_id"`
	Monto              string    `json:"monto"`
	CuentaOrigen       string    `json:"cuenta_origen"`
	CodigoConfirmacion string    `json:"codigo_confirmacion"`
	FechaPago          time.Time `json:"fecha_pago"`
}

// RegisterPaymentResponse pago aplicado y estado resultante del pedido.
type RegisterPaymentResponse struct {
	Pago        PaymentResponse `json:"pago"`
	Estado      string          `json:"estado"`
	TotalPagado string          `json:"total_pagado"`
	Saldo       string          `json:"saldo_pendiente"`
}

// PaymentSummaryResponse estado de cobro de un pedido.
type PaymentSummaryResponse struct {
	PedidoID       string            `json:"pedido_id"`
	Total          string            `json:"total"`
	TotalPagado    string            `json:"total_pagado"`
	SaldoPendiente string            `json:"saldo_pendiente"`
	Estado         string            `json:"estado"`
	CantidadPagos  int               `json:"cantidad_pagos"`
	Pagos          []PaymentResponse `json:"pagos"`
}
