package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea solicitada. Sin precio_unitario se usa el precio del catálogo.
type OrderLineRequest struct {
	ProductID      string           `json:"product_id"`
	Cantidad       int64            `json:"cantidad"`
	PrecioUnitario *decimal.Decimal `json:"precio_unitario,omitempty"`
}

// CreateOrderRequest entrada para POST /api/orders.
type CreateOrderRequest struct {
	ClienteID     string              `json:"cliente_id"`
	Detalles      []OrderLineRequest  `json:"detalles"`
	PagoInmediato bool                `json:"pago_inmediato"`
	Pago          *PaymentInfoRequest `json:"pago,omitempty"`
}

// PaymentInfoRequest datos del pago inmediato al crear un pedido.
type PaymentInfoRequest struct {
	Monto              decimal.Decimal `json:"monto"`
	CuentaOrigen       string          `json:"cuenta_origen"`
	CodigoConfirmacion string          `json:"codigo_confirmacion"`
}

// OrderLineResponse salida de una línea de pedido.
type OrderLineResponse struct {
	ID             string `json:"id"`
	ProductID      string `json:"product_id"`
	Cantidad       int64  `json:"cantidad"`
	PrecioUnitario string `json:"precio_unitario"`
	Subtotal       string `json:"subtotal"`
}

// OrderResponse salida de un pedido. Los montos van como texto con 2 decimales.
type OrderResponse struct {
	ID          string              `json:"id"`
	ClienteID   string              `json:"cliente_id"`
	FechaPedido time.Time           `json:"fecha_pedido"`
	Estado      string              `json:"estado"`
	Total       string              `json:"total"`
	TotalPagado string              `json:"total_pagado"`
	Saldo       string              `json:"saldo_pendiente"`
	Detalles    []OrderLineResponse `json:"detalles"`
	Pago        *PaymentResponse    `json:"pago,omitempty"` // pago inmediato, si lo hubo
	CreatedBy   string              `json:"created_by,omitempty"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
