package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment pago aplicado a un pedido. Inmutable: el ledger de pagos es solo de inserción.
type Payment struct {
	ID                 string
	OrderID            string
	Monto              decimal.Decimal
	CuentaOrigen       string
	CodigoConfirmacion string // único por pedido (idempotencia de reintentos)
	FechaPago          time.Time
	CreatedBy          string
}
