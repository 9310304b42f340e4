package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo con su contador de stock.
// El ledger solo es dueño de Stock; Name, Price y StockMinimo los administra el catálogo.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal // precio de venta vigente (no se usa para pedidos ya creados)
	Stock       int64           // siempre >= 0
	StockMinimo int64           // umbral de reposición
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si el producto está en o por debajo del stock mínimo.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.StockMinimo
}
