package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para dar de alta un producto en el catálogo.
type CreateProductRequest struct {
	Name        string          `json:"nombre"`
	Price       decimal.Decimal `json:"precio_venta"`
	Stock       int64           `json:"stock"`
	StockMinimo int64           `json:"stock_minimo"`
}

// StockReleaseRequest entrada para POST /api/products/:id/stock/release.
type StockReleaseRequest struct {
	Cantidad int64 `json:"cantidad"`
}

// SetStockRequest entrada para PUT /api/products/:id/stock.
type SetStockRequest struct {
	Stock int64 `json:"stock"`
}

// StockLevelResponse nivel de stock resultante de una corrección.
type StockLevelResponse struct {
	ProductID string `json:"product_id"`
	Stock     int64  `json:"stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"nombre"`
	Price       string    `json:"precio_venta"`
	Stock       int64     `json:"stock"`
	StockMinimo int64     `json:"stock_minimo"`
	LowStock    bool      `json:"stock_bajo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
