package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
)

// OrderRepository puerto de pedidos (cabecera + líneas).
// GetByID y GetForUpdate devuelven (nil, nil) si el pedido no existe.
type OrderRepository interface {
	// Create persiste cabecera y líneas.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido; serializa pagos concurrentes sobre el mismo pedido.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// UpdatePaid es la única vía de escritura de total_pagado; el estado se deriva de él.
	UpdatePaid(ctx context.Context, id string, totalPagado decimal.Decimal, now time.Time) error
	// Delete purga el pedido con sus líneas y pagos. No devuelve stock.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Order, error)
}
