package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-ledger/internal/domain"
	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
	"github.com/jhoicas/ventas-ledger/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos (cabecera en pedidos, líneas en detalles_pedido).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, cliente_id, fecha_pedido, total, total_pagado, created_by, created_at, updated_at`

// Create inserta cabecera y líneas. Debe llamarse dentro de una transacción.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO pedidos (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.q.Exec(ctx, query,
		o.ID, o.ClienteID, o.FechaPedido, o.Total, o.TotalPagado, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	); err != nil {
		return mapError(err, "insert pedido")
	}

	lineQuery := `
		INSERT INTO detalles_pedido (id, pedido_id, linea, producto_id, cantidad, precio_unitario, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, l := range o.Lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, o.ID, i+1, l.ProductID, l.Cantidad, l.PrecioUnitario, l.Subtotal,
		); err != nil {
			return mapError(err, "insert detalle pedido")
		}
	}
	return nil
}

// GetByID pedido con líneas, o nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM pedidos WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera del pedido (serializa pagos del mismo pedido).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM pedidos WHERE id = $1 FOR UPDATE`, id)
}

// UpdatePaid fija total_pagado; estado lo recalcula la columna generada.
func (r *OrderRepo) UpdatePaid(ctx context.Context, id string, totalPagado decimal.Decimal, now time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE pedidos SET total_pagado = $2, updated_at = $3 WHERE id = $1`, id, totalPagado, now)
	if err != nil {
		return mapError(err, "update total_pagado")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, id)
	}
	return nil
}

// Delete borra el pedido; líneas y pagos caen por ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM pedidos WHERE id = $1`, id)
	if err != nil {
		return mapError(err, "delete pedido")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: pedido %s", domain.ErrNotFound, id)
	}
	return nil
}

// List pedidos por fecha descendente con sus líneas.
func (r *OrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+orderColumns+` FROM pedidos
		ORDER BY fecha_pedido DESC, id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, mapError(err, "list pedidos")
	}
	defer rows.Close()

	out := make([]*entity.Order, 0)
	byID := make(map[string]*entity.Order)
	ids := make([]string, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, mapError(err, "scan pedido")
		}
		out = append(out, o)
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list pedidos")
	}
	if len(ids) == 0 {
		return out, nil
	}

	lineRows, err := r.q.Query(ctx, `
		SELECT id, pedido_id, producto_id, cantidad, precio_unitario, subtotal
		FROM detalles_pedido WHERE pedido_id = ANY($1) ORDER BY pedido_id, linea`, ids)
	if err != nil {
		return nil, mapError(err, "list detalles")
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var l entity.OrderLine
		if err := lineRows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Cantidad, &l.PrecioUnitario, &l.Subtotal); err != nil {
			return nil, mapError(err, "scan detalle")
		}
		if o := byID[l.OrderID]; o != nil {
			o.Lines = append(o.Lines, l)
		}
	}
	return out, mapError(lineRows.Err(), "list detalles")
}

func (r *OrderRepo) get(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err, "get pedido")
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, pedido_id, producto_id, cantidad, precio_unitario, subtotal
		FROM detalles_pedido WHERE pedido_id = $1 ORDER BY linea`, id)
	if err != nil {
		return nil, mapError(err, "get detalles")
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Cantidad, &l.PrecioUnitario, &l.Subtotal); err != nil {
			return nil, mapError(err, "scan detalle")
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "get detalles")
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(
		&o.ID, &o.ClienteID, &o.FechaPedido, &o.Total, &o.TotalPagado, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.FechaPedido = o.FechaPedido.UTC()
	return &o, nil
}
