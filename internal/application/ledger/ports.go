package ledger

import (
	"context"

	"github.com/jhoicas/ventas-ledger/internal/domain/entity"
)

// AuditSink destino de eventos de auditoría (solo escritura).
// Un error de Record se registra en el log; nunca revierte la operación auditada.
type AuditSink interface {
	Record(ctx context.Context, event entity.AuditEvent) error
}

// PaymentDedup caché de pares (pedido, código) ya aplicados. Es solo un atajo: la
// verificación autoritativa ocurre dentro de la transacción del pago.
type PaymentDedup interface {
	Seen(ctx context.Context, orderID, code string) (bool, error)
	Remember(ctx context.Context, orderID, code string) error
}

// NoopDedup se usa cuando no hay caché configurada.
type NoopDedup struct{}

func (NoopDedup) Seen(context.Context, string, string) (bool, error) { return false, nil }
func (NoopDedup) Remember(context.Context, string, string) error     { return nil }

// NoopAudit descarta los eventos.
type NoopAudit struct{}

func (NoopAudit) Record(context.Context, entity.AuditEvent) error { return nil }
