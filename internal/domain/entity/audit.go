package entity

import "time"

// Actor identidad del usuario que ejecuta la operación (ya validada por el colaborador de auth).
type Actor struct {
	UserID string
	Role   string
}

// Operaciones auditadas del ledger.
const (
	AuditOrderCreate  = "order.create"
	AuditOrderDelete  = "order.delete"
	AuditPaymentApply = "payment.apply"
	AuditStockRelease = "stock.release"
	AuditStockSet     = "stock.set"
)

// AuditOutcomeOK resultado de una operación exitosa; los fallos usan el código de error.
const AuditOutcomeOK = "ok"

// AuditEvent registro enviado al sink de auditoría (nunca se lee desde el ledger).
type AuditEvent struct {
	Actor     string
	Operation string
	EntityID  string
	Outcome   string
	Timestamp time.Time
}
