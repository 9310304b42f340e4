package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso los envuelven con fmt.Errorf("%w: ...") y los handlers los comparan con errors.Is.
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrInvalidOrder        = errors.New("pedido inválido")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrOverpaymentRejected = errors.New("el pago excede el saldo pendiente")
	ErrDuplicatePayment    = errors.New("pago duplicado")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	// ErrConcurrencyConflict es transitorio: el llamador puede reintentar la operación completa.
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente")
)

// Códigos estables de error; los usan la respuesta HTTP y el resultado de auditoría.
const (
	CodeInvalidOrder        = "INVALID_ORDER"
	CodeValidation          = "VALIDATION"
	CodeNotFound            = "NOT_FOUND"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeDuplicatePayment    = "DUPLICATE_PAYMENT"
	CodeDuplicate           = "DUPLICATE"
	CodeOverpayment         = "OVERPAYMENT_REJECTED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	CodeInternal            = "INTERNAL"
)

// ErrorCode devuelve el código del primer error de dominio envuelto en err.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidOrder):
		return CodeInvalidOrder
	case errors.Is(err, ErrInvalidInput):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInsufficientStock):
		return CodeInsufficientStock
	case errors.Is(err, ErrDuplicatePayment):
		return CodeDuplicatePayment
	case errors.Is(err, ErrDuplicate):
		return CodeDuplicate
	case errors.Is(err, ErrOverpaymentRejected):
		return CodeOverpayment
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrConcurrencyConflict):
		return CodeConcurrencyConflict
	default:
		return CodeInternal
	}
}
