package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ventas-ledger/internal/domain"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"serialización", &pgconn.PgError{Code: codeSerializationFailure}, domain.ErrConcurrencyConflict},
		{"deadlock", &pgconn.PgError{Code: codeDeadlockDetected}, domain.ErrConcurrencyConflict},
		{"lock_timeout", &pgconn.PgError{Code: codeLockNotAvailable}, domain.ErrConcurrencyConflict},
		{"pago duplicado", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: constraintPaymentCode}, domain.ErrDuplicatePayment},
		{"pk duplicada", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "productos_pkey"}, domain.ErrDuplicate},
		{"stock negativo", &pgconn.PgError{Code: codeCheckViolation, ConstraintName: constraintStock}, domain.ErrInsufficientStock},
		{"sobrepago", &pgconn.PgError{Code: codeCheckViolation, ConstraintName: constraintTotalPagado}, domain.ErrOverpaymentRejected},
		{"otro check", &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "pagos_monto_check"}, domain.ErrInvalidInput},
		{"fk", &pgconn.PgError{Code: codeForeignKeyViolation}, domain.ErrNotFound},
		{"numeric overflow", &pgconn.PgError{Code: codeNumericOutOfRange}, domain.ErrInvalidInput},
	}
	for _, c := range cases {
		assert.ErrorIs(t, mapError(c.err, "op"), c.want, c.name)
	}

	assert.NoError(t, mapError(nil, "op"))
	plain := errors.New("conexión cerrada")
	assert.ErrorIs(t, mapError(plain, "op"), plain)
}

func TestSchemaDeclaraConstraintsMapeadas(t *testing.T) {
	for _, name := range []string{constraintPaymentCode, constraintStock, constraintTotalPagado} {
		assert.Contains(t, schemaSQL, name)
	}
	assert.Contains(t, schemaSQL, "GENERATED ALWAYS AS")
}
