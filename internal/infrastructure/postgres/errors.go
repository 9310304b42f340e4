package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/ventas-ledger/internal/domain"
)

// Códigos SQLSTATE que el ledger traduce a errores de dominio.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeNumericOutOfRange    = "22003"
)

// Constraints con significado de dominio (ver schema.sql).
const (
	constraintPaymentCode = "pagos_pedido_codigo_key"
	constraintStock       = "productos_stock_check"
	constraintTotalPagado = "pedidos_total_pagado_check"
)

// mapError traduce errores de PostgreSQL a errores de dominio; op describe la operación.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return fmt.Errorf("%w: %s (%s)", domain.ErrConcurrencyConflict, op, pgErr.Code)
	case codeUniqueViolation:
		if pgErr.ConstraintName == constraintPaymentCode {
			return fmt.Errorf("%w: %s", domain.ErrDuplicatePayment, op)
		}
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, op)
	case codeCheckViolation:
		switch pgErr.ConstraintName {
		case constraintStock:
			return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, op)
		case constraintTotalPagado:
			return fmt.Errorf("%w: %s", domain.ErrOverpaymentRejected, op)
		}
		return fmt.Errorf("%w: %s: %s", domain.ErrInvalidInput, op, pgErr.ConstraintName)
	case codeNumericOutOfRange:
		return fmt.Errorf("%w: %s: valor numérico fuera de rango", domain.ErrInvalidInput, op)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s: %s", domain.ErrNotFound, op, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
