package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ventas-ledger/internal/domain"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("%w: producto 'x' disponible 1, solicitado 2", domain.ErrInsufficientStock), domain.CodeInsufficientStock},
		{fmt.Errorf("%w: sin líneas", domain.ErrInvalidOrder), domain.CodeInvalidOrder},
		{domain.ErrInvalidInput, domain.CodeValidation},
		{domain.ErrNotFound, domain.CodeNotFound},
		{domain.ErrDuplicatePayment, domain.CodeDuplicatePayment},
		{domain.ErrOverpaymentRejected, domain.CodeOverpayment},
		{fmt.Errorf("tx: %w", domain.ErrConcurrencyConflict), domain.CodeConcurrencyConflict},
		{errors.New("otro"), domain.CodeInternal},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, domain.ErrorCode(c.err), c.err.Error())
	}
}
