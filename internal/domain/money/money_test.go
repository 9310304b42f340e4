package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ventas-ledger/internal/domain/money"
)

func TestHasValidScale(t *testing.T) {
	cases := map[string]bool{
		"10":      true,
		"10.5":    true,
		"10.55":   true,
		"10.550":  true, // cero a la derecha no cuenta
		"10.555":  false,
		"0.001":   false,
		"-3.10":   true,
		"99999.99": true,
	}
	for in, want := range cases {
		assert.Equal(t, want, money.HasValidScale(decimal.RequireFromString(in)), in)
	}
}

func TestIsPositiveAmount(t *testing.T) {
	assert.True(t, money.IsPositiveAmount(decimal.RequireFromString("0.01")))
	assert.False(t, money.IsPositiveAmount(decimal.Zero))
	assert.False(t, money.IsPositiveAmount(decimal.RequireFromString("-1")))
	assert.False(t, money.IsPositiveAmount(decimal.RequireFromString("0.005")))
}

// El redondeo de presentación es bancario: x.xx5 va al par más cercano.
func TestRound_HalfEven(t *testing.T) {
	assert.Equal(t, "2.12", money.Format(decimal.RequireFromString("2.125")))
	assert.Equal(t, "2.14", money.Format(decimal.RequireFromString("2.135")))
	assert.Equal(t, "100.00", money.Format(decimal.NewFromInt(100)))
}

func TestSum_EsExacta(t *testing.T) {
	// 0.10 sumado 10 veces debe dar exactamente 1.00 (sin error binario).
	values := make([]decimal.Decimal, 10)
	for i := range values {
		values[i] = decimal.RequireFromString("0.10")
	}
	assert.True(t, money.Sum(values...).Equal(decimal.NewFromInt(1)))
	assert.True(t, money.Sum().IsZero())
}
