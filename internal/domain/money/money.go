// Package money fija la política de precisión para montos del ledger.
//
// Regla: los montos de entrada (precios unitarios, pagos) admiten como máximo 2 decimales;
// cualquier otro valor se rechaza como entrada mal formada. Con esa restricción los
// subtotales (cantidad × precio) y las sumas son exactos, así que el ledger nunca redondea.
// Solo la presentación redondea, con redondeo bancario (half-even) a 2 decimales.
package money

import "github.com/shopspring/decimal"

// Scale decimales de la moneda.
const Scale = 2

// HasValidScale indica si d no tiene más de Scale decimales significativos.
func HasValidScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Scale))
}

// IsPositiveAmount indica si d > 0 y respeta la escala de la moneda.
func IsPositiveAmount(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero) && HasValidScale(d)
}

// Round redondea para presentación (half-even).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Scale)
}

// Format devuelve el monto con exactamente 2 decimales.
func Format(d decimal.Decimal) string {
	return Round(d).StringFixed(Scale)
}

// Sum suma montos sin redondear.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
