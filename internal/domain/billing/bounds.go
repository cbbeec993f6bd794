package billing

import "github.com/shopspring/decimal"

// Ventana aceptada para decimales de entrada. Fuera de ella, comparar o reescalar
// el valor exige potencias de diez arbitrarias sobre big.Int.
const (
	minInputExponent   = -12
	maxInputExponent   = 12
	maxCoefficientBits = 128
)

// InputBounded indica si d tiene un exponente en [-12, 12] y un coeficiente de a lo sumo 128 bits.
// Debe consultarse antes de cualquier comparación o aritmética sobre valores recibidos del cliente.
func InputBounded(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < minInputExponent || exp > maxInputExponent {
		return false
	}
	return d.Coefficient().BitLen() <= maxCoefficientBits
}

// InputBoundedPtr como InputBounded; nil se considera válido (campo ausente).
func InputBoundedPtr(d *decimal.Decimal) bool {
	return d == nil || InputBounded(*d)
}
