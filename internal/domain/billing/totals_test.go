package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain/billing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, d(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got.String())
}

// Escenario A: 2 unidades a 100 con 10% de descuento y 15% de impuesto de línea.
func TestComputeLine_EscenarioDescuentoEImpuesto(t *testing.T) {
	item := &entity.InvoiceItem{
		Quantity:        2,
		UnitPrice:       d("100"),
		DiscountPercent: d("10"),
		TaxPercent:      d("15"),
	}

	amounts := billing.ComputeLine(item)

	assertDecimal(t, "200", amounts.Subtotal, "subtotal de línea")
	assertDecimal(t, "20", item.DiscountAmount, "descuento")
	assertDecimal(t, "27", item.TaxAmount, "impuesto sobre el monto descontado")
	assertDecimal(t, "207", item.LineTotal, "total de línea")
}

func TestComputeTotals_InvarianteDelTotal(t *testing.T) {
	items := []*entity.InvoiceItem{
		{Quantity: 3, UnitPrice: d("19.99"), DiscountPercent: d("7.5"), TaxPercent: d("19")},
		{Quantity: 1, UnitPrice: d("0.33"), DiscountPercent: d("0"), TaxPercent: d("5")},
		{Quantity: 12, UnitPrice: d("1234.567"), DiscountPercent: d("33.3"), TaxPercent: d("0")},
	}

	totals := billing.ComputeTotals(items)

	expected := totals.SubTotal.Sub(totals.DiscountAmount).Add(totals.TaxAmount)
	assert.True(t, expected.Equal(totals.TotalAmount),
		"total = subtotal - descuento + impuesto (obtenido %s, esperado %s)", totals.TotalAmount, expected)

	// La suma de los totales de línea coincide con el total de la factura.
	sum := decimal.Zero
	for _, it := range items {
		billing.ComputeLine(it)
		sum = sum.Add(it.LineTotal)
	}
	assert.True(t, sum.Equal(totals.TotalAmount), "suma de líneas %s vs total %s", sum, totals.TotalAmount)
}

func TestComputeTotals_NoUsaMontosPrecargados(t *testing.T) {
	// Montos de línea basura no deben afectar el cálculo (función pura sobre cantidad/precio/porcentajes).
	items := []*entity.InvoiceItem{
		{Quantity: 2, UnitPrice: d("100"), DiscountPercent: d("10"), TaxPercent: d("15"), LineTotal: d("999999")},
	}
	totals := billing.ComputeTotals(items)
	assertDecimal(t, "200", totals.SubTotal, "subtotal")
	assertDecimal(t, "20", totals.DiscountAmount, "descuento")
	assertDecimal(t, "27", totals.TaxAmount, "impuesto")
	assertDecimal(t, "207", totals.TotalAmount, "total")
}

func TestComputeTotals_LineasEnCeroNoFallan(t *testing.T) {
	items := []*entity.InvoiceItem{
		{Quantity: 0, UnitPrice: d("50"), TaxPercent: d("19")},
		{Quantity: 4, UnitPrice: decimal.Zero, DiscountPercent: d("10")},
	}
	totals := billing.ComputeTotals(items)
	assert.True(t, totals.TotalAmount.IsZero())
	assert.True(t, totals.SubTotal.IsZero())
}

func TestComputeTotals_SinLineas(t *testing.T) {
	totals := billing.ComputeTotals(nil)
	assert.True(t, totals.TotalAmount.IsZero())
}

func TestApplyInvoiceAdjustments_DescuentoEImpuestoDeFactura(t *testing.T) {
	base := billing.ComputeTotals([]*entity.InvoiceItem{
		{Quantity: 2, UnitPrice: d("100"), DiscountPercent: d("10"), TaxPercent: d("15")},
	})
	require.True(t, d("207").Equal(base.TotalAmount))

	got := billing.ApplyInvoiceAdjustments(base, d("10"), d("5"))

	// 207 * 10% = 20.7 de descuento; (207 - 20.7) * 5% = 9.315 de impuesto.
	assertDecimal(t, "200", got.SubTotal, "el subtotal no cambia")
	assertDecimal(t, "40.7", got.DiscountAmount, "descuentos acumulados")
	assertDecimal(t, "36.315", got.TaxAmount, "impuestos acumulados")
	assertDecimal(t, "195.615", got.TotalAmount, "total final")
	assert.True(t, got.SubTotal.Sub(got.DiscountAmount).Add(got.TaxAmount).Equal(got.TotalAmount))
}

func TestApplyInvoiceAdjustments_SinPorcentajesNoCambia(t *testing.T) {
	base := billing.Totals{SubTotal: d("10"), TotalAmount: d("10")}
	got := billing.ApplyInvoiceAdjustments(base, decimal.Zero, decimal.Zero)
	assert.Equal(t, base, got)
}

func TestAmountDue(t *testing.T) {
	assertDecimal(t, "30", billing.AmountDue(d("100"), d("70"), false), "saldo normal")
	assertDecimal(t, "-20", billing.AmountDue(d("100"), d("120"), false), "sobrepago sin clamp")
	assertDecimal(t, "0", billing.AmountDue(d("100"), d("120"), true), "sobrepago con clamp")
}

func TestValidPercent(t *testing.T) {
	assert.True(t, billing.ValidPercent(d("0")))
	assert.True(t, billing.ValidPercent(d("100")))
	assert.True(t, billing.ValidPercent(d("12.5")))
	assert.False(t, billing.ValidPercent(d("-1")))
	assert.False(t, billing.ValidPercent(d("100.01")))
}
