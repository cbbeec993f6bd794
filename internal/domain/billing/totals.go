package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals agregados monetarios de una factura.
// Invariante: TotalAmount = SubTotal - DiscountAmount + TaxAmount.
type Totals struct {
	SubTotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
}

// LineAmounts montos calculados de una línea.
type LineAmounts struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	LineTotal      decimal.Decimal
}

// Cascade aplica un descuento porcentual sobre base y luego el impuesto sobre el monto descontado.
// Es la regla común de línea y de factura: descuento = base*d/100; impuesto = (base-descuento)*t/100.
func Cascade(base, discountPercent, taxPercent decimal.Decimal) (discount, tax decimal.Decimal) {
	discount = base.Mul(discountPercent).Div(hundred)
	tax = base.Sub(discount).Mul(taxPercent).Div(hundred)
	return discount, tax
}

// LineFor calcula los montos de una línea a partir de cantidad, precio y porcentajes.
// No valida rangos: cantidades o precios en cero aportan cero.
func LineFor(quantity int64, unitPrice, discountPercent, taxPercent decimal.Decimal) LineAmounts {
	subtotal := decimal.NewFromInt(quantity).Mul(unitPrice)
	discount, tax := Cascade(subtotal, discountPercent, taxPercent)
	return LineAmounts{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		LineTotal:      subtotal.Sub(discount).Add(tax),
	}
}

// ComputeLine completa DiscountAmount, TaxAmount y LineTotal del ítem.
func ComputeLine(item *entity.InvoiceItem) LineAmounts {
	amounts := LineFor(item.Quantity, item.UnitPrice, item.DiscountPercent, item.TaxPercent)
	item.DiscountAmount = amounts.DiscountAmount
	item.TaxAmount = amounts.TaxAmount
	item.LineTotal = amounts.LineTotal
	return amounts
}

// ComputeTotals suma las líneas. Función pura: usa cantidad, precio y porcentajes de cada ítem,
// no los montos ya almacenados en él, y no redondea resultados intermedios.
func ComputeTotals(items []*entity.InvoiceItem) Totals {
	var t Totals
	for _, item := range items {
		line := LineFor(item.Quantity, item.UnitPrice, item.DiscountPercent, item.TaxPercent)
		t.SubTotal = t.SubTotal.Add(line.Subtotal)
		t.DiscountAmount = t.DiscountAmount.Add(line.DiscountAmount)
		t.TaxAmount = t.TaxAmount.Add(line.TaxAmount)
	}
	t.TotalAmount = t.SubTotal.Sub(t.DiscountAmount).Add(t.TaxAmount)
	return t
}

// ApplyInvoiceAdjustments aplica descuento e impuesto de factura sobre la suma de totales de línea.
// Los montos resultantes se acumulan en DiscountAmount y TaxAmount para conservar el invariante del total.
func ApplyInvoiceAdjustments(t Totals, discountPercent, taxPercent decimal.Decimal) Totals {
	if discountPercent.IsZero() && taxPercent.IsZero() {
		return t
	}
	discount, tax := Cascade(t.TotalAmount, discountPercent, taxPercent)
	t.DiscountAmount = t.DiscountAmount.Add(discount)
	t.TaxAmount = t.TaxAmount.Add(tax)
	t.TotalAmount = t.SubTotal.Sub(t.DiscountAmount).Add(t.TaxAmount)
	return t
}

// AmountDue saldo pendiente. Con clamp=true nunca es negativo (sin notas crédito implícitas).
func AmountDue(total, paid decimal.Decimal, clamp bool) decimal.Decimal {
	due := total.Sub(paid)
	if clamp && due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// ValidPercent indica si p está en [0, 100].
func ValidPercent(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(hundred)
}
