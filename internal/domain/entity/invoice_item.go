package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa una línea persistida de una factura. Inmutable tras su creación.
// LineTotal = Quantity*UnitPrice - DiscountAmount + TaxAmount.
type InvoiceItem struct {
	ID              int64
	InvoiceID       int64
	ProductID       int64
	ProductName     string // solo lectura
	Quantity        int64
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxPercent      decimal.Decimal
	TaxAmount       decimal.Decimal
	LineTotal       decimal.Decimal
}
