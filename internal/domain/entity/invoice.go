package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de pago/ciclo de vida de una factura.
type InvoiceStatus string

// Conjunto cerrado de estados válidos.
const (
	InvoiceStatusUnpaid        InvoiceStatus = "Unpaid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PartiallyPaid"
	InvoiceStatusPaid          InvoiceStatus = "Paid"
	InvoiceStatusDraft         InvoiceStatus = "Draft"
	InvoiceStatusPending       InvoiceStatus = "Pending"
	InvoiceStatusCompleted     InvoiceStatus = "Completed"
	InvoiceStatusCancelled     InvoiceStatus = "Cancelled"
	InvoiceStatusRefunded      InvoiceStatus = "Refunded"
)

var invoiceStatuses = map[InvoiceStatus]struct{}{
	InvoiceStatusUnpaid:        {},
	InvoiceStatusPartiallyPaid: {},
	InvoiceStatusPaid:          {},
	InvoiceStatusDraft:         {},
	InvoiceStatusPending:       {},
	InvoiceStatusCompleted:     {},
	InvoiceStatusCancelled:     {},
	InvoiceStatusRefunded:      {},
}

// Valid indica si el estado pertenece a la enumeración.
func (s InvoiceStatus) Valid() bool {
	_, ok := invoiceStatuses[s]
	return ok
}

// Invoice representa la cabecera de una factura de venta.
// ID es la secuencia de la BD; Reference (UUID) es el identificador externo único;
// Number es solo un número visible (no garantiza unicidad).
type Invoice struct {
	ID              int64
	Reference       string
	Number          string
	Date            time.Time
	CustomerID      int64
	CustomerName    string // solo lectura (JOIN)
	PaymentMethod   string
	SubTotal        decimal.Decimal
	DiscountPercent decimal.Decimal // descuento a nivel factura
	DiscountAmount  decimal.Decimal // descuentos de línea + descuento de factura
	TaxPercent      decimal.Decimal // impuesto a nivel factura
	TaxAmount       decimal.Decimal // impuestos de línea + impuesto de factura
	TotalAmount     decimal.Decimal
	AmountPaid      decimal.Decimal
	AmountDue       decimal.Decimal
	Status          InvoiceStatus
	Notes           string
	CompanyID       int64
	CreatedBy       int64 // 0 = sistema / sin identidad
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
