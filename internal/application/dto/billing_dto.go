package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name        string           `json:"name"`
	Phone       string           `json:"phone,omitempty"`
	Email       string           `json:"email,omitempty"`
	Address     string           `json:"address,omitempty"`
	TaxNumber   string           `json:"taxNumber,omitempty"`
	CreditLimit *decimal.Decimal `json:"creditLimit,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone,omitempty"`
	Email       string          `json:"email,omitempty"`
	Address     string          `json:"address,omitempty"`
	TaxNumber   string          `json:"taxNumber,omitempty"`
	CreditLimit decimal.Decimal `json:"creditLimit"`
	Balance     decimal.Decimal `json:"balance"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// CustomerListResponse lista paginada de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	Invoice InvoiceHeaderRequest `json:"invoice"`
	Items   []InvoiceItemRequest `json:"items"`
}

// InvoiceHeaderRequest cabecera de la factura. Todos los campos son opcionales:
// sin cliente se factura al cliente de contado; sin amountPaid se asume 0.
type InvoiceHeaderRequest struct {
	CustomerID      EntityRef        `json:"customerId"`
	PaymentMethod   string           `json:"paymentMethod,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
	TaxPercent      *decimal.Decimal `json:"taxPercent,omitempty"`
	AmountPaid      *decimal.Decimal `json:"amountPaid,omitempty"`
	Status          string           `json:"status,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	InvoiceNumber   string           `json:"invoiceNumber,omitempty"`
	InvoiceDate     string           `json:"invoiceDate,omitempty"` // RFC3339 o YYYY-MM-DD
	Reference       string           `json:"reference,omitempty"`   // UUID de conciliación provisto por el cliente
}

// InvoiceItemRequest línea solicitada. UnitPrice nil = precio de venta del producto.
// Quantity se recibe como decimal para poder rechazar valores fraccionarios en lugar de truncarlos.
type InvoiceItemRequest struct {
	ProductID       EntityRef        `json:"productId"`
	Quantity        decimal.Decimal  `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unitPrice,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
	TaxPercent      *decimal.Decimal `json:"taxPercent,omitempty"`
}

// InvoiceResponse factura para respuestas de creación y consulta.
type InvoiceResponse struct {
	ID              int64                 `json:"id"`
	Reference       string                `json:"reference"`
	InvoiceNumber   string                `json:"invoiceNumber"`
	InvoiceDate     time.Time             `json:"invoiceDate"`
	CustomerID      int64                 `json:"customerId"`
	CustomerName    string                `json:"customerName,omitempty"`
	PaymentMethod   string                `json:"paymentMethod"`
	SubTotal        decimal.Decimal       `json:"subTotal"`
	DiscountPercent decimal.Decimal       `json:"discountPercent"`
	DiscountAmount  decimal.Decimal       `json:"discountAmount"`
	TaxPercent      decimal.Decimal       `json:"taxPercent"`
	TaxAmount       decimal.Decimal       `json:"taxAmount"`
	TotalAmount     decimal.Decimal       `json:"totalAmount"`
	AmountPaid      decimal.Decimal       `json:"amountPaid"`
	AmountDue       decimal.Decimal       `json:"amountDue"`
	Status          string                `json:"status"`
	Notes           string                `json:"notes,omitempty"`
	CompanyID       int64                 `json:"companyId,omitempty"`
	CreatedBy       int64                 `json:"createdBy,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	Items           []InvoiceItemResponse `json:"items,omitempty"`
}

// InvoiceItemResponse línea persistida.
type InvoiceItemResponse struct {
	ID              int64           `json:"id"`
	InvoiceID       int64           `json:"invoiceId"`
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName,omitempty"`
	Quantity        int64           `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	TaxPercent      decimal.Decimal `json:"taxPercent"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
}

// DroppedItemResponse línea descartada por el filtro de canasta.
// Index es la posición en la solicitud original.
type DroppedItemResponse struct {
	Index     int    `json:"index"`
	ProductID string `json:"productId"`
	Reason    string `json:"reason"`
}

// CreateInvoiceResponse respuesta 201 de POST /api/invoices.
type CreateInvoiceResponse struct {
	Invoice      InvoiceResponse       `json:"invoice"`
	Items        []InvoiceItemResponse `json:"items"`
	DroppedItems []DroppedItemResponse `json:"droppedItems"`
}

// InvoiceListQuery filtros de GET /api/invoices.
type InvoiceListQuery struct {
	Search     string `query:"search"`
	Status     string `query:"status"`
	CustomerID int64  `query:"customerId"`
	From       string `query:"from"` // YYYY-MM-DD
	To         string `query:"to"`   // YYYY-MM-DD, inclusivo
	PageRequest
}

// InvoiceListResponse lista paginada de facturas (sin líneas).
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
