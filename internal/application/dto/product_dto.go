package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse salida de un producto del catálogo.
type ProductResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Barcode         string          `json:"barcode,omitempty"`
	SalePrice       decimal.Decimal `json:"salePrice"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice"`
	Quantity        int64           `json:"quantity"`
	UnitOfMeasure   string          `json:"unitOfMeasure,omitempty"`
	MinimumQuantity int64           `json:"minimumQuantity"`
	StockStatus     string          `json:"stockStatus"` // ACTIVE|LOW_STOCK|OUT_OF_STOCK
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateProductRequest entrada para crear un producto. La existencia inicial entra como movimiento IN.
type CreateProductRequest struct {
	Name            string          `json:"name"`
	Barcode         string          `json:"barcode,omitempty"`
	SalePrice       decimal.Decimal `json:"salePrice"`
	PurchasePrice   decimal.Decimal `json:"purchasePrice"`
	UnitOfMeasure   string          `json:"unitOfMeasure,omitempty"`
	MinimumQuantity int64           `json:"minimumQuantity"`
}

// UpdateProductRequest cambios parciales de un producto. Existencia y costo no se editan aquí:
// cambian solo mediante movimientos (venta o ajuste).
type UpdateProductRequest struct {
	Name            *string          `json:"name,omitempty"`
	Barcode         *string          `json:"barcode,omitempty"`
	SalePrice       *decimal.Decimal `json:"salePrice,omitempty"`
	UnitOfMeasure   *string          `json:"unitOfMeasure,omitempty"`
	MinimumQuantity *int64           `json:"minimumQuantity,omitempty"`
	IsActive        *bool            `json:"isActive,omitempty"`
}
