package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Quantity es la existencia disponible; solo se modifica vía movimientos de stock (venta o ajuste).
type Product struct {
	ID              int64
	Name            string
	Barcode         string
	SalePrice       decimal.Decimal // precio de venta por defecto en facturas
	PurchasePrice   decimal.Decimal
	Quantity        int64
	UnitOfMeasure   string
	MinimumQuantity int64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Estados de existencia derivados de Quantity y MinimumQuantity.
const (
	StockStatusActive     = "ACTIVE"
	StockStatusLowStock   = "LOW_STOCK"
	StockStatusOutOfStock = "OUT_OF_STOCK"
)

// StockStatusFor clasifica una existencia frente al mínimo configurado.
func StockStatusFor(quantity, minimum int64) string {
	switch {
	case quantity <= 0:
		return StockStatusOutOfStock
	case quantity <= minimum:
		return StockStatusLowStock
	default:
		return StockStatusActive
	}
}

// StockStatus estado actual del producto.
func (p *Product) StockStatus() string {
	return StockStatusFor(p.Quantity, p.MinimumQuantity)
}
