package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente (ventas y punto de venta).
// El cliente "de contado" se configura por ID y se usa como respaldo cuando la referencia no existe.
type Customer struct {
	ID          int64
	Name        string
	Phone       string
	Email       string
	Address     string
	TaxNumber   string
	CreditLimit decimal.Decimal
	Balance     decimal.Decimal
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
