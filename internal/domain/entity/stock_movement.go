package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN         = "IN"
	MovementTypeOUT        = "OUT"
	MovementTypeADJUSTMENT = "ADJUSTMENT"
)

// Tipos de documento que originan un movimiento.
const (
	MovementRefInvoice    = "INVOICE"
	MovementRefAdjustment = "ADJUSTMENT"
)

// StockMovement registro de auditoría de cada cambio de existencias.
// Quantity siempre es positiva; el signo lo da Type.
type StockMovement struct {
	ID               int64
	ProductID        int64
	Type             string
	Quantity         int64
	PreviousQuantity int64
	NewQuantity      int64
	ReferenceType    string
	ReferenceID      int64
	Reason           string
	CreatedBy        int64
	CreatedAt        time.Time
}
