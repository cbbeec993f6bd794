package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operaciones de ajuste de stock.
const (
	AdjustAdd      = "add"
	AdjustSubtract = "subtract"
	AdjustSet      = "set"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
type AdjustStockRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  int64  `json:"quantity"`
	Operation string `json:"operation"` // add|subtract|set
	Reason    string `json:"reason"`
	// UnitCost costo unitario de la entrada; solo con operation=add. Recalcula el costo promedio.
	UnitCost *decimal.Decimal `json:"unitCost,omitempty"`
}

// AdjustStockResponse resultado del ajuste.
type AdjustStockResponse struct {
	ProductID        int64  `json:"productId"`
	PreviousQuantity int64  `json:"previousQuantity"`
	NewQuantity      int64  `json:"newQuantity"`
	Change           int64  `json:"change"`
	Operation        string `json:"operation"`
	MovementID       int64  `json:"movementId"`
	MovementType     string `json:"movementType"`
	StockStatus      string `json:"stockStatus"`
	// PurchasePrice costo resultante cuando la entrada trae unitCost.
	PurchasePrice *decimal.Decimal `json:"purchasePrice,omitempty"`
}

// StockMovementResponse movimiento del historial de un producto.
type StockMovementResponse struct {
	ID               int64     `json:"id"`
	ProductID        int64     `json:"productId"`
	Type             string    `json:"type"`
	Quantity         int64     `json:"quantity"`
	PreviousQuantity int64     `json:"previousQuantity"`
	NewQuantity      int64     `json:"newQuantity"`
	ReferenceType    string    `json:"referenceType,omitempty"`
	ReferenceID      int64     `json:"referenceId,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	CreatedBy        int64     `json:"createdBy,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// StockMovementListResponse lista paginada de movimientos.
type StockMovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// LowStockSuggestionDTO producto por debajo de su mínimo con la cantidad sugerida de reposición.
type LowStockSuggestionDTO struct {
	ProductID          int64           `json:"productId"`
	Name               string          `json:"name"`
	Barcode            string          `json:"barcode,omitempty"`
	CurrentStock       int64           `json:"currentStock"`
	MinimumQuantity    int64           `json:"minimumQuantity"`
	IdealStock         int64           `json:"idealStock"`         // MinimumQuantity * 1.5, redondeado hacia arriba
	SuggestedOrderQty  int64           `json:"suggestedOrderQty"`  // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unitCost"`           // precio de compra
	EstimatedOrderCost decimal.Decimal `json:"estimatedOrderCost"` // SuggestedOrderQty * UnitCost
	StockStatus        string          `json:"stockStatus"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
