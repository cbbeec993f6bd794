package billing

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y facturación.
// Si fn retorna error la transacción se revierte completa.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// InventoryUseCase interfaz para integrar facturación con inventario.
// RegisterOUTInTx descuenta stock usando los repositorios del caller (misma transacción).
// Si retorna error (ej: ErrInsufficientStock), el caller debe hacer rollback.
type InventoryUseCase interface {
	RegisterOUTInTx(
		ctx context.Context,
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		productID, quantity int64,
		allowNegative bool,
		userID, invoiceID int64,
		now time.Time,
	) (*entity.StockMovement, error)
}

// Metrics contadores del pipeline de facturación.
type Metrics interface {
	InvoiceCreated(status string)
	InvoiceRejected(reason string)
	ItemDropped(reason string)
	CustomerSubstituted()
	ObserveCreateDuration(d time.Duration)
}

// NopMetrics implementación vacía para tests y herramientas.
type NopMetrics struct{}

func (NopMetrics) InvoiceCreated(string)               {}
func (NopMetrics) InvoiceRejected(string)              {}
func (NopMetrics) ItemDropped(string)                  {}
func (NopMetrics) CustomerSubstituted()                {}
func (NopMetrics) ObserveCreateDuration(time.Duration) {}

// Actor identidad de quien crea la factura (0 = anónimo / sistema).
type Actor struct {
	UserID    int64
	CompanyID int64
}
