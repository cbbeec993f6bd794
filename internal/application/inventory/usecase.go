package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	domainbilling "github.com/jhoicas/Ventas-api/internal/domain/billing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Ventas-api/internal/domain/inventory"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (salidas por venta y ajustes manuales) con bloqueo de fila y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	movRepo  repository.StockMovementRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, movRepo repository.StockMovementRepository) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, movRepo: movRepo}
}

// MaxAdjustmentQuantity límite de unidades por ajuste (mismo tope que una línea de factura).
const MaxAdjustmentQuantity int64 = 1_000_000_000

// AdjustmentInput entrada de un ajuste manual de existencias.
type AdjustmentInput struct {
	UserID    int64
	ProductID int64
	Quantity  int64
	Operation string // add|subtract|set
	Reason    string
	// UnitCost costo de la entrada (solo add); nil conserva el costo del producto.
	UnitCost *decimal.Decimal
}

// AdjustStock inicia una transacción, bloquea el producto (SELECT FOR UPDATE), calcula la nueva
// existencia según la operación y guarda el movimiento. Nunca deja la existencia negativa.
func (uc *RegisterMovementUseCase) AdjustStock(ctx context.Context, input AdjustmentInput) (*dto.AdjustStockResponse, error) {
	op := strings.ToLower(strings.TrimSpace(input.Operation))
	switch op {
	case dto.AdjustAdd, dto.AdjustSubtract:
		if input.Quantity <= 0 {
			return nil, domain.Invalid(domain.ErrInvalidInput, "la cantidad debe ser positiva")
		}
	case dto.AdjustSet:
		if input.Quantity < 0 {
			return nil, domain.Invalid(domain.ErrInvalidInput, "la cantidad no puede ser negativa")
		}
	default:
		return nil, domain.Invalid(domain.ErrInvalidInput, "operación %q desconocida", input.Operation)
	}
	if input.Quantity > MaxAdjustmentQuantity {
		return nil, domain.Invalid(domain.ErrInvalidInput, "la cantidad no puede superar %d", MaxAdjustmentQuantity)
	}
	if input.ProductID <= 0 {
		return nil, domain.Invalid(domain.ErrInvalidInput, "productId inválido")
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, domain.Invalid(domain.ErrInvalidInput, "el motivo del ajuste es obligatorio")
	}
	if input.UnitCost != nil {
		if !domainbilling.InputBounded(*input.UnitCost) {
			return nil, domain.Invalid(domain.ErrInvalidInput, "unitCost fuera de rango")
		}
		if op != dto.AdjustAdd {
			return nil, domain.Invalid(domain.ErrInvalidInput, "unitCost solo aplica a entradas (add)")
		}
		if input.UnitCost.IsNegative() {
			return nil, domain.Invalid(domain.ErrInvalidInput, "unitCost no puede ser negativo")
		}
	}

	now := time.Now()
	var out *dto.AdjustStockResponse

	// Inicia transacción; Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		previous := product.Quantity
		next := previous
		switch op {
		case dto.AdjustAdd:
			if previous > math.MaxInt64-input.Quantity {
				return domain.Invalid(domain.ErrInvalidInput, "la existencia resultante excede el máximo representable")
			}
			next = previous + input.Quantity
		case dto.AdjustSubtract:
			next = previous - input.Quantity
		case dto.AdjustSet:
			next = input.Quantity
		}
		if next < 0 {
			return domain.Invalid(domain.ErrInsufficientStock,
				"existencia actual %d, no se pueden restar %d", previous, input.Quantity)
		}
		if err := productRepo.SetStock(ctx, product.ID, next); err != nil {
			return err
		}
		var cost *decimal.Decimal
		if input.UnitCost != nil {
			c := domaininv.WeightedAverageCost(previous, product.PurchasePrice, input.Quantity, *input.UnitCost)
			if err := productRepo.SetPurchasePrice(ctx, product.ID, c); err != nil {
				return err
			}
			cost = &c
		}

		change := next - previous
		mov := &entity.StockMovement{
			ProductID:        product.ID,
			Type:             movementTypeFor(op),
			Quantity:         abs(change),
			PreviousQuantity: previous,
			NewQuantity:      next,
			ReferenceType:    entity.MovementRefAdjustment,
			Reason:           reason,
			CreatedBy:        input.UserID,
			CreatedAt:        now,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		out = &dto.AdjustStockResponse{
			ProductID:        product.ID,
			PreviousQuantity: previous,
			NewQuantity:      next,
			Change:           change,
			Operation:        op,
			MovementID:       mov.ID,
			MovementType:     mov.Type,
			StockStatus:      entity.StockStatusFor(next, product.MinimumQuantity),
			PurchasePrice:    cost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterOUTInTx descuenta stock usando los repositorios proporcionados (misma transacción del caller).
// Implementa la interfaz billing.InventoryUseCase para integración facturación-inventario.
// El descuento es una sola sentencia atómica; con allowNegative=false falla con ErrInsufficientStock.
func (uc *RegisterMovementUseCase) RegisterOUTInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	productID, quantity int64,
	allowNegative bool,
	userID, invoiceID int64,
	now time.Time,
) (*entity.StockMovement, error) {
	if quantity <= 0 {
		return nil, domain.Invalid(domain.ErrInvalidInput, "cantidad de salida no positiva (%d)", quantity)
	}
	remaining, err := productRepo.DecrementStock(ctx, productID, quantity, allowNegative)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return nil, domain.Invalid(domain.ErrInsufficientStock, "producto %d: se solicitaron %d unidades", productID, quantity)
		}
		return nil, fmt.Errorf("descontar stock del producto %d: %w", productID, err)
	}
	mov := &entity.StockMovement{
		ProductID:        productID,
		Type:             entity.MovementTypeOUT,
		Quantity:         quantity,
		PreviousQuantity: remaining + quantity,
		NewQuantity:      remaining,
		ReferenceType:    entity.MovementRefInvoice,
		ReferenceID:      invoiceID,
		Reason:           "venta",
		CreatedBy:        userID,
		CreatedAt:        now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("registrar movimiento del producto %d: %w", productID, err)
	}
	return mov, nil
}

// ListMovements historial de movimientos de un producto, más recientes primero.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, productID int64, page dto.PageRequest) (*dto.StockMovementListResponse, error) {
	if productID <= 0 {
		return nil, domain.Invalid(domain.ErrInvalidInput, "productId inválido")
	}
	page.DefaultPage()
	list, err := uc.movRepo.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.StockMovementResponse{
			ID:               m.ID,
			ProductID:        m.ProductID,
			Type:             m.Type,
			Quantity:         m.Quantity,
			PreviousQuantity: m.PreviousQuantity,
			NewQuantity:      m.NewQuantity,
			ReferenceType:    m.ReferenceType,
			ReferenceID:      m.ReferenceID,
			Reason:           m.Reason,
			CreatedBy:        m.CreatedBy,
			CreatedAt:        m.CreatedAt,
		})
	}
	return &dto.StockMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// movementTypeFor: add → IN, subtract → OUT, set → ADJUSTMENT.
func movementTypeFor(op string) string {
	switch op {
	case dto.AdjustAdd:
		return entity.MovementTypeIN
	case dto.AdjustSubtract:
		return entity.MovementTypeOUT
	}
	return entity.MovementTypeADJUSTMENT
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
