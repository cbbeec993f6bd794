package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: productos en o por debajo de su mínimo.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo}
}

// GenerateReplenishmentList devuelve los productos con existencia <= mínimo, con la cantidad
// sugerida de pedido (hasta 1.5 veces el mínimo) y un ranking de prioridad: primero los agotados,
// luego por cobertura (existencia / mínimo) ascendente.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, limit int) ([]dto.LowStockSuggestionDTO, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	products, err := uc.productRepo.ListBelowMinimum(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []dto.LowStockSuggestionDTO{}, nil
	}

	suggestions := make([]dto.LowStockSuggestionDTO, 0, len(products))
	for _, p := range products {
		ideal := (p.MinimumQuantity*3 + 1) / 2
		suggested := ideal - p.Quantity
		if suggested < 0 {
			suggested = 0
		}
		suggestions = append(suggestions, dto.LowStockSuggestionDTO{
			ProductID:          p.ID,
			Name:               p.Name,
			Barcode:            p.Barcode,
			CurrentStock:       p.Quantity,
			MinimumQuantity:    p.MinimumQuantity,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitCost:           p.PurchasePrice,
			EstimatedOrderCost: p.PurchasePrice.Mul(decimal.NewFromInt(suggested)),
			StockStatus:        p.StockStatus(),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return coverage(suggestions[i]).LessThan(coverage(suggestions[j]))
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

// coverage existencia relativa al mínimo; los agotados quedan en cero o negativo.
func coverage(s dto.LowStockSuggestionDTO) decimal.Decimal {
	if s.StockStatus == entity.StockStatusOutOfStock || s.MinimumQuantity <= 0 {
		return decimal.NewFromInt(s.CurrentStock)
	}
	return decimal.NewFromInt(s.CurrentStock).Div(decimal.NewFromInt(s.MinimumQuantity))
}
