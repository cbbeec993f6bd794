package inventory

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
)

// AdjustStockFromRequest adapta el request HTTP al caso de uso AdjustStock(ctx, AdjustmentInput).
// Usar desde handlers HTTP o desde otros casos de uso que tengan userID y dto.AdjustStockRequest.
func (uc *RegisterMovementUseCase) AdjustStockFromRequest(ctx context.Context, userID int64, in dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	input := AdjustmentInput{
		UserID:    userID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Operation: in.Operation,
		Reason:    in.Reason,
		UnitCost:  in.UnitCost,
	}
	return uc.AdjustStock(ctx, input)
}
