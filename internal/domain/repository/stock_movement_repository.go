package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// StockMovementRepository define el puerto para el historial de movimientos de stock.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error)
}
