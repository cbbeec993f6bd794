package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve (nil, nil) si el producto no existe.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// ListBelowMinimum productos activos con Quantity <= MinimumQuantity.
	ListBelowMinimum(ctx context.Context, limit int) ([]*entity.Product, error)
	// DecrementStock resta qty en una sola sentencia atómica y devuelve la existencia resultante.
	// Si allowNegative es false y no hay existencia suficiente retorna domain.ErrInsufficientStock;
	// si el producto no existe retorna domain.ErrNotFound.
	DecrementStock(ctx context.Context, id, qty int64, allowNegative bool) (int64, error)
	// SetStock fija la existencia (usado por ajustes, con la fila ya bloqueada).
	SetStock(ctx context.Context, id, qty int64) error
	// Update guarda nombre, código de barras, precio de venta, unidad, mínimo y estado activo.
	// No toca existencia ni costo. ErrNotFound si no existe; ErrDuplicate si el código de barras ya está en uso.
	Update(ctx context.Context, product *entity.Product) error
	// SetPurchasePrice actualiza el costo de compra (promedio ponderado tras una entrada).
	SetPurchasePrice(ctx context.Context, id int64, cost decimal.Decimal) error
}
