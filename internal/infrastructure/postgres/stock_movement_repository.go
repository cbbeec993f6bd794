package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento (auditoría de existencias).
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO stock_movements (product_id, type, quantity, previous_quantity, new_quantity,
			reference_type, reference_id, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.ProductID, m.Type, m.Quantity, m.PreviousQuantity, m.NewQuantity,
		m.ReferenceType, nullIfZero(m.ReferenceID), m.Reason, nullIfZero(m.CreatedBy), m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista movimientos del producto, los más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, previous_quantity, new_quantity, reference_type,
			COALESCE(reference_id, 0), reason, COALESCE(created_by, 0), created_at
		FROM stock_movements WHERE product_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.PreviousQuantity, &m.NewQuantity,
			&m.ReferenceType, &m.ReferenceID, &m.Reason, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
