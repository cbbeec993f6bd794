package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// StockMovementRepo implementación en memoria de StockMovementRepository.
type StockMovementRepo struct {
	v view
}

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	return r.v.do(ctx, OpMovementCreate, func(st *state) error {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		m.ID = nextID(&st.movementSeq, 0)
		st.movements = append(st.movements, *m)
		return nil
	})
}

// ListByProduct más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.v.do(ctx, OpMovementList, func(st *state) error {
		var matched []entity.StockMovement
		for i := len(st.movements) - 1; i >= 0; i-- {
			if st.movements[i].ProductID == productID {
				matched = append(matched, st.movements[i])
			}
		}
		for _, m := range page(matched, limit, offset) {
			out = append(out, &m)
		}
		return nil
	})
	return out, err
}
