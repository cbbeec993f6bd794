package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	v view
}

var _ repository.ProductRepository = (*ProductRepo)(nil)

// Create asigna el siguiente ID, o respeta uno preasignado (semillas). El código de barras es único.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.v.do(ctx, OpProductCreate, func(st *state) error {
		if p.Barcode != "" {
			for _, other := range st.products {
				if other.Barcode == p.Barcode {
					return domain.ErrDuplicate
				}
			}
		}
		p.ID = nextID(&st.productSeq, p.ID)
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(ctx, OpProductGet, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// Update reemplaza los campos editables; existencia y costo se conservan.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.v.do(ctx, OpProductUpdate, func(st *state) error {
		current, ok := st.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if p.Barcode != "" {
			for id, other := range st.products {
				if id != p.ID && other.Barcode == p.Barcode {
					return domain.ErrDuplicate
				}
			}
		}
		current.Name = p.Name
		current.Barcode = p.Barcode
		current.SalePrice = p.SalePrice
		current.UnitOfMeasure = p.UnitOfMeasure
		current.MinimumQuantity = p.MinimumQuantity
		current.IsActive = p.IsActive
		current.UpdatedAt = time.Now()
		st.products[p.ID] = current
		*p = current
		return nil
	})
}

// GetForUpdate en memoria equivale a GetByID: la transacción ya tiene el candado global.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.do(ctx, OpProductList, func(st *state) error {
		all := make([]entity.Product, 0, len(st.products))
		for _, p := range st.products {
			all = append(all, p)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
		for _, p := range page(all, limit, offset) {
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) ListBelowMinimum(ctx context.Context, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.do(ctx, OpProductList, func(st *state) error {
		var low []entity.Product
		for _, p := range st.products {
			if p.IsActive && p.Quantity <= p.MinimumQuantity {
				low = append(low, p)
			}
		}
		sort.Slice(low, func(i, j int) bool {
			if low[i].Quantity != low[j].Quantity {
				return low[i].Quantity < low[j].Quantity
			}
			return low[i].ID < low[j].ID
		})
		for _, p := range page(low, limit, 0) {
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) DecrementStock(ctx context.Context, id, qty int64, allowNegative bool) (int64, error) {
	var remaining int64
	err := r.v.do(ctx, OpDecrementStock, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		if !allowNegative && p.Quantity < qty {
			return domain.ErrInsufficientStock
		}
		p.Quantity -= qty
		p.UpdatedAt = time.Now()
		st.products[id] = p
		remaining = p.Quantity
		return nil
	})
	return remaining, err
}

func (r *ProductRepo) SetStock(ctx context.Context, id, qty int64) error {
	return r.v.do(ctx, OpSetStock, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.Quantity = qty
		p.UpdatedAt = time.Now()
		st.products[id] = p
		return nil
	})
}

// SetPurchasePrice fija el costo de compra del producto.
func (r *ProductRepo) SetPurchasePrice(ctx context.Context, id int64, cost decimal.Decimal) error {
	return r.v.do(ctx, OpSetCost, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.PurchasePrice = cost
		p.UpdatedAt = time.Now()
		st.products[id] = p
		return nil
	})
}
