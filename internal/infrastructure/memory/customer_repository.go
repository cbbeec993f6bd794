package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// CustomerRepo implementación en memoria de CustomerRepository.
type CustomerRepo struct {
	v view
}

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// Create asigna el siguiente ID, o respeta uno preasignado (semillas).
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	return r.v.do(ctx, OpCustomerCreate, func(st *state) error {
		c.ID = nextID(&st.customerSeq, c.ID)
		st.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.v.do(ctx, OpCustomerGet, func(st *state) error {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	err := r.v.do(ctx, OpCustomerGet, func(st *state) error {
		all := make([]entity.Customer, 0, len(st.customers))
		for _, c := range st.customers {
			all = append(all, c)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
		for _, c := range page(all, limit, offset) {
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}
