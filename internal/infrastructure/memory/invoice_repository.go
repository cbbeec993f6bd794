package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// InvoiceRepo implementación en memoria de InvoiceRepository.
type InvoiceRepo struct {
	v view
}

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// Create asigna ID; la referencia es única como en el índice de PostgreSQL.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	return r.v.do(ctx, OpInvoiceCreate, func(st *state) error {
		for _, other := range st.invoices {
			if other.Reference == inv.Reference {
				return domain.ErrDuplicate
			}
		}
		now := time.Now()
		if inv.CreatedAt.IsZero() {
			inv.CreatedAt = now
		}
		inv.UpdatedAt = inv.CreatedAt
		inv.ID = nextID(&st.invoiceSeq, 0)
		st.invoices[inv.ID] = *inv
		return nil
	})
}

func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	return r.v.do(ctx, OpItemCreate, func(st *state) error {
		if _, ok := st.invoices[item.InvoiceID]; !ok {
			return domain.ErrNotFound
		}
		item.ID = nextID(&st.itemSeq, 0)
		st.items[item.InvoiceID] = append(st.items[item.InvoiceID], *item)
		return nil
	})
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.v.do(ctx, OpInvoiceGet, func(st *state) error {
		if inv, ok := st.invoices[id]; ok {
			out = withCustomerName(st, inv)
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetByReference(ctx context.Context, reference string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.v.do(ctx, OpInvoiceGet, func(st *state) error {
		for _, inv := range st.invoices {
			if inv.Reference == reference {
				out = withCustomerName(st, inv)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetItemsByInvoiceID(ctx context.Context, invoiceID int64) ([]*entity.InvoiceItem, error) {
	var out []*entity.InvoiceItem
	err := r.v.do(ctx, OpInvoiceGet, func(st *state) error {
		for _, it := range st.items[invoiceID] {
			if p, ok := st.products[it.ProductID]; ok {
				it.ProductName = p.Name
			}
			out = append(out, &it)
		}
		return nil
	})
	return out, err
}

// List ordena por fecha descendente (y luego ID) como el listado SQL.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var out []*entity.Invoice
	var total int
	err := r.v.do(ctx, OpInvoiceList, func(st *state) error {
		search := strings.ToLower(f.Search)
		var matched []entity.Invoice
		for _, inv := range st.invoices {
			inv = *withCustomerName(st, inv)
			if f.Status != "" && inv.Status != f.Status {
				continue
			}
			if f.CustomerID != 0 && inv.CustomerID != f.CustomerID {
				continue
			}
			if f.From != nil && inv.Date.Before(*f.From) {
				continue
			}
			if f.To != nil && inv.Date.After(*f.To) {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(inv.Number), search) &&
				!strings.Contains(strings.ToLower(inv.CustomerName), search) {
				continue
			}
			matched = append(matched, inv)
		}
		sort.Slice(matched, func(i, j int) bool {
			if !matched[i].Date.Equal(matched[j].Date) {
				return matched[i].Date.After(matched[j].Date)
			}
			return matched[i].ID > matched[j].ID
		})
		total = len(matched)
		for _, inv := range page(matched, f.Limit, f.Offset) {
			out = append(out, &inv)
		}
		return nil
	})
	return out, total, err
}

func withCustomerName(st *state, inv entity.Invoice) *entity.Invoice {
	if c, ok := st.customers[inv.CustomerID]; ok {
		inv.CustomerName = c.Name
	}
	return &inv
}
