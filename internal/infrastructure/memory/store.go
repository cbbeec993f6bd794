// Package memory implementa los puertos de repositorio en memoria.
// Sirve para desarrollo sin PostgreSQL (STORAGE_DRIVER=memory) y para tests:
// las transacciones toman el candado global, trabajan sobre el estado vivo y
// restauran una copia si la función falla.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Operaciones en las que se puede inyectar un fallo.
const (
	OpBegin          = "tx.begin"
	OpCommit         = "tx.commit"
	OpCustomerCreate = "customer.create"
	OpCustomerGet    = "customer.get"
	OpProductCreate  = "product.create"
	OpProductGet     = "product.get"
	OpProductList    = "product.list"
	OpProductUpdate  = "product.update"
	OpDecrementStock = "product.decrement"
	OpSetStock       = "product.set_stock"
	OpSetCost        = "product.set_cost"
	OpInvoiceCreate  = "invoice.create"
	OpItemCreate     = "invoice.create_item"
	OpInvoiceGet     = "invoice.get"
	OpInvoiceList    = "invoice.list"
	OpMovementCreate = "movement.create"
	OpMovementList   = "movement.list"
)

type state struct {
	customers map[int64]entity.Customer
	products  map[int64]entity.Product
	invoices  map[int64]entity.Invoice
	items     map[int64][]entity.InvoiceItem // por factura
	movements []entity.StockMovement

	customerSeq, productSeq, invoiceSeq, itemSeq, movementSeq int64
}

func newState() *state {
	return &state{
		customers: make(map[int64]entity.Customer),
		products:  make(map[int64]entity.Product),
		invoices:  make(map[int64]entity.Invoice),
		items:     make(map[int64][]entity.InvoiceItem),
	}
}

func (st *state) clone() *state {
	c := *st
	c.customers = make(map[int64]entity.Customer, len(st.customers))
	for k, v := range st.customers {
		c.customers[k] = v
	}
	c.products = make(map[int64]entity.Product, len(st.products))
	for k, v := range st.products {
		c.products[k] = v
	}
	c.invoices = make(map[int64]entity.Invoice, len(st.invoices))
	for k, v := range st.invoices {
		c.invoices[k] = v
	}
	c.items = make(map[int64][]entity.InvoiceItem, len(st.items))
	for k, v := range st.items {
		c.items[k] = append([]entity.InvoiceItem(nil), v...)
	}
	c.movements = append([]entity.StockMovement(nil), st.movements...)
	return &c
}

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu     sync.Mutex
	st     *state
	faults map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), faults: make(map[string]error)}
}

// InjectFault hace que la próxima llamada a op (y las siguientes) fallen con err.
func (s *Store) InjectFault(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = err
}

// ClearFaults elimina los fallos inyectados.
func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]error)
}

// Customers repositorio de clientes fuera de transacción.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{v: view{s: s}} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{v: view{s: s}} }

// Invoices repositorio de facturas fuera de transacción.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{v: view{s: s}} }

// Movements repositorio de movimientos fuera de transacción.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{v: view{s: s}} }

// RunBilling implementa billing.BillingTxRunner.
func (s *Store) RunBilling(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return s.runTx(ctx, func(v view) error {
		return fn(&ProductRepo{v: v}, &InvoiceRepo{v: v}, &StockMovementRepo{v: v})
	})
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return s.runTx(ctx, func(v view) error {
		return fn(&ProductRepo{v: v}, &StockMovementRepo{v: v})
	})
}

func (s *Store) runTx(ctx context.Context, fn func(v view) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.faults[OpBegin]; err != nil {
		return err
	}
	snapshot := s.st.clone()
	if err := fn(view{s: s, inTx: true}); err != nil {
		s.st = snapshot
		return err
	}
	if err := s.faults[OpCommit]; err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// view acceso al estado: fuera de tx toma el candado por llamada; dentro de tx ya lo tiene.
type view struct {
	s    *Store
	inTx bool
}

func (v view) do(ctx context.Context, op string, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !v.inTx {
		v.s.mu.Lock()
		defer v.s.mu.Unlock()
	}
	if err := v.s.faults[op]; err != nil {
		return err
	}
	return fn(v.s.st)
}

func nextID(seq *int64, preset int64) int64 {
	if preset > 0 {
		if preset > *seq {
			*seq = preset
		}
		return preset
	}
	*seq++
	return *seq
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
