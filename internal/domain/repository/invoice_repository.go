package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// InvoiceFilter criterios de búsqueda para el listado de facturas.
type InvoiceFilter struct {
	Search     string // número de factura o nombre de cliente (contiene, sin distinguir mayúsculas)
	Status     entity.InvoiceStatus
	CustomerID int64
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// Create inserta la cabecera y asigna invoice.ID desde la secuencia de la BD.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// CreateItem inserta una línea y asigna item.ID.
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	GetByReference(ctx context.Context, reference string) (*entity.Invoice, error)
	GetItemsByInvoiceID(ctx context.Context, invoiceID int64) ([]*entity.InvoiceItem, error)
	// List devuelve la página solicitada y el total de coincidencias.
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, int, error)
}
