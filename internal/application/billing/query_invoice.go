package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// InvoiceQueryUseCase consultas de facturas (detalle, conciliación por referencia y listado).
type InvoiceQueryUseCase struct {
	invoiceRepo repository.InvoiceRepository
}

// NewInvoiceQueryUseCase construye el caso de uso.
func NewInvoiceQueryUseCase(invoiceRepo repository.InvoiceRepository) *InvoiceQueryUseCase {
	return &InvoiceQueryUseCase{invoiceRepo: invoiceRepo}
}

// GetInvoice obtiene una factura por ID con sus líneas.
func (uc *InvoiceQueryUseCase) GetInvoice(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.withItems(ctx, inv)
}

// GetInvoiceByReference busca por la referencia UUID. Es la vía de conciliación cuando el
// cliente no sabe si su creación llegó a confirmarse.
func (uc *InvoiceQueryUseCase) GetInvoiceByReference(ctx context.Context, reference string) (*dto.InvoiceResponse, error) {
	ref, err := uuid.Parse(strings.TrimSpace(reference))
	if err != nil {
		return nil, domain.Invalid(domain.ErrInvalidInput, "referencia %q no es un UUID", reference)
	}
	inv, err := uc.invoiceRepo.GetByReference(ctx, ref.String())
	if err != nil {
		return nil, err
	}
	return uc.withItems(ctx, inv)
}

func (uc *InvoiceQueryUseCase) withItems(ctx context.Context, inv *entity.Invoice) (*dto.InvoiceResponse, error) {
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.InvoiceItem{}
	}
	resp := toInvoiceResponse(inv, items)
	return &resp, nil
}

// ListInvoices lista facturas con filtros y paginación.
func (uc *InvoiceQueryUseCase) ListInvoices(ctx context.Context, q dto.InvoiceListQuery) (*dto.InvoiceListResponse, error) {
	q.DefaultPage()
	filter := repository.InvoiceFilter{
		Search:     strings.TrimSpace(q.Search),
		CustomerID: q.CustomerID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	if s := strings.TrimSpace(q.Status); s != "" {
		status := entity.InvoiceStatus(s)
		if !status.Valid() {
			return nil, domain.Invalid(domain.ErrInvalidInput, "estado %q desconocido", s)
		}
		filter.Status = status
	}
	if q.From != "" {
		from, err := time.Parse(time.DateOnly, q.From)
		if err != nil {
			return nil, domain.Invalid(domain.ErrInvalidInput, "from %q debe ser YYYY-MM-DD", q.From)
		}
		filter.From = &from
	}
	if q.To != "" {
		to, err := time.Parse(time.DateOnly, q.To)
		if err != nil {
			return nil, domain.Invalid(domain.ErrInvalidInput, "to %q debe ser YYYY-MM-DD", q.To)
		}
		// Inclusivo: hasta el final del día
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &to
	}

	list, total, err := uc.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, toInvoiceResponse(inv, nil))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}
