package billing

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	domainbilling "github.com/jhoicas/Ventas-api/internal/domain/billing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// CreateInvoiceUseCase crea una factura y descuenta el inventario en una sola transacción.
type CreateInvoiceUseCase struct {
	txRunner    BillingTxRunner
	inventoryUC InventoryUseCase
	resolver    *EntityResolver
	numbers     *domainbilling.NumberGenerator
	policy      Policy
	metrics     Metrics
	log         zerolog.Logger
	now         func() time.Time
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner BillingTxRunner,
	inventoryUC InventoryUseCase,
	resolver *EntityResolver,
	policy Policy,
	metrics Metrics,
	log zerolog.Logger,
) *CreateInvoiceUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &CreateInvoiceUseCase{
		txRunner:    txRunner,
		inventoryUC: inventoryUC,
		resolver:    resolver,
		numbers:     domainbilling.NewNumberGenerator(policy.NumberPrefix),
		policy:      policy,
		metrics:     metrics,
		log:         log,
		now:         time.Now,
	}
}

// SetClock reemplaza el reloj (tests).
func (uc *CreateInvoiceUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// SetNumberGenerator reemplaza el generador de números (tests).
func (uc *CreateInvoiceUseCase) SetNumberGenerator(g *domainbilling.NumberGenerator) {
	uc.numbers = g
}

// CreateInvoice resuelve cliente y canasta, calcula totales y estado, y persiste
// cabecera, líneas y salida de inventario de forma atómica.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, actor Actor, in dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error) {
	start := time.Now()
	resp, err := uc.createInvoice(ctx, actor, in)
	uc.metrics.ObserveCreateDuration(time.Since(start))
	if err != nil {
		reason := rejectionReason(err)
		uc.metrics.InvoiceRejected(reason)
		ev := uc.log.Warn()
		if reason == "storage_failure" || reason == "transaction_aborted" {
			ev = uc.log.Error()
		}
		ev.Err(err).Str("reason", reason).Int64("user_id", actor.UserID).Msg("factura rechazada")
		return nil, err
	}
	uc.metrics.InvoiceCreated(resp.Invoice.Status)
	uc.log.Info().
		Int64("invoice_id", resp.Invoice.ID).
		Str("number", resp.Invoice.InvoiceNumber).
		Str("reference", resp.Invoice.Reference).
		Str("total", resp.Invoice.TotalAmount.String()).
		Str("status", resp.Invoice.Status).
		Int("dropped", len(resp.DroppedItems)).
		Msg("factura creada")
	return resp, nil
}

func (uc *CreateInvoiceUseCase) createInvoice(ctx context.Context, actor Actor, in dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error) {
	head := in.Invoice

	// 1) Cliente: ausente = venta de contado
	customer, err := uc.resolver.ResolveCustomer(ctx, head.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.Present {
		customer.CustomerID = uc.policy.FallbackCustomerID
	}

	// 2) Canasta
	basket, err := uc.resolver.ResolveProducts(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	// Validaciones de cabecera (antes de cualquier escritura)
	discountPct, taxPct, amountPaid := decimal.Zero, decimal.Zero, decimal.Zero
	if head.DiscountPercent != nil {
		discountPct = *head.DiscountPercent
	}
	if head.TaxPercent != nil {
		taxPct = *head.TaxPercent
	}
	if head.AmountPaid != nil {
		amountPaid = *head.AmountPaid
	}
	if !domainbilling.InputBounded(discountPct) || !domainbilling.InputBounded(taxPct) || !domainbilling.InputBounded(amountPaid) {
		return nil, domain.Invalid(domain.ErrInvalidAmount, "valor numérico de factura fuera de rango")
	}
	if !domainbilling.ValidPercent(discountPct) {
		return nil, domain.Invalid(domain.ErrInvalidAmount, "descuento de factura fuera de [0, 100]")
	}
	if !domainbilling.ValidPercent(taxPct) {
		return nil, domain.Invalid(domain.ErrInvalidAmount, "impuesto de factura fuera de [0, 100]")
	}
	if amountPaid.IsNegative() {
		return nil, domain.Invalid(domain.ErrInvalidAmount, "el monto pagado no puede ser negativo")
	}

	// 3) Número, referencia y fecha
	now := uc.now()
	date := now
	if s := strings.TrimSpace(head.InvoiceDate); s != "" {
		date, err = parseInvoiceDate(s)
		if err != nil {
			return nil, domain.Invalid(domain.ErrInvalidInput, "fecha de factura %q inválida", s)
		}
	}
	reference := uuid.New()
	if s := strings.TrimSpace(head.Reference); s != "" {
		reference, err = uuid.Parse(s)
		if err != nil {
			return nil, domain.Invalid(domain.ErrInvalidInput, "referencia %q no es un UUID", s)
		}
	}
	number := strings.TrimSpace(head.InvoiceNumber)
	if number == "" {
		number = uc.numbers.Next(now)
	}

	// 4) Líneas
	items := make([]*entity.InvoiceItem, 0, len(basket.Items))
	for _, r := range basket.Items {
		item := &entity.InvoiceItem{
			ProductID:       r.Product.ID,
			ProductName:     r.Product.Name,
			Quantity:        r.Quantity,
			UnitPrice:       r.UnitPrice,
			DiscountPercent: r.DiscountPercent,
			TaxPercent:      r.TaxPercent,
		}
		domainbilling.ComputeLine(item)
		items = append(items, item)
	}

	// 5) Totales (sobre el subconjunto válido) y capa de factura
	totals := domainbilling.ApplyInvoiceAdjustments(domainbilling.ComputeTotals(items), discountPct, taxPct)
	if uc.policy.RequirePositiveTotal && !totals.TotalAmount.IsPositive() {
		return nil, domain.Invalid(domain.ErrInvalidAmount, "el total de la factura debe ser positivo (%s)", totals.TotalAmount)
	}

	// 6) Estado
	status := domainbilling.DetermineStatus(totals.TotalAmount, amountPaid, head.Status)

	paymentMethod := strings.TrimSpace(head.PaymentMethod)
	if paymentMethod == "" {
		paymentMethod = uc.policy.DefaultPaymentMethod
	}
	companyID := actor.CompanyID
	if companyID == 0 {
		companyID = uc.policy.DefaultCompanyID
	}
	inv := &entity.Invoice{
		Reference:       reference.String(),
		Number:          number,
		Date:            date,
		CustomerID:      customer.CustomerID,
		PaymentMethod:   paymentMethod,
		SubTotal:        totals.SubTotal,
		DiscountPercent: discountPct,
		DiscountAmount:  totals.DiscountAmount,
		TaxPercent:      taxPct,
		TaxAmount:       totals.TaxAmount,
		TotalAmount:     totals.TotalAmount,
		AmountPaid:      amountPaid,
		AmountDue:       domainbilling.AmountDue(totals.TotalAmount, amountPaid, uc.policy.ClampAmountDue),
		Status:          status,
		Notes:           strings.TrimSpace(head.Notes),
		CompanyID:       companyID,
		CreatedBy:       actor.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if customer.Customer != nil {
		inv.CustomerName = customer.Customer.Name
	}

	// 7) Transacción: cabecera, líneas y salida de inventario; rollback ante cualquier error
	wrote := false
	err = uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return fmt.Errorf("insertar factura: %w", err)
		}
		wrote = true
		for _, item := range items {
			item.InvoiceID = inv.ID
			if err := invoiceRepo.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("insertar ítem (producto %d): %w", item.ProductID, err)
			}
		}
		// Un descuento por producto, en orden ascendente de ID para no invertir el orden de bloqueos
		perProduct := quantitiesByProduct(items)
		for _, productID := range slices.Sorted(maps.Keys(perProduct)) {
			if _, err := uc.inventoryUC.RegisterOUTInTx(
				ctx, productRepo, movRepo,
				productID, perProduct[productID],
				uc.policy.AllowBackorder(),
				actor.UserID, inv.ID, now,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, classifyTxError(err, wrote, inv.Reference)
	}

	// 8) Resultado
	out := &dto.CreateInvoiceResponse{
		Invoice:      toInvoiceResponse(inv, nil),
		Items:        toItemResponses(items),
		DroppedItems: make([]dto.DroppedItemResponse, 0, len(basket.Dropped)),
	}
	for _, d := range basket.Dropped {
		out.DroppedItems = append(out.DroppedItems, dto.DroppedItemResponse{
			Index:     d.Index,
			ProductID: d.ProductRef,
			Reason:    d.Reason,
		})
	}
	return out, nil
}

func quantitiesByProduct(items []*entity.InvoiceItem) map[int64]int64 {
	out := make(map[int64]int64, len(items))
	for _, item := range items {
		out[item.ProductID] += item.Quantity
	}
	return out
}

// classifyTxError traduce el error de la transacción (ya revertida) a la taxonomía de dominio.
func classifyTxError(err error, wrote bool, reference string) error {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return err
	case errors.Is(err, domain.ErrDuplicate):
		return domain.Invalid(domain.ErrDuplicate, "ya existe una factura con la referencia %s", reference)
	case wrote:
		return fmt.Errorf("%w: %w", domain.ErrTransactionAborted, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrStorageFailure, err)
	}
}

func parseInvoiceDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

// rejectionReason etiqueta de métrica para un error del pipeline.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCustomerReference):
		return "invalid_customer_reference"
	case errors.Is(err, domain.ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, domain.ErrInvalidBasket):
		return "invalid_basket"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrTransactionAborted):
		return "transaction_aborted"
	case errors.Is(err, domain.ErrStorageFailure):
		return "storage_failure"
	default:
		return "unknown"
	}
}
