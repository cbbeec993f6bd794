package billing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	domainbilling "github.com/jhoicas/Ventas-api/internal/domain/billing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// Motivos de descarte de una línea (también etiquetas de métricas).
const (
	DropReasonInvalidProductID = "invalid_product_id"
	DropReasonProductNotFound  = "product_not_found"
	DropReasonProductInactive  = "product_inactive"
)

// CustomerResolution resultado de resolver la referencia de cliente.
// Present=false: la solicitud no traía cliente. Substituted=true: se usó el cliente de contado.
type CustomerResolution struct {
	CustomerID  int64
	Customer    *entity.Customer
	Present     bool
	Substituted bool
}

// ResolvedItem línea válida con su producto ya leído.
type ResolvedItem struct {
	Index           int
	Product         *entity.Product
	Quantity        int64
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// DroppedItem línea descartada por la política de canasta.
type DroppedItem struct {
	Index      int
	ProductRef string
	Reason     string
}

// BasketResolution líneas sobrevivientes (en el orden de la solicitud) y descartadas.
type BasketResolution struct {
	Items   []ResolvedItem
	Dropped []DroppedItem
}

// EntityResolver convierte referencias crudas de la solicitud en entidades validadas.
type EntityResolver struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository
	policy    Policy
	metrics   Metrics
	log       zerolog.Logger
}

// NewEntityResolver construye el resolvedor.
func NewEntityResolver(
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	policy Policy,
	metrics Metrics,
	log zerolog.Logger,
) *EntityResolver {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &EntityResolver{
		customers: customers,
		products:  products,
		policy:    policy,
		metrics:   metrics,
		log:       log,
	}
}

// ResolveCustomer valida la referencia de cliente.
// Ausente → Present=false. No parseable → ErrInvalidCustomerReference.
// Inexistente (o error de lectura) → cliente de contado con la política fallback; con reject → ErrCustomerNotFound / ErrStorageFailure.
func (r *EntityResolver) ResolveCustomer(ctx context.Context, ref dto.EntityRef) (CustomerResolution, error) {
	if !ref.Present {
		return CustomerResolution{}, nil
	}
	id, ok := ref.ID()
	if !ok {
		return CustomerResolution{}, domain.Invalid(domain.ErrInvalidCustomerReference,
			"customerId %q no es un entero positivo", ref.Raw)
	}

	customer, err := r.customers.GetByID(ctx, id)
	if err != nil {
		if r.policy.OnMissingCustomer == MissingCustomerReject {
			return CustomerResolution{}, fmt.Errorf("%w: leer cliente %d: %w", domain.ErrStorageFailure, id, err)
		}
		r.log.Warn().Err(err).Int64("customer_id", id).Msg("error leyendo cliente; se usa cliente de contado")
		return r.substitute(id), nil
	}
	if customer == nil {
		if r.policy.OnMissingCustomer == MissingCustomerReject {
			return CustomerResolution{}, domain.Invalid(domain.ErrCustomerNotFound, "el cliente %d no existe", id)
		}
		r.log.Warn().Int64("customer_id", id).Msg("cliente inexistente; se usa cliente de contado")
		return r.substitute(id), nil
	}
	return CustomerResolution{CustomerID: id, Customer: customer, Present: true}, nil
}

func (r *EntityResolver) substitute(requested int64) CustomerResolution {
	r.metrics.CustomerSubstituted()
	r.log.Debug().
		Int64("requested_customer_id", requested).
		Int64("fallback_customer_id", r.policy.FallbackCustomerID).
		Msg("sustitución de cliente")
	return CustomerResolution{CustomerID: r.policy.FallbackCustomerID, Present: true, Substituted: true}
}

// ResolveProducts valida la canasta. Los valores numéricos mal formados rechazan toda la canasta;
// las referencias de producto inválidas o inexistentes se descartan o rechazan según la política.
// Falla con ErrInvalidBasket si la canasta está vacía o no sobrevive ninguna línea.
func (r *EntityResolver) ResolveProducts(ctx context.Context, items []dto.InvoiceItemRequest) (BasketResolution, error) {
	if len(items) == 0 {
		return BasketResolution{}, domain.Invalid(domain.ErrInvalidBasket, "la factura no tiene ítems")
	}
	for i := range items {
		if err := validateItemNumbers(i, &items[i]); err != nil {
			return BasketResolution{}, err
		}
	}

	var out BasketResolution
	cache := make(map[int64]*entity.Product, len(items))
	for i, item := range items {
		productID, ok := item.ProductID.ID()
		if !ok {
			if err := r.drop(&out, i, item.ProductID.Raw, DropReasonInvalidProductID); err != nil {
				return BasketResolution{}, err
			}
			continue
		}

		product, seen := cache[productID]
		if !seen {
			p, err := r.products.GetByID(ctx, productID)
			if err != nil {
				return BasketResolution{}, fmt.Errorf("%w: leer producto %d: %w", domain.ErrStorageFailure, productID, err)
			}
			cache[productID] = p
			product = p
		}
		if product == nil {
			if err := r.drop(&out, i, item.ProductID.Raw, DropReasonProductNotFound); err != nil {
				return BasketResolution{}, err
			}
			continue
		}
		// Un producto desactivado sigue en el catálogo pero ya no se vende.
		if !product.IsActive {
			if err := r.drop(&out, i, item.ProductID.Raw, DropReasonProductInactive); err != nil {
				return BasketResolution{}, err
			}
			continue
		}

		resolved := ResolvedItem{
			Index:     i,
			Product:   product,
			Quantity:  item.Quantity.IntPart(),
			UnitPrice: product.SalePrice,
		}
		if item.UnitPrice != nil {
			resolved.UnitPrice = *item.UnitPrice
		}
		if item.DiscountPercent != nil {
			resolved.DiscountPercent = *item.DiscountPercent
		}
		if item.TaxPercent != nil {
			resolved.TaxPercent = *item.TaxPercent
		}
		out.Items = append(out.Items, resolved)
	}

	if len(out.Items) == 0 {
		return out, domain.Invalid(domain.ErrInvalidBasket, "ningún ítem válido (%d descartados)", len(out.Dropped))
	}
	return out, nil
}

func (r *EntityResolver) drop(out *BasketResolution, index int, ref, reason string) error {
	if r.policy.OnInvalidItem == InvalidItemReject {
		return domain.Invalid(domain.ErrInvalidBasket, "ítem %d: producto %q inválido (%s)", index, ref, reason)
	}
	r.metrics.ItemDropped(reason)
	r.log.Warn().Int("index", index).Str("product_ref", ref).Str("reason", reason).Msg("ítem descartado")
	out.Dropped = append(out.Dropped, DroppedItem{Index: index, ProductRef: ref, Reason: reason})
	return nil
}

// maxQuantity límite práctico de unidades por línea.
var maxQuantity = decimal.NewFromInt(1_000_000_000)

func validateItemNumbers(index int, item *dto.InvoiceItemRequest) error {
	// Primero la magnitud: los valores fuera de rango no se comparan ni se formatean.
	if !domainbilling.InputBounded(item.Quantity) ||
		!domainbilling.InputBoundedPtr(item.UnitPrice) ||
		!domainbilling.InputBoundedPtr(item.DiscountPercent) ||
		!domainbilling.InputBoundedPtr(item.TaxPercent) {
		return domain.Invalid(domain.ErrInvalidBasket, "ítem %d: valor numérico fuera de rango", index)
	}
	q := item.Quantity
	if !q.IsPositive() || !q.Equal(q.Truncate(0)) || q.GreaterThan(maxQuantity) {
		return domain.Invalid(domain.ErrInvalidBasket, "ítem %d: la cantidad debe ser un entero positivo no mayor a %s", index, maxQuantity)
	}
	if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
		return domain.Invalid(domain.ErrInvalidBasket, "ítem %d: precio unitario negativo", index)
	}
	if item.DiscountPercent != nil && !domainbilling.ValidPercent(*item.DiscountPercent) {
		return domain.Invalid(domain.ErrInvalidBasket, "ítem %d: descuento fuera de [0, 100]", index)
	}
	if item.TaxPercent != nil && !domainbilling.ValidPercent(*item.TaxPercent) {
		return domain.Invalid(domain.ErrInvalidBasket, "ítem %d: impuesto fuera de [0, 100]", index)
	}
	return nil
}
