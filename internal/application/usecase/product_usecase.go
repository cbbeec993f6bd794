package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	domainbilling "github.com/jhoicas/Ventas-api/internal/domain/billing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. La existencia solo cambia vía movimientos (venta o ajuste).
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con existencia 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid(domain.ErrInvalidInput, "el nombre es obligatorio")
	}
	if !domainbilling.InputBounded(in.SalePrice) || !domainbilling.InputBounded(in.PurchasePrice) {
		return nil, domain.Invalid(domain.ErrInvalidInput, "precio fuera de rango")
	}
	if in.SalePrice.IsNegative() || in.PurchasePrice.IsNegative() {
		return nil, domain.Invalid(domain.ErrInvalidInput, "los precios no pueden ser negativos")
	}
	if in.MinimumQuantity < 0 {
		return nil, domain.Invalid(domain.ErrInvalidInput, "la cantidad mínima no puede ser negativa")
	}
	unit := strings.TrimSpace(in.UnitOfMeasure)
	if unit == "" {
		unit = "unit"
	}
	now := time.Now()
	product := &entity.Product{
		Name:            name,
		Barcode:         strings.TrimSpace(in.Barcode),
		SalePrice:       in.SalePrice,
		PurchasePrice:   in.PurchasePrice,
		UnitOfMeasure:   unit,
		MinimumQuantity: in.MinimumQuantity,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update aplica cambios parciales. No permite modificar existencia ni costo (se manejan vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid(domain.ErrInvalidInput, "el nombre no puede quedar vacío")
		}
		product.Name = name
	}
	if in.Barcode != nil {
		product.Barcode = strings.TrimSpace(*in.Barcode)
	}
	if in.SalePrice != nil {
		if !domainbilling.InputBounded(*in.SalePrice) || in.SalePrice.IsNegative() {
			return nil, domain.Invalid(domain.ErrInvalidInput, "precio de venta inválido")
		}
		product.SalePrice = *in.SalePrice
	}
	if in.UnitOfMeasure != nil {
		if unit := strings.TrimSpace(*in.UnitOfMeasure); unit != "" {
			product.UnitOfMeasure = unit
		}
	}
	if in.MinimumQuantity != nil {
		if *in.MinimumQuantity < 0 {
			return nil, domain.Invalid(domain.ErrInvalidInput, "la cantidad mínima no puede ser negativa")
		}
		product.MinimumQuantity = *in.MinimumQuantity
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Deactivate retira el producto de la venta sin borrarlo; facturas y movimientos lo siguen referenciando.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id int64) error {
	inactive := false
	_, err := uc.Update(ctx, id, dto.UpdateProductRequest{IsActive: &inactive})
	return err
}

// List lista productos paginados.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Barcode:         p.Barcode,
		SalePrice:       p.SalePrice,
		PurchasePrice:   p.PurchasePrice,
		Quantity:        p.Quantity,
		UnitOfMeasure:   p.UnitOfMeasure,
		MinimumQuantity: p.MinimumQuantity,
		StockStatus:     p.StockStatus(),
		IsActive:        p.IsActive,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
