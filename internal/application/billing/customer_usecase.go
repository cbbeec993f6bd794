package billing

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes (facturación).
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid(domain.ErrInvalidInput, "el nombre es obligatorio")
	}
	creditLimit := decimal.Zero
	if in.CreditLimit != nil {
		if in.CreditLimit.IsNegative() {
			return nil, domain.Invalid(domain.ErrInvalidInput, "el límite de crédito no puede ser negativo")
		}
		creditLimit = *in.CreditLimit
	}
	now := time.Now()
	customer := &entity.Customer{
		Name:        name,
		Phone:       strings.TrimSpace(in.Phone),
		Email:       strings.TrimSpace(in.Email),
		Address:     strings.TrimSpace(in.Address),
		TaxNumber:   strings.TrimSpace(in.TaxNumber),
		CreditLimit: creditLimit,
		Balance:     decimal.Zero,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	resp := toCustomerResponse(customer)
	return &resp, nil
}

// List lista clientes.
func (uc *CustomerUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// VerifyFallbackCustomer comprueba que el cliente de contado exista. Se llama una vez al arrancar.
func (uc *CustomerUseCase) VerifyFallbackCustomer(ctx context.Context, id int64) (bool, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

// EnsureFallbackCustomer crea el cliente de contado con el ID configurado si aún no existe.
// Devuelve true si lo creó.
func (uc *CustomerUseCase) EnsureFallbackCustomer(ctx context.Context, id int64, name string) (bool, error) {
	exists, err := uc.VerifyFallbackCustomer(ctx, id)
	if err != nil || exists {
		return false, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Cliente de contado"
	}
	now := time.Now()
	customer := &entity.Customer{ID: id, Name: name, IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return false, err
	}
	return true, nil
}
