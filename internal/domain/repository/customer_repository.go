package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// GetByID devuelve (nil, nil) cuando el cliente no existe.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
}
