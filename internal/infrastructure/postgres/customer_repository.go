package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, name, COALESCE(phone, ''), COALESCE(email, ''), COALESCE(address, ''),
	COALESCE(tax_number, ''), credit_limit, balance, is_active, created_at, updated_at`

// Create persiste un nuevo cliente. Si customer.ID > 0 se respeta (cliente de contado sembrado).
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	explicitID := customer.ID > 0
	query := `
		INSERT INTO customers (id, name, phone, email, address, tax_number, credit_limit, balance, is_active)
		VALUES (COALESCE($1, nextval(pg_get_serial_sequence('customers', 'id'))), $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		nullIfZero(customer.ID), customer.Name, nullIfEmpty(customer.Phone), nullIfEmpty(customer.Email),
		nullIfEmpty(customer.Address), nullIfEmpty(customer.TaxNumber), customer.CreditLimit, customer.Balance,
		customer.IsActive,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	if explicitID {
		return syncSequence(ctx, r.q, "customers")
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// List lista clientes por ID con paginación.
func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]*entity.Customer, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+customerColumns+` FROM customers ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCustomer(row scanner) (*entity.Customer, error) {
	var c entity.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.TaxNumber,
		&c.CreditLimit, &c.Balance, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
