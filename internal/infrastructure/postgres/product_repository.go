package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, COALESCE(barcode, ''), sale_price, purchase_price, quantity,
	unit_of_measure, minimum_quantity, is_active, created_at, updated_at`

// Create persiste un nuevo producto. El código de barras, si viene, es único.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	explicitID := product.ID > 0
	query := `
		INSERT INTO products (id, name, barcode, sale_price, purchase_price, quantity, unit_of_measure, minimum_quantity, is_active)
		VALUES (COALESCE($1, nextval(pg_get_serial_sequence('products', 'id'))), $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		nullIfZero(product.ID), product.Name, nullIfEmpty(product.Barcode), product.SalePrice, product.PurchasePrice,
		product.Quantity, product.UnitOfMeasure, product.MinimumQuantity, product.IsActive,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	if explicitID {
		return syncSequence(ctx, r.q, "products")
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del producto hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List lista productos por ID con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
}

// ListBelowMinimum productos activos en o bajo su mínimo, los más agotados primero.
func (r *ProductRepo) ListBelowMinimum(ctx context.Context, limit int) ([]*entity.Product, error) {
	return r.list(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE is_active AND quantity <= minimum_quantity
		ORDER BY quantity, id LIMIT $1`, limit)
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// DecrementStock descuenta en una sola sentencia condicional; no hay ventana entre leer y escribir.
func (r *ProductRepo) DecrementStock(ctx context.Context, id, qty int64, allowNegative bool) (int64, error) {
	var remaining int64
	err := r.q.QueryRow(ctx, `
		UPDATE products SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND ($3 OR quantity >= $2)
		RETURNING quantity`, id, qty, allowNegative).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	// Sin filas: o el producto no existe o no alcanza la existencia.
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return 0, domain.ErrNotFound
	}
	return 0, domain.ErrInsufficientStock
}

// SetStock fija la existencia del producto.
func (r *ProductRepo) SetStock(ctx context.Context, id, qty int64) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`, id, qty)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Update guarda los campos editables del producto y refresca existencia, costo y fechas desde la fila.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, barcode = $3, sale_price = $4, unit_of_measure = $5, minimum_quantity = $6, is_active = $7,
			updated_at = now()
		WHERE id = $1
		RETURNING quantity, purchase_price, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		product.ID, product.Name, nullIfEmpty(product.Barcode), product.SalePrice,
		product.UnitOfMeasure, product.MinimumQuantity, product.IsActive,
	).Scan(&product.Quantity, &product.PurchasePrice, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// SetPurchasePrice fija el costo de compra del producto.
func (r *ProductRepo) SetPurchasePrice(ctx context.Context, id int64, cost decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET purchase_price = $2, updated_at = now() WHERE id = $1`, id, cost)
	if err != nil {
		return fmt.Errorf("set purchase price: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row scanner) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Barcode, &p.SalePrice, &p.PurchasePrice, &p.Quantity,
		&p.UnitOfMeasure, &p.MinimumQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
