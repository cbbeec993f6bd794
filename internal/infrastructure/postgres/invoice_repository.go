package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceSelect = `
	SELECT i.id, i.reference, i.invoice_number, i.invoice_date, i.customer_id, COALESCE(c.name, ''),
		i.payment_method, i.sub_total, i.discount_percent, i.discount_amount, i.tax_percent, i.tax_amount,
		i.total_amount, i.amount_paid, i.amount_due, i.status, COALESCE(i.notes, ''),
		COALESCE(i.company_id, 0), COALESCE(i.created_by, 0), i.created_at, i.updated_at
	FROM invoices i
	LEFT JOIN customers c ON c.id = i.customer_id`

// Create persiste la cabecera de la factura. La referencia es única; un choque es ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (reference, invoice_number, invoice_date, customer_id, payment_method,
			sub_total, discount_percent, discount_amount, tax_percent, tax_amount, total_amount,
			amount_paid, amount_due, status, notes, company_id, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			COALESCE($18, now()), COALESCE($18, now()))
		RETURNING id, created_at, updated_at`
	var createdAt any
	if !invoice.CreatedAt.IsZero() {
		createdAt = invoice.CreatedAt
	}
	err := r.q.QueryRow(ctx, query,
		invoice.Reference, invoice.Number, invoice.Date, invoice.CustomerID, invoice.PaymentMethod,
		invoice.SubTotal, invoice.DiscountPercent, invoice.DiscountAmount, invoice.TaxPercent, invoice.TaxAmount,
		invoice.TotalAmount, invoice.AmountPaid, invoice.AmountDue, string(invoice.Status), nullIfEmpty(invoice.Notes),
		nullIfZero(invoice.CompanyID), nullIfZero(invoice.CreatedBy), createdAt,
	).Scan(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice reference %s: %w", invoice.Reference, domain.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("invoice customer %d: %w", invoice.CustomerID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la factura.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (invoice_id, product_id, quantity, unit_price, discount_percent,
			discount_amount, tax_percent, tax_amount, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.InvoiceID, item.ProductID, item.Quantity, item.UnitPrice, item.DiscountPercent,
		item.DiscountAmount, item.TaxPercent, item.TaxAmount, item.LineTotal,
	).Scan(&item.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("invoice item product %d: %w", item.ProductID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera con el nombre del cliente.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	return r.getOne(ctx, invoiceSelect+` WHERE i.id = $1`, id)
}

// GetByReference obtiene la cabecera por su referencia UUID.
func (r *InvoiceRepo) GetByReference(ctx context.Context, reference string) (*entity.Invoice, error) {
	return r.getOne(ctx, invoiceSelect+` WHERE i.reference = $1`, reference)
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, arg any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetItemsByInvoiceID devuelve las líneas en orden de inserción con el nombre del producto.
func (r *InvoiceRepo) GetItemsByInvoiceID(ctx context.Context, invoiceID int64) ([]*entity.InvoiceItem, error) {
	query := `
		SELECT it.id, it.invoice_id, it.product_id, COALESCE(p.name, ''), it.quantity, it.unit_price,
			it.discount_percent, it.discount_amount, it.tax_percent, it.tax_amount, it.line_total
		FROM invoice_items it
		LEFT JOIN products p ON p.id = it.product_id
		WHERE it.invoice_id = $1
		ORDER BY it.id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var items []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice,
			&it.DiscountPercent, &it.DiscountAmount, &it.TaxPercent, &it.TaxAmount, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// List aplica los filtros y devuelve la página más el total de coincidencias.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	where, args := invoiceWhere(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM invoices i LEFT JOIN customers c ON c.id = i.customer_id` + where
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`%s%s ORDER BY i.invoice_date DESC, i.id DESC LIMIT $%d OFFSET $%d`,
		invoiceSelect, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

// invoiceWhere arma la cláusula WHERE con placeholders numerados.
func invoiceWhere(f repository.InvoiceFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Search != "" {
		add(`(i.invoice_number ILIKE $%[1]d OR c.name ILIKE $%[1]d)`, "%"+escapeLike(f.Search)+"%")
	}
	if f.Status != "" {
		add(`i.status = $%d`, string(f.Status))
	}
	if f.CustomerID != 0 {
		add(`i.customer_id = $%d`, f.CustomerID)
	}
	if f.From != nil {
		add(`i.invoice_date >= $%d`, *f.From)
	}
	if f.To != nil {
		add(`i.invoice_date <= $%d`, *f.To)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanInvoice(row scanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status string
	if err := row.Scan(&inv.ID, &inv.Reference, &inv.Number, &inv.Date, &inv.CustomerID, &inv.CustomerName,
		&inv.PaymentMethod, &inv.SubTotal, &inv.DiscountPercent, &inv.DiscountAmount, &inv.TaxPercent, &inv.TaxAmount,
		&inv.TotalAmount, &inv.AmountPaid, &inv.AmountDue, &status, &inv.Notes,
		&inv.CompanyID, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatus(status)
	return &inv, nil
}
