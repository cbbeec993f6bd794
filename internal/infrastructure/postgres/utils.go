package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation 23503: la fila referenciada no existe (p. ej. cliente borrado a mitad de la venta).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullIfZero(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// scanner abstrae pgx.Row y pgx.Rows para reutilizar las funciones scanX.
type scanner interface {
	Scan(dest ...any) error
}

// syncSequence adelanta la secuencia de la tabla tras insertar un ID explícito,
// para que el siguiente nextval no colisione con filas sembradas. table es siempre una constante interna.
func syncSequence(ctx context.Context, q Querier, table string) error {
	query := fmt.Sprintf(
		`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), (SELECT GREATEST(MAX(id), 1) FROM %[1]s))`, table)
	if _, err := q.Exec(ctx, query); err != nil {
		return fmt.Errorf("sync %s sequence: %w", table, err)
	}
	return nil
}
