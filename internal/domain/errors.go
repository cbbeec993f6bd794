package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Taxonomía del pipeline de facturación.
	ErrInvalidCustomerReference = errors.New("referencia de cliente inválida")
	ErrCustomerNotFound         = errors.New("cliente no encontrado")
	ErrInvalidBasket            = errors.New("canasta de productos inválida")
	ErrInvalidAmount            = errors.New("monto inválido")
	ErrStorageFailure           = errors.New("fallo de almacenamiento")
	ErrTransactionAborted       = errors.New("transacción abortada")
)

// ValidationError envuelve un error de dominio con un detalle legible para el cliente.
// errors.Is(err, ErrInvalidBasket) sigue funcionando gracias a Unwrap.
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Invalid construye un *ValidationError con detalle formateado.
func Invalid(err error, format string, args ...any) error {
	return &ValidationError{Err: err, Details: fmt.Sprintf(format, args...)}
}

// IsValidation indica si el error es corregible por el cliente (respuesta 400).
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidCustomerReference) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrInvalidBasket) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidInput)
}
