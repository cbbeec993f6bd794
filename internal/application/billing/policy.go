package billing

import (
	"fmt"
	"strings"
)

// Políticas ante cliente inexistente.
const (
	MissingCustomerFallback = "fallback"
	MissingCustomerReject   = "reject"
)

// Políticas ante líneas con producto inválido o inexistente.
const (
	InvalidItemDrop   = "drop"
	InvalidItemReject = "reject"
)

// Políticas de stock.
const (
	StockReject    = "reject"
	StockBackorder = "backorder"
)

// Policy decisiones de negocio del pipeline, inyectadas desde configuración.
type Policy struct {
	FallbackCustomerID   int64
	OnMissingCustomer    string
	OnInvalidItem        string
	StockPolicy          string
	ClampAmountDue       bool
	RequirePositiveTotal bool
	NumberPrefix         string
	DefaultPaymentMethod string
	DefaultCompanyID     int64
}

// DefaultPolicy comportamiento del sistema original: cliente de contado 2, descartar líneas inválidas,
// pero rechazando stock insuficiente y totales no positivos.
func DefaultPolicy() Policy {
	return Policy{
		FallbackCustomerID:   2,
		OnMissingCustomer:    MissingCustomerFallback,
		OnInvalidItem:        InvalidItemDrop,
		StockPolicy:          StockReject,
		RequirePositiveTotal: true,
		NumberPrefix:         "INV",
		DefaultPaymentMethod: "cash",
	}
}

// Validate normaliza y verifica los valores enumerados.
func (p *Policy) Validate() error {
	p.OnMissingCustomer = strings.ToLower(strings.TrimSpace(p.OnMissingCustomer))
	p.OnInvalidItem = strings.ToLower(strings.TrimSpace(p.OnInvalidItem))
	p.StockPolicy = strings.ToLower(strings.TrimSpace(p.StockPolicy))
	switch p.OnMissingCustomer {
	case MissingCustomerFallback, MissingCustomerReject:
	default:
		return fmt.Errorf("política de cliente inexistente desconocida: %q", p.OnMissingCustomer)
	}
	switch p.OnInvalidItem {
	case InvalidItemDrop, InvalidItemReject:
	default:
		return fmt.Errorf("política de ítem inválido desconocida: %q", p.OnInvalidItem)
	}
	switch p.StockPolicy {
	case StockReject, StockBackorder:
	default:
		return fmt.Errorf("política de stock desconocida: %q", p.StockPolicy)
	}
	if p.OnMissingCustomer == MissingCustomerFallback && p.FallbackCustomerID <= 0 {
		return fmt.Errorf("el cliente de contado debe ser un ID positivo (actual %d)", p.FallbackCustomerID)
	}
	return nil
}

// AllowBackorder indica si el stock puede quedar negativo.
func (p Policy) AllowBackorder() bool {
	return p.StockPolicy == StockBackorder
}
