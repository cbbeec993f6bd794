package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// DetermineStatus clasifica el estado de una factura recién creada.
// Un estado solicitado que pertenezca a la enumeración se respeta tal cual; si no, se deriva de los montos:
// pagado <= 0 → Unpaid; 0 < pagado < total → PartiallyPaid; pagado >= total → Paid.
func DetermineStatus(total, paid decimal.Decimal, requested string) entity.InvoiceStatus {
	if s := entity.InvoiceStatus(requested); requested != "" && s.Valid() {
		return s
	}
	switch {
	case !paid.IsPositive():
		return entity.InvoiceStatusUnpaid
	case paid.LessThan(total):
		return entity.InvoiceStatusPartiallyPaid
	default:
		return entity.InvoiceStatusPaid
	}
}
