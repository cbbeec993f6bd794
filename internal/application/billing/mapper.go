package billing

import (
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:              inv.ID,
		Reference:       inv.Reference,
		InvoiceNumber:   inv.Number,
		InvoiceDate:     inv.Date,
		CustomerID:      inv.CustomerID,
		CustomerName:    inv.CustomerName,
		PaymentMethod:   inv.PaymentMethod,
		SubTotal:        inv.SubTotal,
		DiscountPercent: inv.DiscountPercent,
		DiscountAmount:  inv.DiscountAmount,
		TaxPercent:      inv.TaxPercent,
		TaxAmount:       inv.TaxAmount,
		TotalAmount:     inv.TotalAmount,
		AmountPaid:      inv.AmountPaid,
		AmountDue:       inv.AmountDue,
		Status:          string(inv.Status),
		Notes:           inv.Notes,
		CompanyID:       inv.CompanyID,
		CreatedBy:       inv.CreatedBy,
		CreatedAt:       inv.CreatedAt,
	}
	if items != nil {
		resp.Items = toItemResponses(items)
	}
	return resp
}

func toItemResponses(items []*entity.InvoiceItem) []dto.InvoiceItemResponse {
	out := make([]dto.InvoiceItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.InvoiceItemResponse{
			ID:              it.ID,
			InvoiceID:       it.InvoiceID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			DiscountAmount:  it.DiscountAmount,
			TaxPercent:      it.TaxPercent,
			TaxAmount:       it.TaxAmount,
			LineTotal:       it.LineTotal,
		})
	}
	return out
}

func toCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Phone:       c.Phone,
		Email:       c.Email,
		Address:     c.Address,
		TaxNumber:   c.TaxNumber,
		CreditLimit: c.CreditLimit,
		Balance:     c.Balance,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}
