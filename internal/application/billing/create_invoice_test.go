package billing_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/billing"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

// ──── Escenarios de extremo a extremo ────────────────────────────────────────

func TestCreateInvoice_EscenarioADescuentoEImpuestoDeLinea(t *testing.T) {
	f := newFixture(t)
	req := request(dto.InvoiceItemRequest{
		ProductID:       dto.RefOf(cafeID),
		Quantity:        decimal.NewFromInt(2),
		UnitPrice:       dp("100"),
		DiscountPercent: dp("10"),
		TaxPercent:      dp("15"),
	})
	req.Invoice.CustomerID = dto.RefOf(anaID)

	resp, err := f.uc.CreateInvoice(context.Background(), billing.Actor{UserID: 7, CompanyID: 1}, req)
	require.NoError(t, err)

	inv := resp.Invoice
	assert.Positive(t, inv.ID)
	assert.Equal(t, "INV-250309-007", inv.InvoiceNumber)
	_, err = uuid.Parse(inv.Reference)
	assert.NoError(t, err, "la referencia es un UUID")
	assert.Equal(t, anaID, inv.CustomerID)
	assert.Equal(t, "Ana Pérez", inv.CustomerName)
	assert.True(t, decimal.NewFromInt(200).Equal(inv.SubTotal))
	assert.True(t, decimal.NewFromInt(20).Equal(inv.DiscountAmount))
	assert.True(t, decimal.NewFromInt(27).Equal(inv.TaxAmount))
	assert.True(t, decimal.NewFromInt(207).Equal(inv.TotalAmount))
	assert.True(t, decimal.NewFromInt(207).Equal(inv.AmountDue))
	assert.Equal(t, string(entity.InvoiceStatusUnpaid), inv.Status)
	assert.Equal(t, int64(7), inv.CreatedBy)
	assert.Equal(t, int64(1), inv.CompanyID)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, inv.ID, resp.Items[0].InvoiceID)
	assert.True(t, decimal.NewFromInt(207).Equal(resp.Items[0].LineTotal))
	assert.Empty(t, resp.DroppedItems)

	// Stock descontado con su movimiento de salida referenciando la factura
	assert.Equal(t, int64(8), f.stock(t, cafeID))
	movs, err := f.store.Movements().ListByProduct(context.Background(), cafeID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeOUT, movs[0].Type)
	assert.Equal(t, int64(2), movs[0].Quantity)
	assert.Equal(t, int64(10), movs[0].PreviousQuantity)
	assert.Equal(t, int64(8), movs[0].NewQuantity)
	assert.Equal(t, entity.MovementRefInvoice, movs[0].ReferenceType)
	assert.Equal(t, inv.ID, movs[0].ReferenceID)

	assert.Equal(t, 1, f.metrics.created[string(entity.InvoiceStatusUnpaid)])
	assert.Equal(t, 1, f.metrics.observed)
}

func TestCreateInvoice_EscenarioBProductoInexistenteUnicoItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request(line(missingID, 1)))

	require.ErrorIs(t, err, domain.ErrInvalidBasket)
	assert.Zero(t, f.invoiceCount(t), "no se crea ninguna factura")
	assert.Equal(t, int64(10), f.stock(t, cafeID))
	assert.Equal(t, int64(3), f.stock(t, panID))
	assert.Equal(t, 1, f.metrics.rejected["invalid_basket"])
}

func TestCreateInvoice_EscenarioCSinPagoQuedaUnpaid(t *testing.T) {
	f := newFixture(t)
	req := request(line(panID, 1))
	req.Invoice.AmountPaid = dp("0")

	resp, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)

	require.NoError(t, err)
	assert.Equal(t, string(entity.InvoiceStatusUnpaid), resp.Invoice.Status)
}

// ──── Atomicidad ─────────────────────────────────────────────────────────────

func TestCreateInvoice_FalloEntreFacturaYStockNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	f.store.InjectFault(memory.OpDecrementStock, errors.New("conexión perdida"))

	_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request(line(cafeID, 2)))

	require.ErrorIs(t, err, domain.ErrTransactionAborted)
	assert.Zero(t, f.invoiceCount(t), "la factura insertada se revierte")
	assert.Equal(t, int64(10), f.stock(t, cafeID))
	movs, err := f.store.Movements().ListByProduct(context.Background(), cafeID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, movs)
	assert.Equal(t, 1, f.metrics.rejected["transaction_aborted"])
}

func TestCreateInvoice_FalloAntesDeEscribirEsStorageFailure(t *testing.T) {
	f := newFixture(t)
	f.store.InjectFault(memory.OpBegin, errors.New("pool agotado"))

	_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request(line(cafeID, 1)))

	require.ErrorIs(t, err, domain.ErrStorageFailure)
	assert.NotErrorIs(t, err, domain.ErrTransactionAborted)
	assert.Zero(t, f.invoiceCount(t))
}

func TestCreateInvoice_FalloAlInsertarLineasRevierteCabecera(t *testing.T) {
	f := newFixture(t)
	f.store.InjectFault(memory.OpItemCreate, errors.New("violación de restricción"))

	_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request(line(cafeID, 1)))

	require.ErrorIs(t, err, domain.ErrTransactionAborted)
	assert.Zero(t, f.invoiceCount(t))
	assert.Equal(t, int64(10), f.stock(t, cafeID))
}

// ──── Stock ──────────────────────────────────────────────────────────────────

func TestCreateInvoice_StockInsuficienteRechaza(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request(line(cafeID, 1), line(panID, 4)))

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Zero(t, f.invoiceCount(t))
	assert.Equal(t, int64(10), f.stock(t, cafeID), "el descuento del primer producto se revierte")
	assert.Equal(t, int64(3), f.stock(t, panID))
}

func TestCreateInvoice_BackorderPermiteNegativo(t *testing.T) {
	f := newFixture(t, func(p *billing.Policy) { p.StockPolicy = billing.StockBackorder })

	_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request(line(panID, 5)))

	require.NoError(t, err)
	assert.Equal(t, int64(-2), f.stock(t, panID))
}

func TestCreateInvoice_AgrupaCantidadesPorProducto(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request(line(cafeID, 3), line(cafeID, 4)))

	require.NoError(t, err)
	assert.Len(t, resp.Items, 2, "las líneas se conservan tal cual")
	assert.Equal(t, int64(3), f.stock(t, cafeID))
	movs, err := f.store.Movements().ListByProduct(context.Background(), cafeID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1, "un solo movimiento por producto")
	assert.Equal(t, int64(7), movs[0].Quantity)
}

// ──── Canasta ────────────────────────────────────────────────────────────────

func TestCreateInvoice_FiltraItemsInvalidos(t *testing.T) {
	f := newFixture(t)
	invalid := dto.InvoiceItemRequest{ProductID: dto.RawRef("abc"), Quantity: decimal.NewFromInt(1)}

	resp, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request(line(cafeID, 1), invalid, line(panID, 2)))

	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, cafeID, resp.Items[0].ProductID)
	assert.Equal(t, panID, resp.Items[1].ProductID)
	require.Len(t, resp.DroppedItems, 1)
	assert.Equal(t, 1, resp.DroppedItems[0].Index)
	assert.Equal(t, billing.DropReasonInvalidProductID, resp.DroppedItems[0].Reason)
	// Totales solo sobre las líneas válidas: 100 + 2*5
	assert.True(t, decimal.NewFromInt(110).Equal(resp.Invoice.TotalAmount))
	assert.Equal(t, 1, f.metrics.dropped[billing.DropReasonInvalidProductID])
}

func TestCreateInvoice_CanastaSinItemsValidos(t *testing.T) {
	f := newFixture(t)
	invalid := dto.InvoiceItemRequest{ProductID: dto.RawRef("x"), Quantity: decimal.NewFromInt(1)}

	_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request(invalid, line(missingID, 1)))

	require.ErrorIs(t, err, domain.ErrInvalidBasket)
	assert.Zero(t, f.invoiceCount(t))
}

func TestCreateInvoice_CanastaVacia(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request())
	require.ErrorIs(t, err, domain.ErrInvalidBasket)
}

func TestCreateInvoice_PoliticaRejectDeItems(t *testing.T) {
	f := newFixture(t, func(p *billing.Policy) { p.OnInvalidItem = billing.InvalidItemReject })

	_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request(line(cafeID, 1), line(missingID, 1)))

	require.ErrorIs(t, err, domain.ErrInvalidBasket)
	assert.Zero(t, f.invoiceCount(t))
}

func TestCreateInvoice_NumerosMalFormadosRechazanLaCanasta(t *testing.T) {
	cases := map[string]dto.InvoiceItemRequest{
		"cantidad fraccionaria": {ProductID: dto.RefOf(cafeID), Quantity: decimal.RequireFromString("1.5")},
		"cantidad cero":         {ProductID: dto.RefOf(cafeID), Quantity: decimal.Zero},
		"cantidad negativa":     {ProductID: dto.RefOf(cafeID), Quantity: decimal.NewFromInt(-2)},
		"precio negativo":       {ProductID: dto.RefOf(cafeID), Quantity: decimal.NewFromInt(1), UnitPrice: dp("-1")},
		"descuento > 100":       {ProductID: dto.RefOf(cafeID), Quantity: decimal.NewFromInt(1), DiscountPercent: dp("120")},
		"impuesto negativo":     {ProductID: dto.RefOf(cafeID), Quantity: decimal.NewFromInt(1), TaxPercent: dp("-5")},
	}
	for name, bad := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request(line(panID, 1), bad))
			require.ErrorIs(t, err, domain.ErrInvalidBasket)
			assert.Zero(t, f.invoiceCount(t))
		})
	}
}

func TestCreateInvoice_PrecioPorDefectoDelProducto(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request(line(panID, 3)))

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(resp.Items[0].UnitPrice))
	assert.True(t, decimal.NewFromInt(15).Equal(resp.Invoice.TotalAmount))
}

// ──── Cliente ────────────────────────────────────────────────────────────────

func TestCreateInvoice_ClienteInexistenteUsaClienteDeContado(t *testing.T) {
	f := newFixture(t)
	req := request(line(panID, 1))
	req.Invoice.CustomerID = dto.RefOf(missingID)

	resp, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)

	require.NoError(t, err)
	assert.Equal(t, walkInID, resp.Invoice.CustomerID)
	assert.Equal(t, 1, f.metrics.substituted)
}

func TestCreateInvoice_SinClienteEsVentaDeContado(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, request(line(panID, 1)))

	require.NoError(t, err)
	assert.Equal(t, walkInID, resp.Invoice.CustomerID)
	assert.Zero(t, f.metrics.substituted, "ausente no cuenta como sustitución")
}

func TestCreateInvoice_ReferenciaDeClienteNoParseable(t *testing.T) {
	f := newFixture(t)
	req := request(line(panID, 1))
	req.Invoice.CustomerID = dto.RawRef("cliente-7")

	_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)

	require.ErrorIs(t, err, domain.ErrInvalidCustomerReference)
	assert.True(t, domain.IsValidation(err))
}

func TestCreateInvoice_PoliticaRejectDeCliente(t *testing.T) {
	f := newFixture(t, func(p *billing.Policy) { p.OnMissingCustomer = billing.MissingCustomerReject })
	req := request(line(panID, 1))
	req.Invoice.CustomerID = dto.RefOf(missingID)

	_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)

	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
	assert.Zero(t, f.invoiceCount(t))
}

// ──── Montos y estado ────────────────────────────────────────────────────────

func TestCreateInvoice_DescuentoEImpuestoDeFactura(t *testing.T) {
	f := newFixture(t)
	req := request(dto.InvoiceItemRequest{
		ProductID: dto.RefOf(cafeID), Quantity: decimal.NewFromInt(2),
		DiscountPercent: dp("10"), TaxPercent: dp("15"),
	})
	req.Invoice.DiscountPercent = dp("10")
	req.Invoice.TaxPercent = dp("5")

	resp, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)

	require.NoError(t, err)
	inv := resp.Invoice
	assert.True(t, decimal.RequireFromString("195.615").Equal(inv.TotalAmount), inv.TotalAmount.String())
	assert.True(t, inv.SubTotal.Sub(inv.DiscountAmount).Add(inv.TaxAmount).Equal(inv.TotalAmount))
}

func TestCreateInvoice_MontosDeCabeceraInvalidos(t *testing.T) {
	cases := map[string]func(*dto.InvoiceHeaderRequest){
		"descuento > 100":  func(h *dto.InvoiceHeaderRequest) { h.DiscountPercent = dp("150") },
		"impuesto < 0":     func(h *dto.InvoiceHeaderRequest) { h.TaxPercent = dp("-1") },
		"pagado negativo":  func(h *dto.InvoiceHeaderRequest) { h.AmountPaid = dp("-0.01") },
		"descuento de 100": func(h *dto.InvoiceHeaderRequest) { h.DiscountPercent = dp("100") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			req := request(line(panID, 1))
			mutate(&req.Invoice)
			_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)
			require.ErrorIs(t, err, domain.ErrInvalidAmount)
			assert.Zero(t, f.invoiceCount(t))
		})
	}
}

func TestCreateInvoice_TotalCeroPermitidoSiLaPoliticaLoAdmite(t *testing.T) {
	f := newFixture(t, func(p *billing.Policy) { p.RequirePositiveTotal = false })
	req := request(dto.InvoiceItemRequest{ProductID: dto.RefOf(panID), Quantity: decimal.NewFromInt(1), UnitPrice: dp("0")})

	resp, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)

	require.NoError(t, err)
	assert.True(t, resp.Invoice.TotalAmount.IsZero())
}

func TestCreateInvoice_EstadoDerivadoYSolicitado(t *testing.T) {
	cases := []struct {
		name      string
		paid      string
		requested string
		want      entity.InvoiceStatus
	}{
		{"pago total", "15", "", entity.InvoiceStatusPaid},
		{"pago parcial", "14.99", "", entity.InvoiceStatusPartiallyPaid},
		{"solicitado válido", "15", "Draft", entity.InvoiceStatusDraft},
		{"solicitado inválido", "5", "Pagada", entity.InvoiceStatusPartiallyPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			req := request(line(panID, 3))
			req.Invoice.AmountPaid = dp(tc.paid)
			req.Invoice.Status = tc.requested
			resp, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)
			require.NoError(t, err)
			assert.Equal(t, string(tc.want), resp.Invoice.Status)
		})
	}
}

func TestCreateInvoice_SobrepagoConYSinClamp(t *testing.T) {
	f := newFixture(t)
	req := request(line(panID, 1))
	req.Invoice.AmountPaid = dp("8")
	resp, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-3).Equal(resp.Invoice.AmountDue))

	f = newFixture(t, func(p *billing.Policy) { p.ClampAmountDue = true })
	resp, err = f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)
	require.NoError(t, err)
	assert.True(t, resp.Invoice.AmountDue.IsZero())
}

// ──── Identidad y conciliación ───────────────────────────────────────────────

func TestCreateInvoice_ReferenciaProvistaYDuplicada(t *testing.T) {
	f := newFixture(t)
	ref := uuid.NewString()
	req := request(line(panID, 1))
	req.Invoice.Reference = ref

	resp, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)
	require.NoError(t, err)
	assert.Equal(t, ref, resp.Invoice.Reference)

	found, err := f.query.GetInvoiceByReference(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, resp.Invoice.ID, found.ID)
	require.Len(t, found.Items, 1)

	_, err = f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)
	require.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 1, f.invoiceCount(t))
	assert.Equal(t, int64(2), f.stock(t, panID), "el segundo intento no descuenta stock")
}

func TestCreateInvoice_NumeroYFechaProvistos(t *testing.T) {
	f := newFixture(t)
	req := request(line(panID, 1))
	req.Invoice.InvoiceNumber = "MANUAL-1"
	req.Invoice.InvoiceDate = "2024-12-31"

	resp, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)

	require.NoError(t, err)
	assert.Equal(t, "MANUAL-1", resp.Invoice.InvoiceNumber)
	assert.Equal(t, "2024-12-31", resp.Invoice.InvoiceDate.Format("2006-01-02"))
}

func TestCreateInvoice_FechaOReferenciaInvalidas(t *testing.T) {
	f := newFixture(t)
	req := request(line(panID, 1))
	req.Invoice.InvoiceDate = "31/12/2024"
	_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	req = request(line(panID, 1))
	req.Invoice.Reference = "no-es-uuid"
	_, err = f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.invoiceCount(t))
}

func TestCreateInvoice_DecimalesConExponenteExtremoSeRechazanSinProcesarlos(t *testing.T) {
	cases := []struct {
		name string
		body string
		want error
	}{
		{"cantidad diminuta", `{"items":[{"productId":1,"quantity":1e-30000000}]}`, domain.ErrInvalidBasket},
		{"cantidad enorme", `{"items":[{"productId":1,"quantity":1e30000000}]}`, domain.ErrInvalidBasket},
		{"descuento de línea enorme", `{"items":[{"productId":1,"quantity":1,"discountPercent":1e30000000}]}`, domain.ErrInvalidBasket},
		{"impuesto de línea diminuto", `{"items":[{"productId":1,"quantity":1,"taxPercent":1e-30000000}]}`, domain.ErrInvalidBasket},
		{"precio enorme", `{"items":[{"productId":1,"quantity":1,"unitPrice":1e30000000}]}`, domain.ErrInvalidBasket},
		{"descuento de factura enorme", `{"invoice":{"discountPercent":1e30000000},"items":[{"productId":1,"quantity":1}]}`, domain.ErrInvalidAmount},
		{"pagado diminuto", `{"invoice":{"amountPaid":1e-30000000},"items":[{"productId":1,"quantity":1}]}`, domain.ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			var req dto.CreateInvoiceRequest
			require.NoError(t, json.Unmarshal([]byte(tc.body), &req))

			_, err := f.uc.CreateInvoice(context.Background(), billing.Actor{}, req)

			require.ErrorIs(t, err, tc.want)
			assert.Less(t, len(err.Error()), 200, "el mensaje no repite el valor recibido")
			assert.Zero(t, f.invoiceCount(t))
			assert.Equal(t, int64(10), f.stock(t, cafeID))
		})
	}
}

func TestCreateInvoice_VentasConcurrentesNoSobrevenden(t *testing.T) {
	f := newFixture(t)
	policy := billing.DefaultPolicy()
	require.NoError(t, policy.Validate())
	invUC := inventory.NewRegisterMovementUseCase(f.store, f.store.Movements())
	resolver := billing.NewEntityResolver(f.store.Customers(), f.store.Products(), policy, nil, zerolog.Nop())
	uc := billing.NewCreateInvoiceUseCase(f.store, invUC, resolver, policy, nil, zerolog.Nop())

	const buyers = 25 // existencia inicial del café: 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		sold     int
		rejected int
		other    []error
	)
	for range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.CreateInvoice(context.Background(), billing.Actor{}, request(line(cafeID, 1)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				sold++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, 10, sold)
	assert.Equal(t, buyers-10, rejected)
	assert.Equal(t, int64(0), f.stock(t, cafeID))
	assert.Equal(t, 10, f.invoiceCount(t))
	movs, err := f.store.Movements().ListByProduct(context.Background(), cafeID, 100, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 10)
}
