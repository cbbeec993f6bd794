package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/billing"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	domainbilling "github.com/jhoicas/Ventas-api/internal/domain/billing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

// IDs sembrados en cada fixture.
const (
	walkInID  int64 = 2
	anaID     int64 = 10
	cafeID    int64 = 1 // precio 100, existencia 10
	panID     int64 = 2 // precio 5, existencia 3
	missingID int64 = 999
)

var fixedNow = time.Date(2025, time.March, 9, 10, 30, 0, 0, time.UTC)

type recordingMetrics struct {
	created     map[string]int
	rejected    map[string]int
	dropped     map[string]int
	substituted int
	observed    int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{created: map[string]int{}, rejected: map[string]int{}, dropped: map[string]int{}}
}

func (m *recordingMetrics) InvoiceCreated(status string)          { m.created[status]++ }
func (m *recordingMetrics) InvoiceRejected(reason string)         { m.rejected[reason]++ }
func (m *recordingMetrics) ItemDropped(reason string)             { m.dropped[reason]++ }
func (m *recordingMetrics) CustomerSubstituted()                  { m.substituted++ }
func (m *recordingMetrics) ObserveCreateDuration(_ time.Duration) { m.observed++ }

type fixture struct {
	store   *memory.Store
	uc      *billing.CreateInvoiceUseCase
	query   *billing.InvoiceQueryUseCase
	metrics *recordingMetrics
}

func newFixture(t *testing.T, mutate ...func(*billing.Policy)) *fixture {
	t.Helper()
	ctx := context.Background()
	policy := billing.DefaultPolicy()
	for _, m := range mutate {
		m(&policy)
	}
	require.NoError(t, policy.Validate())

	store := memory.NewStore()
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{ID: walkInID, Name: "Cliente de contado", IsActive: true}))
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{ID: anaID, Name: "Ana Pérez", IsActive: true}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: cafeID, Name: "Café", SalePrice: decimal.NewFromInt(100), Quantity: 10, IsActive: true,
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: panID, Name: "Pan", SalePrice: decimal.NewFromInt(5), Quantity: 3, IsActive: true,
	}))

	metrics := newRecordingMetrics()
	invUC := inventory.NewRegisterMovementUseCase(store, store.Movements())
	resolver := billing.NewEntityResolver(store.Customers(), store.Products(), policy, metrics, zerolog.Nop())
	uc := billing.NewCreateInvoiceUseCase(store, invUC, resolver, policy, metrics, zerolog.Nop())
	uc.SetClock(func() time.Time { return fixedNow })
	gen := domainbilling.NewNumberGenerator(policy.NumberPrefix)
	gen.Suffix = func() int { return 7 }
	uc.SetNumberGenerator(gen)

	return &fixture{
		store:   store,
		uc:      uc,
		query:   billing.NewInvoiceQueryUseCase(store.Invoices()),
		metrics: metrics,
	}
}

func (f *fixture) stock(t *testing.T, productID int64) int64 {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func (f *fixture) invoiceCount(t *testing.T) int {
	t.Helper()
	_, total, err := f.store.Invoices().List(context.Background(), repository.InvoiceFilter{})
	require.NoError(t, err)
	return total
}

func dp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func line(productID int64, qty int64) dto.InvoiceItemRequest {
	return dto.InvoiceItemRequest{ProductID: dto.RefOf(productID), Quantity: decimal.NewFromInt(qty)}
}

func request(items ...dto.InvoiceItemRequest) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		Invoice: dto.InvoiceHeaderRequest{PaymentMethod: "cash"},
		Items:   items,
	}
}
