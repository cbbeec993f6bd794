package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/billing"
	"github.com/jhoicas/Ventas-api/internal/application/inventory"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Ventas-api/internal/interfaces/http"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

// newTestApp arma el router completo sobre el almacén en memoria.
// Siembra el cliente de contado (2), Ana (10), Café (1, precio 100, existencia 10) y Pan (2, precio 5, existencia 3).
func newTestApp(t *testing.T, jwtSecret string) (*fiber.App, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{ID: 2, Name: "Cliente de contado", IsActive: true}))
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{ID: 10, Name: "Ana Pérez", IsActive: true}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: 1, Name: "Café", SalePrice: decimal.NewFromInt(100), Quantity: 10, MinimumQuantity: 2, IsActive: true,
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: 2, Name: "Pan", SalePrice: decimal.NewFromInt(5), Quantity: 3, MinimumQuantity: 5, IsActive: true,
	}))

	policy := billing.DefaultPolicy()
	require.NoError(t, policy.Validate())
	movementUC := inventory.NewRegisterMovementUseCase(store, store.Movements())
	resolver := billing.NewEntityResolver(store.Customers(), store.Products(), policy, billing.NopMetrics{}, zerolog.Nop())

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:        usecase.NewProductUseCase(store.Products()),
		RegisterMovement: movementUC,
		Replenishment:    inventory.NewReplenishmentUseCase(store.Products()),
		CustomerUC:       billing.NewCustomerUseCase(store.Customers()),
		CreateInvoice:    billing.NewCreateInvoiceUseCase(store, movementUC, resolver, policy, billing.NopMetrics{}, zerolog.Nop()),
		InvoiceQuery:     billing.NewInvoiceQueryUseCase(store.Invoices()),
		JWTSecret:        jwtSecret,
	})
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeJSON(resp *http.Response, v any) error {
	return json.NewDecoder(resp.Body).Decode(v)
}
