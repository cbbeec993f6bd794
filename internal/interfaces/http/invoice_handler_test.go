package http_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
)

func TestCreateInvoice_Created(t *testing.T) {
	app, store := newTestApp(t, "")
	body := `{
		"invoice": {"customerId": 10, "paymentMethod": "cash"},
		"items": [{"productId": 1, "quantity": 2, "unitPrice": 100, "discountPercent": 10, "taxPercent": 15}]
	}`

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decodeMap(t, resp)

	inv := out["invoice"].(map[string]any)
	assert.Equal(t, "207", inv["totalAmount"])
	assert.Equal(t, "200", inv["subTotal"])
	assert.Equal(t, "Unpaid", inv["status"])
	assert.Equal(t, float64(10), inv["customerId"])
	assert.Len(t, out["items"], 1)
	assert.Empty(t, out["droppedItems"])

	p, err := store.Products().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(8), p.Quantity)
}

func TestCreateInvoice_CustomerAsStringAndDroppedItem(t *testing.T) {
	app, _ := newTestApp(t, "")
	body := `{
		"invoice": {"customerId": "999", "amountPaid": 5},
		"items": [{"productId": 2, "quantity": 1}, {"productId": "abc", "quantity": 1}]
	}`

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decodeMap(t, resp)

	inv := out["invoice"].(map[string]any)
	assert.Equal(t, float64(2), inv["customerId"], "cliente inexistente → cliente de contado")
	assert.Equal(t, "Paid", inv["status"])
	dropped := out["droppedItems"].([]any)
	require.Len(t, dropped, 1)
	assert.Equal(t, "invalid_product_id", dropped[0].(map[string]any)["reason"])
}

func TestCreateInvoice_ValidationErrors(t *testing.T) {
	app, _ := newTestApp(t, "")
	cases := []struct {
		name string
		body string
		code string
	}{
		{"canasta vacía", `{"invoice": {}, "items": []}`, "INVALID_BASKET"},
		{"ningún producto válido", `{"invoice": {}, "items": [{"productId": 999, "quantity": 1}]}`, "INVALID_BASKET"},
		{"cliente negativo", `{"invoice": {"customerId": -4}, "items": [{"productId": 1, "quantity": 1}]}`, "INVALID_CUSTOMER_REFERENCE"},
		{"pago negativo", `{"invoice": {"amountPaid": -1}, "items": [{"productId": 1, "quantity": 1}]}`, "INVALID_AMOUNT"},
		{"fecha inválida", `{"invoice": {"invoiceDate": "ayer"}, "items": [{"productId": 1, "quantity": 1}]}`, "VALIDATION"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/invoices", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			out := decodeMap(t, resp)
			assert.Equal(t, tc.code, out["code"])
			assert.NotEmpty(t, out["error"])
		})
	}
}

func TestCreateInvoice_MalformedBody(t *testing.T) {
	app, _ := newTestApp(t, "")

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", `{"invoice": `)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeMap(t, resp)["code"])
}

func TestCreateInvoice_InsufficientStockConflict(t *testing.T) {
	app, store := newTestApp(t, "")
	body := `{"invoice": {}, "items": [{"productId": 2, "quantity": 4}]}`

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", body)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeMap(t, resp)["code"])
	p, err := store.Products().GetByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Quantity)
}

func TestCreateInvoice_DuplicateReferenceConflict(t *testing.T) {
	app, _ := newTestApp(t, "")
	body := `{"invoice": {"reference": "6f1c1a52-3c49-4a55-9d7e-2b1f8f0f6a10"}, "items": [{"productId": 1, "quantity": 1}]}`

	first := doJSON(t, app, http.MethodPost, "/api/invoices", body)
	require.Equal(t, http.StatusCreated, first.StatusCode)
	second := doJSON(t, app, http.MethodPost, "/api/invoices", body)

	assert.Equal(t, http.StatusConflict, second.StatusCode)
	assert.Equal(t, "DUPLICATE", decodeMap(t, second)["code"])
}

func TestCreateInvoice_StorageFailureHidesDetails(t *testing.T) {
	app, store := newTestApp(t, "")
	store.InjectFault(memory.OpItemCreate, errors.New("pq: connection reset by peer"))

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", `{"invoice": {}, "items": [{"productId": 1, "quantity": 1}]}`)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(raw), "TRANSACTION_ABORTED")
	assert.NotContains(t, string(raw), "connection reset")
}

func TestGetInvoice_ByIDReferenceAndList(t *testing.T) {
	app, _ := newTestApp(t, "")
	resp := doJSON(t, app, http.MethodPost, "/api/invoices", `{"invoice": {"customerId": 10}, "items": [{"productId": 1, "quantity": 1}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	inv := decodeMap(t, resp)["invoice"].(map[string]any)
	id := int64(inv["id"].(float64))
	reference := inv["reference"].(string)

	byID := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/invoices/%d", id), "")
	require.Equal(t, http.StatusOK, byID.StatusCode)
	got := decodeMap(t, byID)
	assert.Equal(t, reference, got["reference"])
	assert.Len(t, got["items"], 1)

	byRef := doJSON(t, app, http.MethodGet, "/api/invoices/reference/"+reference, "")
	require.Equal(t, http.StatusOK, byRef.StatusCode)
	assert.Equal(t, float64(id), decodeMap(t, byRef)["id"])

	list := doJSON(t, app, http.MethodGet, "/api/invoices?search=ana&limit=5", "")
	require.Equal(t, http.StatusOK, list.StatusCode)
	page := decodeMap(t, list)
	assert.Len(t, page["items"], 1)
	assert.Equal(t, float64(1), page["page"].(map[string]any)["total"])
}

func TestGetInvoice_Errors(t *testing.T) {
	app, _ := newTestApp(t, "")

	assert.Equal(t, http.StatusNotFound, doJSON(t, app, http.MethodGet, "/api/invoices/77", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, app, http.MethodGet, "/api/invoices/abc", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, app, http.MethodGet, "/api/invoices/reference/no-uuid", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, app, http.MethodGet, "/api/invoices?status=Perdida", "").StatusCode)
}
