package http

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	domcart "example.com/shop-console/app/internal/domain/cart"
)

type cartResponse struct {
	Items []struct {
		VariantID   int64       `json:"variantId"`
		ProductName string      `json:"productName"`
		VariantName string      `json:"variantName"`
		SKU         string      `json:"sku"`
		Price       json.Number `json:"price"`
		Quantity    int64       `json:"quantity"`
		Image       string      `json:"image"`
	} `json:"items"`
	ItemCount   int64       `json:"itemCount"`
	TotalAmount json.Number `json:"totalAmount"`
}

func decodeCart(t *testing.T, body []byte) cartResponse {
	t.Helper()
	var out cartResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func addBody(variantID int64, price string, qty int64) map[string]any {
	return map[string]any{
		"variantId":   variantID,
		"productId":   1,
		"productName": "Tee",
		"variantName": "Red - M",
		"sku":         "TEE-R-M",
		"price":       json.Number(price),
		"quantity":    qty,
	}
}

func TestCartAPI_AddMergeAndTotals(t *testing.T) {
	env := newTestEnv(t)
	sid := sessionCookie(t, env.do(t, http.MethodGet, "/api/cart", nil))

	rec := env.do(t, http.MethodPost, "/api/cart/items", addBody(1, "10", 2), sid)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/cart/items", addBody(2, "5", 3), sid)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/cart/items", addBody(1, "99", 1), sid)
	require.Equal(t, http.StatusCreated, rec.Code)

	cart := decodeCart(t, rec.Body.Bytes())
	require.Len(t, cart.Items, 2)
	require.Equal(t, int64(1), cart.Items[0].VariantID)
	require.Equal(t, int64(3), cart.Items[0].Quantity)
	require.Equal(t, "10", cart.Items[0].Price.String())
	require.Equal(t, int64(6), cart.ItemCount)
	require.Equal(t, "45", cart.TotalAmount.String())
}

func TestCartAPI_PersistsUnderSessionKey(t *testing.T) {
	env := newTestEnv(t)
	sid := sessionCookie(t, env.do(t, http.MethodGet, "/api/cart", nil))

	env.do(t, http.MethodPost, "/api/cart/items", addBody(7, "12.5", 1), sid)

	blob, found, err := env.storage.Read(t.Context(), "session:"+sid.Value+":"+domcart.StorageKey)
	require.NoError(t, err)
	require.True(t, found)

	items, err := domcart.Decode(blob)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "12.5", items[0].Price.String())
}

func TestCartAPI_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)
	alice := sessionCookie(t, env.do(t, http.MethodGet, "/api/cart", nil))
	bob := sessionCookie(t, env.do(t, http.MethodGet, "/api/cart", nil))
	require.NotEqual(t, alice.Value, bob.Value)

	env.do(t, http.MethodPost, "/api/cart/items", addBody(1, "10", 1), alice)

	rec := env.do(t, http.MethodGet, "/api/cart", nil, bob)
	require.Empty(t, decodeCart(t, rec.Body.Bytes()).Items)
}

func TestCartAPI_UpdateRemoveClear(t *testing.T) {
	env := newTestEnv(t)
	sid := sessionCookie(t, env.do(t, http.MethodGet, "/api/cart", nil))
	env.do(t, http.MethodPost, "/api/cart/items", addBody(1, "10", 2), sid)
	env.do(t, http.MethodPost, "/api/cart/items", addBody(2, "5", 3), sid)
	env.do(t, http.MethodPost, "/api/cart/items", addBody(3, "1", 1), sid)

	rec := env.do(t, http.MethodPatch, "/api/cart/items/2", map[string]any{"quantity": 7}, sid)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(7), decodeCart(t, rec.Body.Bytes()).Items[1].Quantity)

	rec = env.do(t, http.MethodPatch, "/api/cart/items/1", map[string]any{"quantity": 0}, sid)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeCart(t, rec.Body.Bytes())
	require.Len(t, cart.Items, 2)
	require.Equal(t, int64(2), cart.Items[0].VariantID)

	rec = env.do(t, http.MethodDelete, "/api/cart/items/3", nil, sid)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeCart(t, rec.Body.Bytes()).Items, 1)

	rec = env.do(t, http.MethodDelete, "/api/cart/items/999", nil, sid)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeCart(t, rec.Body.Bytes()).Items, 1)

	rec = env.do(t, http.MethodDelete, "/api/cart", nil, sid)
	require.Equal(t, http.StatusNoContent, rec.Code)

	blob, _, err := env.storage.Read(t.Context(), "session:"+sid.Value+":cart")
	require.NoError(t, err)
	require.Equal(t, "[]", blob)
}

func TestCartAPI_RejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	sid := sessionCookie(t, env.do(t, http.MethodGet, "/api/cart", nil))

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"zero quantity", http.MethodPost, "/api/cart/items", addBody(1, "10", 0)},
		{"negative quantity", http.MethodPost, "/api/cart/items", addBody(1, "10", -2)},
		{"missing variant", http.MethodPost, "/api/cart/items", addBody(0, "10", 1)},
		{"negative price", http.MethodPost, "/api/cart/items", addBody(1, "-1", 1)},
		{"negative price below float precision", http.MethodPost, "/api/cart/items", addBody(1, "-1e-400", 1)},
		{"update without quantity", http.MethodPatch, "/api/cart/items/1", map[string]any{}},
		{"update bad variant id", http.MethodPatch, "/api/cart/items/abc", map[string]any{"quantity": 1}},
		{"remove bad variant id", http.MethodDelete, "/api/cart/items/-4", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, tt.method, tt.path, tt.body, sid)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := env.do(t, http.MethodGet, "/api/cart", nil, sid)
	require.Empty(t, decodeCart(t, rec.Body.Bytes()).Items)
}

func TestCartAPI_AcceptsFreeItem(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/cart/items", addBody(1, "0", 1))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "0", decodeCart(t, rec.Body.Bytes()).TotalAmount.String())
}

func TestCartAPI_AddFillsSnapshotFromCatalog(t *testing.T) {
	env := newTestEnv(t)
	env.serve("GET /api/product-variants/5", http.StatusOK,
		`{"id":5,"productId":2,"colorName":"Blue","sizeValue":"L","price":19.99,"sku":"JKT-B-L","stockQuantity":4}`)
	env.serve("GET /api/products/2", http.StatusOK,
		`{"id":2,"name":"Jacket","active":true,"images":[{"imageUrl":"a.jpg"},{"imageUrl":"main.jpg","isMain":true}]}`)
	sid := sessionCookie(t, env.do(t, http.MethodGet, "/api/cart", nil))

	rec := env.do(t, http.MethodPost, "/api/cart/items", map[string]any{"variantId": 5, "quantity": 2}, sid)
	require.Equal(t, http.StatusCreated, rec.Code)

	cart := decodeCart(t, rec.Body.Bytes())
	require.Len(t, cart.Items, 1)
	require.Equal(t, "Jacket", cart.Items[0].ProductName)
	require.Equal(t, "Blue - L", cart.Items[0].VariantName)
	require.Equal(t, "JKT-B-L", cart.Items[0].SKU)
	require.Equal(t, "19.99", cart.Items[0].Price.String())
	require.Equal(t, "main.jpg", cart.Items[0].Image)
	require.Equal(t, "39.98", cart.TotalAmount.String())
}

func TestCartAPI_AddUnknownVariant(t *testing.T) {
	env := newTestEnv(t)
	env.serve("GET /api/product-variants/404", http.StatusNotFound, `variant not found`)

	rec := env.do(t, http.MethodPost, "/api/cart/items", map[string]any{"variantId": 404, "quantity": 1})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartAPI_Checkout(t *testing.T) {
	t.Run("places order and clears cart", func(t *testing.T) {
		env := newTestEnv(t)
		var sent map[string]any
		env.backend.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(b, &sent)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":77,"status":"PENDING","subtotal":35,"discountTotal":0,"finalTotal":35,"pointsDiscount":0}`)
		})
		sid := sessionCookie(t, env.do(t, http.MethodGet, "/api/cart", nil))
		env.do(t, http.MethodPost, "/api/cart/items", addBody(1, "10", 2), sid)
		env.do(t, http.MethodPost, "/api/cart/items", addBody(2, "5", 3), sid)

		rec := env.do(t, http.MethodPost, "/api/cart/checkout", map[string]any{"userId": 3}, sid)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, float64(77), decodeBody(t, rec)["id"])

		order := sent["order"].(map[string]any)
		require.Equal(t, "PENDING", order["status"])
		require.Len(t, sent["items"], 2)

		rec = env.do(t, http.MethodGet, "/api/cart", nil, sid)
		require.Empty(t, decodeCart(t, rec.Body.Bytes()).Items)
	})

	t.Run("empty cart", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/api/cart/checkout", map[string]any{"userId": 3})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unknown coupon keeps cart", func(t *testing.T) {
		env := newTestEnv(t)
		env.serve("GET /api/coupons/code/NOPE", http.StatusNotFound, ``)
		sid := sessionCookie(t, env.do(t, http.MethodGet, "/api/cart", nil))
		env.do(t, http.MethodPost, "/api/cart/items", addBody(1, "10", 2), sid)

		rec := env.do(t, http.MethodPost, "/api/cart/checkout", map[string]any{"userId": 3, "couponCode": "NOPE"}, sid)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/cart", nil, sid)
		require.Len(t, decodeCart(t, rec.Body.Bytes()).Items, 1)
	})
}
