package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type viewEnvelope struct {
	View string          `json:"view"`
	Data json.RawMessage `json:"data"`
}

func decodeView(t *testing.T, body []byte) viewEnvelope {
	t.Helper()
	var out viewEnvelope
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

const catalogProducts = `[
	{"id":1,"name":"Red Tee","categoryId":1,"brandId":1,"active":true},
	{"id":2,"name":"Blue Jeans","categoryId":2,"brandId":1,"active":true},
	{"id":3,"name":"Old Tee","categoryId":1,"brandId":2,"active":false},
	{"id":4,"name":"Green Tee","categoryId":1,"brandId":2,"active":true}
]`

func TestViews_EveryRouteHasAHandler(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	api := NewAPI(Dependencies{ShopClient: mustClient(t), Logger: log})

	funcs := api.viewFuncs()
	for _, r := range Routes() {
		require.Contains(t, funcs, r.Name)
	}
	require.Len(t, funcs, len(routes))
}

func TestViews_Home(t *testing.T) {
	env := newTestEnv(t)
	env.serve("GET /api/products", http.StatusOK, catalogProducts)
	env.serve("GET /api/categories", http.StatusOK, `[{"id":1,"name":"Shirts"}]`)

	rec := env.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeView(t, rec.Body.Bytes())
	require.Equal(t, "home", view.View)

	var data struct {
		Products []struct {
			ID int64 `json:"id"`
		} `json:"products"`
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(view.Data, &data))
	require.Len(t, data.Products, 3)
	require.Equal(t, "Shirts", data.Categories[0].Name)
}

func TestViews_ShopProductsFilters(t *testing.T) {
	env := newTestEnv(t)
	env.serve("GET /api/products", http.StatusOK, catalogProducts)
	env.serve("GET /api/categories", http.StatusOK, `[]`)
	env.serve("GET /api/brands", http.StatusOK, `[]`)

	tests := []struct {
		query string
		want  []int64
	}{
		{"", []int64{1, 2, 4}},
		{"?categoryId=1", []int64{1, 4}},
		{"?brandId=2", []int64{4}},
		{"?q=TEE", []int64{1, 4}},
		{"?q=tee&brandId=1", []int64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/products"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var data struct {
				Products []struct {
					ID int64 `json:"id"`
				} `json:"products"`
			}
			view := decodeView(t, rec.Body.Bytes())
			require.Equal(t, "shop-products", view.View)
			require.NoError(t, json.Unmarshal(view.Data, &data))

			got := make([]int64, 0, len(data.Products))
			for _, p := range data.Products {
				got = append(got, p.ID)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestViews_ProductDetail(t *testing.T) {
	env := newTestEnv(t)
	env.serve("GET /api/products/2", http.StatusOK, `{"id":2,"name":"Jacket","active":true}`)
	env.serve("GET /api/product-variants/product/2", http.StatusOK, `[{"id":5,"productId":2,"sku":"J-1","price":10}]`)
	env.serve("GET /api/discounts/product/2", http.StatusOK, `[{"id":1,"productId":2,"active":true},{"id":2,"productId":2,"active":false}]`)

	rec := env.do(t, http.MethodGet, "/products/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Product struct {
			Name string `json:"name"`
		} `json:"product"`
		Variants  []json.RawMessage `json:"variants"`
		Discounts []json.RawMessage `json:"discounts"`
	}
	view := decodeView(t, rec.Body.Bytes())
	require.Equal(t, "shop-product-detail", view.View)
	require.NoError(t, json.Unmarshal(view.Data, &data))
	require.Equal(t, "Jacket", data.Product.Name)
	require.Len(t, data.Variants, 1)
	require.Len(t, data.Discounts, 1)
}

func TestViews_ErrorMapping(t *testing.T) {
	env := newTestEnv(t)
	env.serve("GET /api/orders/9", http.StatusInternalServerError, `boom`)
	env.serve("GET /api/orders/9/items", http.StatusOK, `[]`)
	env.serve("GET /api/orders/9/history", http.StatusOK, `[]`)

	tests := []struct {
		name string
		path string
		want int
	}{
		{"non numeric id", "/products/abc", http.StatusBadRequest},
		{"upstream not found", "/products/12345", http.StatusNotFound},
		{"upstream failure", "/admin/orders/9", http.StatusBadGateway},
		{"bad variant product id", "/admin/products/0/variants", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.path, nil)
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestViews_CartAndLogin(t *testing.T) {
	env := newTestEnv(t)
	sid := sessionCookie(t, env.do(t, http.MethodGet, "/login", nil))
	env.do(t, http.MethodPost, "/api/cart/items", addBody(1, "10", 2), sid)

	rec := env.do(t, http.MethodGet, "/cart", nil, sid)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec.Body.Bytes())
	require.Equal(t, "shop-cart", view.View)
	cart := decodeCart(t, view.Data)
	require.Equal(t, int64(2), cart.ItemCount)
	require.Equal(t, "20", cart.TotalAmount.String())

	rec = env.do(t, http.MethodGet, "/login", nil, sid)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"view":"shop-login","data":null}`, strings.TrimSpace(rec.Body.String()))
}

func TestViews_AdminLists(t *testing.T) {
	env := newTestEnv(t)
	env.serve("GET /api/dashboard/stats", http.StatusOK, `{"totalOrders":4,"orderStatusCounts":{"PENDING":2}}`)
	env.serve("GET /api/brands", http.StatusOK, `[{"id":1,"name":"Nike"}]`)
	env.serve("GET /api/suppliers/active", http.StatusOK, `[{"id":1,"name":"Acme","active":true}]`)
	env.serve("GET /api/products", http.StatusOK, catalogProducts)

	tests := []struct {
		path string
		view string
		key  string
	}{
		{"/admin/dashboard", "admin-dashboard", `"totalOrders":4`},
		{"/admin/brands", "admin-brands", `"Nike"`},
		{"/admin/goods-receipts/new", "admin-goods-receipts-form", `"Acme"`},
	}

	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			view := decodeView(t, rec.Body.Bytes())
			require.Equal(t, tt.view, view.View)
			require.Contains(t, string(view.Data), tt.key)
		})
	}
}
