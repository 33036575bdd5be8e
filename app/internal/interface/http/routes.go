package http

import "net/http"

const (
	AreaPublic = "public"
	AreaAdmin  = "admin"
)

// Route is one entry of the view table served to the browser.
type Route struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Area string `json:"area"`
}

var routes = []Route{
	{Name: "home", Path: "/", Area: AreaPublic},
	{Name: "shop-products", Path: "/products", Area: AreaPublic},
	{Name: "shop-product-detail", Path: "/products/{id}", Area: AreaPublic},
	{Name: "shop-cart", Path: "/cart", Area: AreaPublic},
	{Name: "shop-login", Path: "/login", Area: AreaPublic},

	{Name: "admin-dashboard", Path: "/admin/dashboard", Area: AreaAdmin},
	{Name: "admin-brands", Path: "/admin/brands", Area: AreaAdmin},
	{Name: "admin-categories", Path: "/admin/categories", Area: AreaAdmin},
	{Name: "admin-colors", Path: "/admin/colors", Area: AreaAdmin},
	{Name: "admin-sizes", Path: "/admin/sizes", Area: AreaAdmin},
	{Name: "admin-coupons", Path: "/admin/coupons", Area: AreaAdmin},
	{Name: "admin-discounts", Path: "/admin/discounts", Area: AreaAdmin},
	{Name: "admin-users", Path: "/admin/users", Area: AreaAdmin},
	{Name: "admin-orders", Path: "/admin/orders", Area: AreaAdmin},
	{Name: "admin-order-detail", Path: "/admin/orders/{id}", Area: AreaAdmin},
	{Name: "admin-returns", Path: "/admin/returns", Area: AreaAdmin},
	{Name: "admin-pos", Path: "/admin/pos", Area: AreaAdmin},
	{Name: "admin-products", Path: "/admin/products", Area: AreaAdmin},
	{Name: "admin-product-variants", Path: "/admin/products/{productId}/variants", Area: AreaAdmin},
	{Name: "admin-suppliers", Path: "/admin/suppliers", Area: AreaAdmin},
	{Name: "admin-goods-receipts", Path: "/admin/goods-receipts", Area: AreaAdmin},
	{Name: "admin-goods-receipts-form", Path: "/admin/goods-receipts/new", Area: AreaAdmin},
}

// Routes returns a copy of the view table.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

func (a *API) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": Routes()})
}
