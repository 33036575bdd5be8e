package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"example.com/shop-console/app/internal/infra/shopapi"
)

const homeProductLimit = 8

var errInvalidParam = errors.New("invalid path parameter")

type viewFunc func(r *http.Request) (any, error)

type viewResponse struct {
	View string `json:"view"`
	Data any    `json:"data"`
}

func (a *API) viewHandler(name string) http.HandlerFunc {
	fn, ok := a.viewFuncs()[name]
	if !ok {
		panic(fmt.Sprintf("no view handler for route %q", name))
	}
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fn(r)
		if err != nil {
			if errors.Is(err, errInvalidParam) {
				respondError(w, http.StatusBadRequest, err)
				return
			}
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewResponse{View: name, Data: data})
	}
}

func (a *API) viewFuncs() map[string]viewFunc {
	return map[string]viewFunc{
		"home":                a.viewHome,
		"shop-products":       a.viewShopProducts,
		"shop-product-detail": a.viewProductDetail,
		"shop-cart":           a.viewCart,
		"shop-login":          func(*http.Request) (any, error) { return nil, nil },

		"admin-dashboard":           func(r *http.Request) (any, error) { return a.shop.Dashboard.Stats(r.Context()) },
		"admin-brands":              func(r *http.Request) (any, error) { return a.shop.Brands.List(r.Context()) },
		"admin-categories":          func(r *http.Request) (any, error) { return a.shop.Categories.List(r.Context()) },
		"admin-colors":              func(r *http.Request) (any, error) { return a.shop.Colors.List(r.Context()) },
		"admin-sizes":               func(r *http.Request) (any, error) { return a.shop.Sizes.List(r.Context()) },
		"admin-coupons":             func(r *http.Request) (any, error) { return a.shop.Coupons.List(r.Context()) },
		"admin-discounts":           a.viewAdminDiscounts,
		"admin-users":               func(r *http.Request) (any, error) { return a.shop.Users.List(r.Context()) },
		"admin-orders":              func(r *http.Request) (any, error) { return a.shop.Orders.List(r.Context()) },
		"admin-order-detail":        a.viewOrderDetail,
		"admin-returns":             func(r *http.Request) (any, error) { return a.shop.Returns.List(r.Context()) },
		"admin-pos":                 a.viewPOS,
		"admin-products":            a.viewAdminProducts,
		"admin-product-variants":    a.viewProductVariants,
		"admin-suppliers":           func(r *http.Request) (any, error) { return a.shop.Suppliers.List(r.Context()) },
		"admin-goods-receipts":      func(r *http.Request) (any, error) { return a.shop.GoodsReceipts.List(r.Context()) },
		"admin-goods-receipts-form": a.viewGoodsReceiptForm,
	}
}

func pathID(r *http.Request, key string) (int64, error) {
	id, err := parseIDParam(r, key)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", errInvalidParam, key)
	}
	return id, nil
}

// fetch runs fn into *dst as part of g.
func fetch[T any](g *errgroup.Group, ctx context.Context, dst *T, fn func(context.Context) (T, error)) {
	g.Go(func() error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	})
}

func (a *API) viewHome(r *http.Request) (any, error) {
	var (
		products   []shopapi.Product
		categories []shopapi.Category
	)
	g, ctx := errgroup.WithContext(r.Context())
	fetch(g, ctx, &products, a.shop.Products.List)
	fetch(g, ctx, &categories, a.shop.Categories.List)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	featured := activeProducts(products)
	if len(featured) > homeProductLimit {
		featured = featured[:homeProductLimit]
	}
	return map[string]any{
		"products":   featured,
		"categories": categories,
	}, nil
}

// viewShopProducts lists active products, optionally narrowed by
// ?categoryId=, ?brandId= and a case-insensitive ?q= name search.
func (a *API) viewShopProducts(r *http.Request) (any, error) {
	var (
		products   []shopapi.Product
		categories []shopapi.Category
		brands     []shopapi.Brand
	)
	g, ctx := errgroup.WithContext(r.Context())
	fetch(g, ctx, &products, a.shop.Products.List)
	fetch(g, ctx, &categories, a.shop.Categories.List)
	fetch(g, ctx, &brands, a.shop.Brands.List)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	q := r.URL.Query()
	categoryID, _ := strconv.ParseInt(q.Get("categoryId"), 10, 64)
	brandID, _ := strconv.ParseInt(q.Get("brandId"), 10, 64)
	search := strings.ToLower(strings.TrimSpace(q.Get("q")))

	filtered := make([]shopapi.Product, 0, len(products))
	for _, p := range activeProducts(products) {
		if categoryID > 0 && p.CategoryID != categoryID {
			continue
		}
		if brandID > 0 && p.BrandID != brandID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		filtered = append(filtered, p)
	}

	return map[string]any{
		"products":   filtered,
		"categories": categories,
		"brands":     brands,
	}, nil
}

func (a *API) viewProductDetail(r *http.Request) (any, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}

	var (
		product   *shopapi.Product
		variants  []shopapi.Variant
		discounts []shopapi.Discount
	)
	g, ctx := errgroup.WithContext(r.Context())
	fetch(g, ctx, &product, func(ctx context.Context) (*shopapi.Product, error) { return a.shop.Products.Get(ctx, id) })
	fetch(g, ctx, &variants, func(ctx context.Context) ([]shopapi.Variant, error) { return a.shop.Variants.ByProduct(ctx, id) })
	fetch(g, ctx, &discounts, func(ctx context.Context) ([]shopapi.Discount, error) { return a.shop.Discounts.ByProduct(ctx, id) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	active := make([]shopapi.Discount, 0, len(discounts))
	for _, d := range discounts {
		if d.Active {
			active = append(active, d)
		}
	}
	return map[string]any{
		"product":   product,
		"variants":  variants,
		"discounts": active,
	}, nil
}

func (a *API) viewCart(r *http.Request) (any, error) {
	return mapCart(a.cartFor(r).Snapshot()), nil
}

func (a *API) viewAdminDiscounts(r *http.Request) (any, error) {
	var (
		discounts []shopapi.Discount
		products  []shopapi.Product
	)
	g, ctx := errgroup.WithContext(r.Context())
	fetch(g, ctx, &discounts, a.shop.Discounts.List)
	fetch(g, ctx, &products, a.shop.Products.List)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return map[string]any{"discounts": discounts, "products": products}, nil
}

func (a *API) viewOrderDetail(r *http.Request) (any, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return nil, err
	}

	var (
		order   *shopapi.Order
		items   []shopapi.OrderItem
		history []shopapi.OrderStatusHistory
	)
	g, ctx := errgroup.WithContext(r.Context())
	fetch(g, ctx, &order, func(ctx context.Context) (*shopapi.Order, error) { return a.shop.Orders.Get(ctx, id) })
	fetch(g, ctx, &items, func(ctx context.Context) ([]shopapi.OrderItem, error) { return a.shop.Orders.Items(ctx, id) })
	fetch(g, ctx, &history, func(ctx context.Context) ([]shopapi.OrderStatusHistory, error) { return a.shop.Orders.History(ctx, id) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return map[string]any{"order": order, "items": items, "history": history}, nil
}

func (a *API) viewPOS(r *http.Request) (any, error) {
	var (
		products []shopapi.Product
		users    []shopapi.User
		coupons  []shopapi.Coupon
	)
	g, ctx := errgroup.WithContext(r.Context())
	fetch(g, ctx, &products, a.shop.Products.List)
	fetch(g, ctx, &users, a.shop.Users.List)
	fetch(g, ctx, &coupons, a.shop.Coupons.List)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return map[string]any{
		"products": activeProducts(products),
		"users":    users,
		"coupons":  coupons,
		"cart":     mapCart(a.cartFor(r).Snapshot()),
	}, nil
}

func (a *API) viewAdminProducts(r *http.Request) (any, error) {
	var (
		products   []shopapi.Product
		categories []shopapi.Category
		brands     []shopapi.Brand
	)
	g, ctx := errgroup.WithContext(r.Context())
	fetch(g, ctx, &products, a.shop.Products.List)
	fetch(g, ctx, &categories, a.shop.Categories.List)
	fetch(g, ctx, &brands, a.shop.Brands.List)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return map[string]any{"products": products, "categories": categories, "brands": brands}, nil
}

func (a *API) viewProductVariants(r *http.Request) (any, error) {
	id, err := pathID(r, "productId")
	if err != nil {
		return nil, err
	}

	var (
		product  *shopapi.Product
		variants []shopapi.Variant
		colors   []shopapi.Color
		sizes    []shopapi.Size
	)
	g, ctx := errgroup.WithContext(r.Context())
	fetch(g, ctx, &product, func(ctx context.Context) (*shopapi.Product, error) { return a.shop.Products.Get(ctx, id) })
	fetch(g, ctx, &variants, func(ctx context.Context) ([]shopapi.Variant, error) { return a.shop.Variants.ByProduct(ctx, id) })
	fetch(g, ctx, &colors, a.shop.Colors.List)
	fetch(g, ctx, &sizes, a.shop.Sizes.List)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return map[string]any{"product": product, "variants": variants, "colors": colors, "sizes": sizes}, nil
}

func (a *API) viewGoodsReceiptForm(r *http.Request) (any, error) {
	var (
		suppliers []shopapi.Supplier
		products  []shopapi.Product
	)
	g, ctx := errgroup.WithContext(r.Context())
	fetch(g, ctx, &suppliers, a.shop.Suppliers.Active)
	fetch(g, ctx, &products, a.shop.Products.List)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return map[string]any{"suppliers": suppliers, "products": products}, nil
}

func activeProducts(products []shopapi.Product) []shopapi.Product {
	out := make([]shopapi.Product, 0, len(products))
	for _, p := range products {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}
