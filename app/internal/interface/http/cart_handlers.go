package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	domcart "example.com/shop-console/app/internal/domain/cart"
	checkoutuc "example.com/shop-console/app/internal/usecase/checkout"
)

var errInvalidVariantID = errors.New("invalid variant id")

// addCartItemRequest carries the variant snapshot shown on the product page.
// When productName is missing the snapshot is looked up from the shop API.
type addCartItemRequest struct {
	VariantID   int64           `json:"variantId" validate:"required,gt=0"`
	ProductID   int64           `json:"productId" validate:"gte=0"`
	ProductName string          `json:"productName"`
	VariantName string          `json:"variantName"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity" validate:"required,gte=1"`
	Image       string          `json:"image"`
}

func validateAddCartItem(sl validator.StructLevel) {
	req := sl.Current().Interface().(addCartItemRequest)
	if req.Price.IsNegative() {
		sl.ReportError(req.Price, "Price", "price", "gte", "0")
	}
}

type updateCartItemRequest struct {
	Quantity *int64 `json:"quantity" validate:"required"`
}

type checkoutRequest struct {
	UserID     int64  `json:"userId" validate:"gte=0"`
	CouponCode string `json:"couponCode"`
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mapCart(a.cartFor(r).Snapshot()))
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	item := domcart.Item{
		VariantID:   req.VariantID,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		VariantName: req.VariantName,
		SKU:         req.SKU,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Image:       req.Image,
	}
	if item.ProductName == "" {
		if err := a.fillFromCatalog(r, &item); err != nil {
			handleDomainError(w, err)
			return
		}
	}

	store := a.cartFor(r)
	store.AddItem(r.Context(), item)
	writeJSON(w, http.StatusCreated, mapCart(store.Snapshot()))
}

// fillFromCatalog snapshots variant and product details from the shop API.
func (a *API) fillFromCatalog(r *http.Request, item *domcart.Item) error {
	variant, err := a.shop.Variants.Get(r.Context(), item.VariantID)
	if err != nil {
		return err
	}
	product, err := a.shop.Products.Get(r.Context(), variant.ProductID)
	if err != nil {
		return err
	}
	item.ProductID = product.ID
	item.ProductName = product.Name
	item.VariantName = variant.Label()
	item.SKU = variant.SKU
	item.Price = variant.Price
	if item.Image == "" {
		item.Image = product.MainImage()
	}
	return nil
}

// handleUpdateCartItem sets the quantity of a line; zero or less removes it.
func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	variantID, err := parseIDParam(r, "variantId")
	if err != nil || variantID <= 0 {
		respondError(w, http.StatusBadRequest, errInvalidVariantID)
		return
	}
	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	store := a.cartFor(r)
	store.UpdateQuantity(r.Context(), variantID, *req.Quantity)
	writeJSON(w, http.StatusOK, mapCart(store.Snapshot()))
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	variantID, err := parseIDParam(r, "variantId")
	if err != nil || variantID <= 0 {
		respondError(w, http.StatusBadRequest, errInvalidVariantID)
		return
	}

	store := a.cartFor(r)
	store.RemoveItem(r.Context(), variantID)
	writeJSON(w, http.StatusOK, mapCart(store.Snapshot()))
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	a.cartFor(r).ClearCart(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	order, err := a.checkoutSvc.Checkout(r.Context(), a.cartFor(r), checkoutuc.Input{
		UserID:     req.UserID,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}
