package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	domcart "example.com/shop-console/app/internal/domain/cart"
	"example.com/shop-console/app/internal/infra/shopapi"
	cartuc "example.com/shop-console/app/internal/usecase/cart"
	checkoutuc "example.com/shop-console/app/internal/usecase/checkout"
)

type CheckoutService interface {
	Checkout(ctx context.Context, cart checkoutuc.Cart, in checkoutuc.Input) (*shopapi.Order, error)
}

// Pinger reports whether the cart storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type API struct {
	shop        *shopapi.Client
	sessions    *cartuc.Sessions
	checkoutSvc CheckoutService
	storage     Pinger
	log         logrus.FieldLogger
	validator   *validator.Validate
	cookie      cookieConfig
}

type Dependencies struct {
	ShopClient      *shopapi.Client
	Sessions        *cartuc.Sessions
	CheckoutService CheckoutService
	Storage         Pinger
	Logger          logrus.FieldLogger
	SessionCookie   string
	CookieSecure    bool
}

func NewAPI(deps Dependencies) *API {
	validate := validator.New()
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	validate.RegisterStructValidation(validateAddCartItem, addCartItemRequest{})

	name := deps.SessionCookie
	if name == "" {
		name = defaultSessionCookie
	}
	return &API{
		shop:        deps.ShopClient,
		sessions:    deps.Sessions,
		checkoutSvc: deps.CheckoutService,
		storage:     deps.Storage,
		log:         deps.Logger,
		validator:   validate,
		cookie:      cookieConfig{name: name, secure: deps.CookieSecure},
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain", "multipart/form-data"))

	r.Get("/health", a.handleHealth)
	r.Get("/routes", a.handleListRoutes)

	r.Group(func(sr chi.Router) {
		sr.Use(a.sessionMiddleware)

		for _, route := range Routes() {
			sr.Get(route.Path, a.viewHandler(route.Name))
		}

		sr.Route("/api/cart", func(cr chi.Router) {
			cr.Get("/", a.handleGetCart)
			cr.Delete("/", a.handleClearCart)
			cr.Post("/items", a.handleAddCartItem)
			cr.Patch("/items/{variantId}", a.handleUpdateCartItem)
			cr.Delete("/items/{variantId}", a.handleRemoveCartItem)
			cr.Post("/checkout", a.handleCheckout)
		})
	})

	r.Route("/admin/api", a.adminRoutes)

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.storage.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "storage": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "storage": "ok"})
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

// decimalValue makes the validator treat decimals as scalars instead of
// walking their internals. Range checks on decimals are struct-level.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

func mapCart(cart domcart.Cart) map[string]any {
	items := make([]map[string]any, 0, len(cart.Items))
	for _, item := range cart.Items {
		m := map[string]any{
			"variantId":   item.VariantID,
			"productId":   item.ProductID,
			"productName": item.ProductName,
			"variantName": item.VariantName,
			"sku":         item.SKU,
			"price":       item.Price,
			"quantity":    item.Quantity,
			"subtotal":    item.Subtotal(),
		}
		if item.Image != "" {
			m["image"] = item.Image
		}
		items = append(items, m)
	}
	return map[string]any{
		"items":       items,
		"itemCount":   cart.ItemCount,
		"totalAmount": cart.TotalAmount,
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shopapi.ErrNotFound),
		errors.Is(err, shopapi.ErrUnknownImportEntity):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, shopapi.ErrBadRequest),
		errors.Is(err, checkoutuc.ErrEmptyCart),
		errors.Is(err, checkoutuc.ErrInvalidCoupon),
		errors.Is(err, checkoutuc.ErrCouponExpired),
		errors.Is(err, checkoutuc.ErrCouponMinOrder):
		respondError(w, http.StatusUnprocessableEntity, err)
	default:
		// upstream shop api failure
		respondError(w, http.StatusBadGateway, err)
	}
}
