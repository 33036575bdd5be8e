package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"example.com/shop-console/app/internal/infra/shopapi"
)

const maxImportSize = 10 << 20

var (
	errMissingCarrier = errors.New("carrierId is required")
	errMissingStatus  = errors.New("status is required")
	errMissingFile    = errors.New("multipart field \"file\" is required")
)

func (a *API) adminRoutes(r chi.Router) {
	r.Route("/brands", func(rr chi.Router) { mountCRUD(a, rr, a.shop.Brands) })
	r.Route("/categories", func(rr chi.Router) { mountCRUD(a, rr, a.shop.Categories) })
	r.Route("/colors", func(rr chi.Router) { mountCRUD(a, rr, a.shop.Colors) })
	r.Route("/sizes", func(rr chi.Router) { mountCRUD(a, rr, a.shop.Sizes) })
	r.Route("/products", func(rr chi.Router) { mountCRUD(a, rr, a.shop.Products) })

	r.Route("/coupons", func(rr chi.Router) {
		mountCRUD(a, rr, a.shop.Coupons.Resource)
		rr.Get("/code/{code}", a.handleCouponByCode)
	})
	r.Route("/discounts", func(rr chi.Router) {
		mountCRUD(a, rr, a.shop.Discounts.Resource)
		rr.Get("/product/{productId}", a.handleDiscountsByProduct)
	})
	r.Route("/users", func(rr chi.Router) {
		mountCRUD(a, rr, a.shop.Users.Resource)
		rr.Get("/username/{username}", a.handleUserByUsername)
	})
	r.Route("/product-variants", func(rr chi.Router) {
		mountCRUD(a, rr, a.shop.Variants.Resource)
		rr.Get("/product/{productId}", a.handleVariantsByProduct)
	})
	r.Route("/suppliers", func(rr chi.Router) {
		mountCRUD(a, rr, a.shop.Suppliers.Resource)
		rr.Get("/active", a.handleActiveSuppliers)
	})

	r.Route("/orders", func(rr chi.Router) {
		rr.Get("/", a.handleListOrders)
		rr.Get("/user/{userId}", a.handleOrdersByUser)
		rr.Get("/{id}", a.handleGetOrder)
		rr.Put("/{id}", a.handleUpdateOrder)
		rr.Delete("/{id}", a.handleDeleteOrder)
		rr.Get("/{id}/items", a.handleOrderItems)
		rr.Get("/{id}/history", a.handleOrderHistory)
		rr.Post("/{id}/ship", a.handleShipOrder)
	})

	r.Route("/returns", func(rr chi.Router) {
		rr.Get("/", a.handleListReturns)
		rr.Post("/", a.handleCreateReturn)
		rr.Put("/{id}/status", a.handleUpdateReturnStatus)
	})

	r.Route("/goods-receipts", func(rr chi.Router) {
		rr.Get("/", a.handleListGoodsReceipts)
		rr.Post("/", a.handleCreateGoodsReceipt)
	})

	r.Get("/dashboard/stats", a.handleDashboardStats)
	r.Post("/import/{entity}", a.handleImport)
	r.Get("/templates/{entity}", a.handleTemplate)
}

// mountCRUD exposes List/Get/Create/Update/Delete of a shop API resource.
// Bodies are validated before they are forwarded.
func mountCRUD[T any](a *API, r chi.Router, res *shopapi.Resource[T]) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		list, err := res.List(r.Context())
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"data": list})
	})

	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		var body T
		if err := a.decodeAndValidate(r, &body); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		created, err := res.Create(r.Context(), body)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	})

	r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		v, err := res.Get(r.Context(), id)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	})

	r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		var body T
		if err := a.decodeAndValidate(r, &body); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		updated, err := res.Update(r.Context(), id, body)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	})

	r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		if err := res.Delete(r.Context(), id); err != nil {
			handleDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func (a *API) handleCouponByCode(w http.ResponseWriter, r *http.Request) {
	coupon, err := a.shop.Coupons.ByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coupon)
}

func (a *API) handleDiscountsByProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "productId")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	discounts, err := a.shop.Discounts.ByProduct(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": discounts})
}

func (a *API) handleUserByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := a.shop.Users.ByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleVariantsByProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "productId")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	variants, err := a.shop.Variants.ByProduct(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": variants})
}

func (a *API) handleActiveSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := a.shop.Suppliers.Active(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": suppliers})
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.shop.Orders.List(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": orders})
}

func (a *API) handleOrdersByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userId")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	orders, err := a.shop.Orders.ByUser(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": orders})
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	order, err := a.shop.Orders.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *API) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	var body shopapi.Order
	if err := a.decodeAndValidate(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	order, err := a.shop.Orders.Update(r.Context(), id, body)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *API) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.shop.Orders.Delete(r.Context(), id); err != nil {
		handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleOrderItems(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	items, err := a.shop.Orders.Items(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": items})
}

func (a *API) handleOrderHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	history, err := a.shop.Orders.History(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": history})
}

func (a *API) handleShipOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	carrier := r.URL.Query().Get("carrierId")
	if carrier == "" {
		respondError(w, http.StatusBadRequest, errMissingCarrier)
		return
	}
	order, err := a.shop.Orders.Ship(r.Context(), id, carrier)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type createReturnRequest struct {
	OrderID int64  `json:"orderId" validate:"required,gt=0"`
	Reason  string `json:"reason" validate:"required"`
}

func (a *API) handleListReturns(w http.ResponseWriter, r *http.Request) {
	returns, err := a.shop.Returns.List(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": returns})
}

func (a *API) handleCreateReturn(w http.ResponseWriter, r *http.Request) {
	var req createReturnRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	ret, err := a.shop.Returns.Create(r.Context(), req.OrderID, req.Reason)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ret)
}

func (a *API) handleUpdateReturnStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	status := r.URL.Query().Get("status")
	if status == "" {
		respondError(w, http.StatusBadRequest, errMissingStatus)
		return
	}
	ret, err := a.shop.Returns.UpdateStatus(r.Context(), id, status)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ret)
}

func (a *API) handleListGoodsReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := a.shop.GoodsReceipts.List(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": receipts})
}

func (a *API) handleCreateGoodsReceipt(w http.ResponseWriter, r *http.Request) {
	var body shopapi.GoodsReceipt
	if err := a.decodeAndValidate(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	receipt, err := a.shop.GoodsReceipts.Create(r.Context(), body)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (a *API) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.shop.Dashboard.Stats(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleImport relays an uploaded spreadsheet to the shop API unparsed.
func (a *API) handleImport(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")
	if !shopapi.IsImportEntity(entity) {
		respondError(w, http.StatusNotFound, fmt.Errorf("%w: %s", shopapi.ErrUnknownImportEntity, entity))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, errMissingFile)
		return
	}
	defer file.Close()

	message, err := a.shop.Imports.Import(r.Context(), entity, header.Filename, file)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	a.log.WithField("entity", entity).WithField("file", header.Filename).Info("import relayed")
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (a *API) handleTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := a.shop.Imports.Template(r.Context(), chi.URLParam(r, "entity"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	contentType := tpl.ContentType
	if contentType == "" {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tpl.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(tpl.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(tpl.Data)
}
