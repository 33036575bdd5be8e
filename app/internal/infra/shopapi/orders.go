package shopapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID               int64           `json:"id,omitempty"`
	ProductVariantID int64           `json:"productVariantId,omitempty"`
	ProductName      string          `json:"productName,omitempty"`
	VariantSKU       string          `json:"variantSku,omitempty"`
	Quantity         int64           `json:"quantity"`
	Price            decimal.Decimal `json:"price"`
}

type Order struct {
	ID             int64           `json:"id,omitempty"`
	UserID         int64           `json:"userId"`
	Username       string          `json:"username,omitempty"`
	CouponID       *int64          `json:"couponId,omitempty"`
	CouponCode     string          `json:"couponCode,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountTotal  decimal.Decimal `json:"discountTotal"`
	FinalTotal     decimal.Decimal `json:"finalTotal"`
	Status         string          `json:"status"`
	Items          []OrderItem     `json:"items,omitempty"`
	CreatedAt      string          `json:"createdAt,omitempty"`
	CarrierName    string          `json:"carrierName,omitempty"`
	TrackingCode   string          `json:"trackingCode,omitempty"`
	PointsUsed     int64           `json:"pointsUsed,omitempty"`
	PointsDiscount decimal.Decimal `json:"pointsDiscount"`
}

type OrderStatusHistory struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	ChangedAt string `json:"changedAt"`
	Note      string `json:"note"`
}

// Ref is an entity reference by id, as the order endpoint expects for
// related user, coupon and variant.
type Ref struct {
	ID int64 `json:"id"`
}

type OrderHeader struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	DiscountTotal decimal.Decimal `json:"discountTotal"`
	FinalTotal    decimal.Decimal `json:"finalTotal"`
	Status        string          `json:"status,omitempty"`
	PointsUsed    int64           `json:"pointsUsed"`
	User          *Ref            `json:"user,omitempty"`
	Coupon        *Ref            `json:"coupon,omitempty"`
}

type OrderRequestItem struct {
	Quantity       int64           `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	ProductVariant Ref             `json:"productVariant"`
}

// OrderRequest is the body accepted by POST /orders.
type OrderRequest struct {
	Order OrderHeader        `json:"order"`
	Items []OrderRequestItem `json:"items"`
}

type OrderService struct {
	c *Client
}

func (s *OrderService) List(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := s.c.doJSON(ctx, http.MethodGet, "/orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderService) ByUser(ctx context.Context, userID int64) ([]Order, error) {
	var out []Order
	if err := s.c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/orders/user/%d", userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderService) Get(ctx context.Context, id int64) (*Order, error) {
	var out Order
	if err := s.c.doJSON(ctx, http.MethodGet, idPath("/orders", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *OrderService) Items(ctx context.Context, id int64) ([]OrderItem, error) {
	var out []OrderItem
	if err := s.c.doJSON(ctx, http.MethodGet, idPath("/orders", id)+"/items", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderService) Create(ctx context.Context, req OrderRequest) (*Order, error) {
	var out Order
	if err := s.c.doJSON(ctx, http.MethodPost, "/orders", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *OrderService) Update(ctx context.Context, id int64, o Order) (*Order, error) {
	var out Order
	if err := s.c.doJSON(ctx, http.MethodPut, idPath("/orders", id), nil, o, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *OrderService) Delete(ctx context.Context, id int64) error {
	return s.c.doJSON(ctx, http.MethodDelete, idPath("/orders", id), nil, nil, nil)
}

func (s *OrderService) History(ctx context.Context, id int64) ([]OrderStatusHistory, error) {
	var out []OrderStatusHistory
	if err := s.c.doJSON(ctx, http.MethodGet, idPath("/orders", id)+"/history", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ship hands the order to a carrier (e.g. "GHN") and returns it with its
// tracking code.
func (s *OrderService) Ship(ctx context.Context, id int64, carrierID string) (*Order, error) {
	var out Order
	q := url.Values{"carrierId": {carrierID}}
	if err := s.c.doJSON(ctx, http.MethodPost, idPath("/orders", id)+"/ship", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
