package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	domcart "example.com/shop-console/app/internal/domain/cart"
	"example.com/shop-console/app/internal/infra/shopapi"
)

const statusPending = "PENDING"

type Cart interface {
	Snapshot() domcart.Cart
	Deduct(ctx context.Context, ordered []domcart.Item)
}

type CouponFinder interface {
	ByCode(ctx context.Context, code string) (*shopapi.Coupon, error)
}

type OrderCreator interface {
	Create(ctx context.Context, req shopapi.OrderRequest) (*shopapi.Order, error)
}

type Input struct {
	UserID     int64
	CouponCode string
}

type Service struct {
	coupons CouponFinder
	orders  OrderCreator
	log     logrus.FieldLogger
	now     func() time.Time
}

type Option func(*Service)

// WithBackendLocation sets the zone the shop API writes its zone-less
// timestamps in. Defaults to time.Local.
func WithBackendLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.now = func() time.Time { return time.Now().In(loc) }
		}
	}
}

func NewService(coupons CouponFinder, orders OrderCreator, log logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		coupons: coupons,
		orders:  orders,
		log:     log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout turns the cart into a PENDING order. Only the ordered lines are
// taken out of the cart, and only after the backend accepted the order.
func (s *Service) Checkout(ctx context.Context, cart Cart, in Input) (*shopapi.Order, error) {
	snap := cart.Snapshot()
	items := snap.Items
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := snap.TotalAmount
	discount := decimal.Zero
	var coupon *shopapi.Ref

	if code := strings.TrimSpace(in.CouponCode); code != "" {
		c, err := s.applyCoupon(ctx, code, subtotal)
		if err != nil {
			return nil, err
		}
		discount = decimal.Min(c.DiscountAmount, subtotal)
		coupon = &shopapi.Ref{ID: c.ID}
	}

	req := shopapi.OrderRequest{
		Order: shopapi.OrderHeader{
			Subtotal:      subtotal,
			DiscountTotal: discount,
			FinalTotal:    subtotal.Sub(discount),
			Status:        statusPending,
			Coupon:        coupon,
		},
		Items: make([]shopapi.OrderRequestItem, 0, len(items)),
	}
	if in.UserID > 0 {
		req.Order.User = &shopapi.Ref{ID: in.UserID}
	}
	for _, it := range items {
		req.Items = append(req.Items, shopapi.OrderRequestItem{
			Quantity:       it.Quantity,
			Price:          it.Price,
			ProductVariant: shopapi.Ref{ID: it.VariantID},
		})
	}

	order, err := s.orders.Create(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	cart.Deduct(ctx, items)
	s.log.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"items":       len(items),
		"final_total": req.Order.FinalTotal.String(),
	}).Info("checkout: order placed")
	return order, nil
}

func (s *Service) applyCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*shopapi.Coupon, error) {
	c, err := s.coupons.ByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shopapi.ErrNotFound) {
			return nil, ErrInvalidCoupon
		}
		return nil, errors.Wrapf(err, "lookup coupon %q", code)
	}
	if c.Expired(s.now()) {
		return nil, ErrCouponExpired
	}
	if subtotal.LessThan(c.MinOrderValue) {
		return nil, ErrCouponMinOrder
	}
	return c, nil
}
