package checkout

import "errors"

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidCoupon  = errors.New("coupon does not exist")
	ErrCouponExpired  = errors.New("coupon has expired")
	ErrCouponMinOrder = errors.New("order total is below the coupon minimum")
)
