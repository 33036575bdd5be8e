package shopapi

import (
	"context"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

type Coupon struct {
	ID             int64           `json:"id,omitempty"`
	Code           string          `json:"code" validate:"required"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	MinOrderValue  decimal.Decimal `json:"minOrderValue"`
	ExpiryDate     string          `json:"expiryDate"`
}

// Expired reports whether the coupon expiry is before now. The expiry is read
// in now's location. A coupon without a parsable expiry never expires.
func (c Coupon) Expired(now time.Time) bool {
	t, err := ParseDateTime(c.ExpiryDate, now.Location())
	if err != nil {
		return false
	}
	return t.Before(now)
}

type CouponService struct {
	*Resource[Coupon]
}

func (s *CouponService) ByCode(ctx context.Context, code string) (*Coupon, error) {
	return s.getAt(ctx, "/code/"+url.PathEscape(code))
}
