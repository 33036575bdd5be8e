package shopapi

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type Discount struct {
	ID              int64           `json:"id,omitempty"`
	ProductID       int64           `json:"productId" validate:"gt=0"`
	ProductName     string          `json:"productName,omitempty"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	StartDate       string          `json:"startDate"`
	EndDate         string          `json:"endDate"`
	Active          bool            `json:"active"`
}

type DiscountService struct {
	*Resource[Discount]
}

func (s *DiscountService) ByProduct(ctx context.Context, productID int64) ([]Discount, error) {
	return s.listAt(ctx, fmt.Sprintf("/product/%d", productID))
}
