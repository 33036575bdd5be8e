package shopapi

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type Variant struct {
	ID            int64           `json:"id,omitempty"`
	ProductID     int64           `json:"productId" validate:"gt=0"`
	SizeID        int64           `json:"sizeId" validate:"gt=0"`
	SizeValue     string          `json:"sizeValue,omitempty"`
	ColorID       int64           `json:"colorId" validate:"gt=0"`
	ColorName     string          `json:"colorName,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int64           `json:"stockQuantity" validate:"gte=0"`
	SKU           string          `json:"sku" validate:"required"`
}

// Label is the "Color - Size" name shown for a variant in the cart.
func (v Variant) Label() string {
	switch {
	case v.ColorName != "" && v.SizeValue != "":
		return v.ColorName + " - " + v.SizeValue
	case v.ColorName != "":
		return v.ColorName
	default:
		return v.SizeValue
	}
}

type VariantService struct {
	*Resource[Variant]
}

func (s *VariantService) ByProduct(ctx context.Context, productID int64) ([]Variant, error) {
	return s.listAt(ctx, fmt.Sprintf("/product/%d", productID))
}
