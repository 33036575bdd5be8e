package shopapi

import "github.com/shopspring/decimal"

type Brand struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name" validate:"required"`
}

type Category struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name" validate:"required"`
}

type Color struct {
	ID        int64  `json:"id,omitempty"`
	ColorName string `json:"colorName" validate:"required"`
	HexCode   string `json:"hexCode" validate:"omitempty,hexcolor"`
}

type Size struct {
	ID        int64  `json:"id,omitempty"`
	SizeValue string `json:"sizeValue" validate:"required"`
}

type ProductImage struct {
	ID       int64  `json:"id,omitempty"`
	ImageURL string `json:"imageUrl"`
	IsMain   bool   `json:"isMain"`
}

// ProductVariantSummary is the variant shape embedded in a product.
type ProductVariantSummary struct {
	ID        int64           `json:"id,omitempty"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	SizeID    int64           `json:"sizeId,omitempty"`
	ColorID   int64           `json:"colorId,omitempty"`
	SizeName  string          `json:"sizeName,omitempty"`
	ColorName string          `json:"colorName,omitempty"`
	ProductID int64           `json:"productId,omitempty"`
}

type Product struct {
	ID           int64                   `json:"id,omitempty"`
	Name         string                  `json:"name" validate:"required"`
	Slug         string                  `json:"slug,omitempty"`
	Description  string                  `json:"description"`
	CategoryID   int64                   `json:"categoryId" validate:"gt=0"`
	CategoryName string                  `json:"categoryName,omitempty"`
	BrandID      int64                   `json:"brandId" validate:"gt=0"`
	BrandName    string                  `json:"brandName,omitempty"`
	Active       bool                    `json:"active"`
	Images       []ProductImage          `json:"images,omitempty"`
	Variants     []ProductVariantSummary `json:"variants,omitempty"`
}

// MainImage returns the image flagged as main, or the first one.
func (p Product) MainImage() string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.ImageURL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].ImageURL
	}
	return ""
}
