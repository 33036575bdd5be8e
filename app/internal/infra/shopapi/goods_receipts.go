package shopapi

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
)

type GoodsReceiptDetail struct {
	ID                 int64           `json:"id,omitempty"`
	ProductVariantID   int64           `json:"productVariantId" validate:"gt=0"`
	ProductVariantName string          `json:"productVariantName,omitempty"`
	SKU                string          `json:"sku,omitempty"`
	Quantity           int64           `json:"quantity" validate:"gt=0"`
	ImportPrice        decimal.Decimal `json:"importPrice"`
}

type GoodsReceipt struct {
	ID           int64                `json:"id,omitempty"`
	SupplierID   int64                `json:"supplierId" validate:"gt=0"`
	SupplierName string               `json:"supplierName,omitempty"`
	UserID       int64                `json:"userId,omitempty"`
	Username     string               `json:"username,omitempty"`
	ImportDate   string               `json:"importDate,omitempty"`
	TotalAmount  *decimal.Decimal     `json:"totalAmount,omitempty"`
	Notes        string               `json:"notes,omitempty"`
	Details      []GoodsReceiptDetail `json:"details" validate:"required,min=1,dive"`
}

type GoodsReceiptService struct {
	c *Client
}

func (s *GoodsReceiptService) List(ctx context.Context) ([]GoodsReceipt, error) {
	var out []GoodsReceipt
	if err := s.c.doJSON(ctx, http.MethodGet, "/goods-receipts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GoodsReceiptService) Create(ctx context.Context, r GoodsReceipt) (*GoodsReceipt, error) {
	var out GoodsReceipt
	if err := s.c.doJSON(ctx, http.MethodPost, "/goods-receipts", nil, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
