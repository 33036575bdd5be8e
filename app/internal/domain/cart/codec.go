package cart

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// storedItem is the persisted shape of an Item. Price is kept as a JSON number
// so blobs stay readable by anything that speaks plain JSON.
type storedItem struct {
	VariantID   int64       `json:"variantId"`
	ProductID   int64       `json:"productId"`
	ProductName string      `json:"productName"`
	VariantName string      `json:"variantName"`
	SKU         string      `json:"sku"`
	Price       json.Number `json:"price"`
	Quantity    int64       `json:"quantity"`
	Image       string      `json:"image,omitempty"`
}

// Encode serializes items into the blob format. An empty cart encodes as "[]".
func Encode(items []Item) (string, error) {
	out := make([]storedItem, 0, len(items))
	for _, it := range items {
		out = append(out, storedItem{
			VariantID:   it.VariantID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			VariantName: it.VariantName,
			SKU:         it.SKU,
			Price:       json.Number(it.Price.String()),
			Quantity:    it.Quantity,
			Image:       it.Image,
		})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a blob produced by Encode. Anything else yields an error
// wrapping ErrCorruptBlob.
func Decode(blob string) ([]Item, error) {
	dec := json.NewDecoder(strings.NewReader(blob))

	var stored []storedItem
	if err := dec.Decode(&stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptBlob, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrCorruptBlob)
	}

	items := make([]Item, 0, len(stored))
	for i, s := range stored {
		price := decimal.Zero
		if s.Price != "" {
			p, err := decimal.NewFromString(s.Price.String())
			if err != nil {
				return nil, fmt.Errorf("%w: item %d price: %v", ErrCorruptBlob, i, err)
			}
			price = p
		}
		items = append(items, Item{
			VariantID:   s.VariantID,
			ProductID:   s.ProductID,
			ProductName: s.ProductName,
			VariantName: s.VariantName,
			SKU:         s.SKU,
			Price:       price,
			Quantity:    s.Quantity,
			Image:       s.Image,
		})
	}
	return items, nil
}
