package cart

import "github.com/shopspring/decimal"

// Item is one line of the cart: a product variant, its quantity and the unit
// price captured when the variant was first added.
type Item struct {
	VariantID   int64
	ProductID   int64
	ProductName string
	VariantName string
	SKU         string
	Price       decimal.Decimal
	Quantity    int64
	Image       string
}

func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// Cart is a read-only snapshot of a cart with its aggregates.
type Cart struct {
	Items       []Item
	ItemCount   int64
	TotalAmount decimal.Decimal
}

func ItemCount(items []Item) int64 {
	var n int64
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func TotalAmount(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
