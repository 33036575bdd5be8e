package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestEncode_EmptyCartIsArray(t *testing.T) {
	blob, err := Encode(nil)
	require.NoError(t, err)
	require.Equal(t, "[]", blob)
}

func TestEncode_UsesNumbersAndOmitsEmptyImage(t *testing.T) {
	blob, err := Encode([]Item{{
		VariantID:   5,
		ProductID:   2,
		ProductName: "Tee",
		VariantName: "Red - M",
		SKU:         "TEE-RED-M",
		Price:       decimal.RequireFromString("19.90"),
		Quantity:    2,
	}})
	require.NoError(t, err)
	require.JSONEq(t, `[{"variantId":5,"productId":2,"productName":"Tee","variantName":"Red - M","sku":"TEE-RED-M","price":19.9,"quantity":2}]`, blob)
	require.NotContains(t, blob, "image")
}

func TestDecode_RoundTrip(t *testing.T) {
	items := []Item{
		{VariantID: 1, ProductID: 10, ProductName: "Hoodie", VariantName: "Black - L", SKU: "H-B-L", Price: decimal.NewFromInt(10), Quantity: 2, Image: "/img/h.png"},
		{VariantID: 3, ProductID: 11, ProductName: "Cap", VariantName: "White - S", SKU: "C-W-S", Price: decimal.RequireFromString("5.25"), Quantity: 3},
	}

	blob, err := Encode(items)
	require.NoError(t, err)

	got, err := Decode(blob)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range items {
		require.Equal(t, items[i].VariantID, got[i].VariantID)
		require.Equal(t, items[i].ProductID, got[i].ProductID)
		require.Equal(t, items[i].ProductName, got[i].ProductName)
		require.Equal(t, items[i].VariantName, got[i].VariantName)
		require.Equal(t, items[i].SKU, got[i].SKU)
		require.True(t, items[i].Price.Equal(got[i].Price))
		require.Equal(t, items[i].Quantity, got[i].Quantity)
		require.Equal(t, items[i].Image, got[i].Image)
	}
}

func TestDecode_AcceptsBrowserBlob(t *testing.T) {
	got, err := Decode(`[{"variantId":7,"productId":1,"productName":"Jeans","variantName":"Blue - 32","sku":"J-32","price":39.5,"quantity":1,"image":"j.jpg"}]`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, int64(7), got[0].VariantID)
	require.True(t, decimal.RequireFromString("39.5").Equal(got[0].Price))
}

func TestDecode_NullIsEmpty(t *testing.T) {
	got, err := Decode("null")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDecode_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{name: "not json", blob: "{oops"},
		{name: "empty string", blob: ""},
		{name: "object instead of array", blob: `{"variantId":1}`},
		{name: "fractional quantity", blob: `[{"variantId":1,"quantity":1.5}]`},
		{name: "trailing data", blob: `[] []`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.blob)
			require.ErrorIs(t, err, ErrCorruptBlob)
		})
	}
}

func TestAggregates(t *testing.T) {
	items := []Item{
		{VariantID: 1, Price: decimal.NewFromInt(10), Quantity: 2},
		{VariantID: 2, Price: decimal.NewFromInt(5), Quantity: 3},
	}
	require.Equal(t, int64(5), ItemCount(items))
	require.True(t, decimal.NewFromInt(35).Equal(TotalAmount(items)))
	require.True(t, TotalAmount(nil).IsZero())
}
