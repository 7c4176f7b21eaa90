package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/storefront-backend/internal/domain/product"
)

func int64Ptr(v int64) *int64 { return &v }
func uintPtr(v uint) *uint    { return &v }

func TestUnitPrice_ProductPricing(t *testing.T) {
	tests := []struct {
		name     string
		price    int64
		sale     *int64
		expected int64
	}{
		{"base price when no sale", 10000, nil, 10000},
		{"sale price wins over base", 10000, int64Ptr(7500), 7500},
		{"zero sale price is honored", 10000, int64Ptr(0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := CartItem{
				Product: &product.Product{Price: tt.price, SalePrice: tt.sale},
			}
			assert.Equal(t, tt.expected, item.UnitPrice())
		})
	}
}

func TestUnitPrice_VariantPricingIsFinal(t *testing.T) {
	// A variant line never falls back to the product's pricing, even
	// when the product itself is on sale.
	item := CartItem{
		ProductVariantID: uintPtr(1),
		Product: &product.Product{
			Price:     10000,
			SalePrice: int64Ptr(5000),
		},
		ProductVariant: &product.ProductVariant{
			Price: 8000,
		},
	}
	assert.Equal(t, int64(8000), item.UnitPrice())

	item.ProductVariant.SalePrice = int64Ptr(6000)
	assert.Equal(t, int64(6000), item.UnitPrice())
}

func TestUnitPrice_DanglingLine(t *testing.T) {
	item := CartItem{ProductID: 42}
	assert.Equal(t, int64(0), item.UnitPrice())

	item.ProductVariantID = uintPtr(7)
	item.Product = &product.Product{Price: 10000}
	assert.Equal(t, int64(0), item.UnitPrice())
}

func TestLineTotal(t *testing.T) {
	item := CartItem{
		Quantity: 3,
		Product:  &product.Product{Price: 4000},
	}
	assert.Equal(t, int64(12000), item.LineTotal())
}

func TestSubtotal(t *testing.T) {
	items := []CartItem{
		{Quantity: 2, Product: &product.Product{Price: 4000}}, // 8000
		{Quantity: 1, Product: &product.Product{Price: 4000}}, // 4000
	}
	assert.Equal(t, int64(12000), Subtotal(items))

	assert.Equal(t, int64(0), Subtotal(nil))
}
