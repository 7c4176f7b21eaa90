// internal/domain/cart/pricing.go
package cart

// UnitPrice returns the effective unit price of a cart line in poisha.
//
// Precedence: when a variant is selected its price is final (the variant's
// own sale price overrides its base price); otherwise the product's sale
// price, when set, overrides the product's base price. A variant price is
// never combined with a product-level sale price.
//
// Requires Product (and ProductVariant when set) to be loaded; returns 0
// for a dangling line so a stale cart never panics.
func (i *CartItem) UnitPrice() int64 {
	if i.ProductVariantID != nil {
		if i.ProductVariant == nil {
			return 0
		}
		return i.ProductVariant.EffectivePrice()
	}
	if i.Product == nil {
		return 0
	}
	return i.Product.EffectivePrice()
}

// LineTotal returns unit price times quantity for a cart line
func (i *CartItem) LineTotal() int64 {
	return i.UnitPrice() * int64(i.Quantity)
}

// Subtotal sums line totals over all items using exact integer arithmetic
func Subtotal(items []CartItem) int64 {
	var subtotal int64
	for idx := range items {
		subtotal += items[idx].LineTotal()
	}
	return subtotal
}
