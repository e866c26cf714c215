// Package pricing computes order totals from cart line items. It is pure:
// no storage access, no clocks, no side effects.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type LineItem struct {
	ProductID int64
	UnitPrice decimal.Decimal
	Quantity  int
}

type Options struct {
	DeliveryFee decimal.Decimal
	TaxRate     decimal.Decimal
	Discount    decimal.Decimal
}

// Quote is the full price breakdown for an order.
// Invariant: Total = Subtotal + DeliveryFee + Tax - Discount.
type Quote struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// Calculate prices the given items. It rejects malformed input (negative
// price, quantity below one) rather than returning a garbage quote.
func Calculate(items []LineItem, opts Options) (Quote, error) {
	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity < 1 {
			return Quote{}, fmt.Errorf("product %d: quantity must be at least 1, got %d", item.ProductID, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return Quote{}, fmt.Errorf("product %d: unit price must not be negative, got %s", item.ProductID, item.UnitPrice)
		}
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	tax := subtotal.Mul(opts.TaxRate)
	total := subtotal.Add(opts.DeliveryFee).Add(tax).Sub(opts.Discount)

	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: opts.DeliveryFee,
		Tax:         tax,
		Discount:    opts.Discount,
		Total:       total,
	}, nil
}

// LineSubtotal is the price snapshot recorded on an order item.
func LineSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
