// Package pricing derives cart totals. Every function is pure: inputs are
// never mutated and the same inputs always give the same outputs, so callers
// may recompute on every request.
package pricing

import (
	"ironxpress/storefront-svc/internal/domain"

	"github.com/shopspring/decimal"
)

// DefaultDeliveryFee is charged on every order unless configured otherwise.
const DefaultDeliveryFee = 30.0

type Summary struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	DeliveryFee float64 `json:"deliveryFee"`
	Total       float64 `json:"total"`
	ItemCount   int     `json:"itemCount"`
}

// Subtotal is the sum of (price + servicePrice) * quantity over items.
func Subtotal(items []domain.CartLineItem) float64 {
	f, _ := subtotal(items).Round(2).Float64()
	return f
}

func subtotal(items []domain.CartLineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		unit := decimal.NewFromFloat(item.Price).Add(decimal.NewFromFloat(item.ServicePrice))
		sum = sum.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum
}

// Discount applies coupon to subtotal. A nil coupon, a subtotal under the
// coupon's minimum order value or an unknown discount type all yield 0.
func Discount(subtotalAmount float64, coupon *domain.Coupon) float64 {
	f, _ := discount(decimal.NewFromFloat(subtotalAmount), coupon).Round(2).Float64()
	return f
}

func discount(sub decimal.Decimal, coupon *domain.Coupon) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}
	if sub.LessThan(decimal.NewFromFloat(coupon.MinimumOrderValue)) {
		return decimal.Zero
	}

	value := decimal.NewFromFloat(coupon.DiscountValue)
	switch coupon.DiscountType {
	case domain.DiscountFixed:
		return value
	case domain.DiscountPercentage:
		d := sub.Mul(value).Div(decimal.NewFromInt(100))
		// A zero cap means uncapped.
		if coupon.MaxDiscountAmount != nil && *coupon.MaxDiscountAmount > 0 {
			d = decimal.Min(d, decimal.NewFromFloat(*coupon.MaxDiscountAmount))
		}
		return d
	default:
		return decimal.Zero
	}
}

// Total is subtotal + deliveryFee - discount.
func Total(subtotalAmount, deliveryFee, discountAmount float64) float64 {
	f, _ := decimal.NewFromFloat(subtotalAmount).
		Add(decimal.NewFromFloat(deliveryFee)).
		Sub(decimal.NewFromFloat(discountAmount)).
		Round(2).Float64()
	return f
}

// Summarize computes every figure shown wherever a cart total is displayed.
func Summarize(items []domain.CartLineItem, coupon *domain.Coupon, deliveryFee float64) Summary {
	sub := subtotal(items)
	disc := discount(sub, coupon)

	count := 0
	for _, item := range items {
		count += item.Quantity
	}

	subF, _ := sub.Round(2).Float64()
	discF, _ := disc.Round(2).Float64()
	return Summary{
		Subtotal:    subF,
		Discount:    discF,
		DeliveryFee: deliveryFee,
		Total:       Total(subF, deliveryFee, discF),
		ItemCount:   count,
	}
}
