package pricing

import (
	"testing"

	"ironxpress/storefront-svc/internal/domain"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestSummarize_PercentageScenario(t *testing.T) {
	items := []domain.CartLineItem{{Price: 25, ServicePrice: 5, Quantity: 1}}
	coupon := &domain.Coupon{Code: "IRON10", DiscountType: domain.DiscountPercentage, DiscountValue: 10}

	summary := Summarize(items, coupon, DefaultDeliveryFee)

	assert.Equal(t, 30.0, summary.Subtotal)
	assert.Equal(t, 3.0, summary.Discount)
	assert.Equal(t, 30.0, summary.DeliveryFee)
	assert.Equal(t, 57.0, summary.Total)
	assert.Equal(t, 1, summary.ItemCount)
}

func TestSubtotal(t *testing.T) {
	items := []domain.CartLineItem{
		{Price: 25, ServicePrice: 5, Quantity: 2},
		{Price: 10.1, ServicePrice: 0.2, Quantity: 3},
	}
	assert.Equal(t, 90.9, Subtotal(items))
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal float64
		coupon   *domain.Coupon
		want     float64
	}{
		{name: "no coupon", subtotal: 500, coupon: nil, want: 0},
		{
			name:     "fixed",
			subtotal: 500,
			coupon:   &domain.Coupon{DiscountType: domain.DiscountFixed, DiscountValue: 50},
			want:     50,
		},
		{
			name:     "percentage uncapped",
			subtotal: 500,
			coupon:   &domain.Coupon{DiscountType: domain.DiscountPercentage, DiscountValue: 20},
			want:     100,
		},
		{
			name:     "percentage capped",
			subtotal: 500,
			coupon:   &domain.Coupon{DiscountType: domain.DiscountPercentage, DiscountValue: 20, MaxDiscountAmount: ptr(40)},
			want:     40,
		},
		{
			name:     "zero cap is uncapped",
			subtotal: 500,
			coupon:   &domain.Coupon{DiscountType: domain.DiscountPercentage, DiscountValue: 10, MaxDiscountAmount: ptr(0)},
			want:     50,
		},
		{
			name:     "below minimum percentage",
			subtotal: 99.99,
			coupon:   &domain.Coupon{DiscountType: domain.DiscountPercentage, DiscountValue: 50, MinimumOrderValue: 100},
			want:     0,
		},
		{
			name:     "below minimum fixed",
			subtotal: 99,
			coupon:   &domain.Coupon{DiscountType: domain.DiscountFixed, DiscountValue: 500, MinimumOrderValue: 100},
			want:     0,
		},
		{
			name:     "at minimum",
			subtotal: 100,
			coupon:   &domain.Coupon{DiscountType: domain.DiscountFixed, DiscountValue: 25, MinimumOrderValue: 100},
			want:     25,
		},
		{
			name:     "unknown type",
			subtotal: 500,
			coupon:   &domain.Coupon{DiscountType: "bogus", DiscountValue: 25},
			want:     0,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, Discount(testCase.subtotal, testCase.coupon))
		})
	}
}

func TestDiscount_Idempotent(t *testing.T) {
	items := []domain.CartLineItem{{Price: 33.33, ServicePrice: 6.67, Quantity: 3}}
	coupon := &domain.Coupon{DiscountType: domain.DiscountPercentage, DiscountValue: 15, MaxDiscountAmount: ptr(100)}

	first := Summarize(items, coupon, DefaultDeliveryFee)
	second := Summarize(items, coupon, DefaultDeliveryFee)
	assert.Equal(t, first, second)
	assert.Equal(t, Discount(Subtotal(items), coupon), Discount(Subtotal(items), coupon))
}

func TestDiscount_PercentageNeverExceedsCap(t *testing.T) {
	coupon := &domain.Coupon{DiscountType: domain.DiscountPercentage, DiscountValue: 35, MaxDiscountAmount: ptr(75)}
	for sub := 0.0; sub <= 5000; sub += 37.5 {
		assert.LessOrEqual(t, Discount(sub, coupon), 75.0, "subtotal %v", sub)
	}
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	items := []domain.CartLineItem{{ID: "a", Price: 25, ServicePrice: 5, Quantity: 2, TotalPrice: 1}}
	before := items[0]

	Summarize(items, nil, DefaultDeliveryFee)

	assert.Equal(t, before, items[0])
}

func TestSummarize_EmptyCart(t *testing.T) {
	summary := Summarize(nil, nil, 20)
	assert.Equal(t, Summary{DeliveryFee: 20, Total: 20}, summary)
}
