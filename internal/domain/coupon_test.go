package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCoupon_Discount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   Coupon
		subtotal string
		want     string
	}{
		{"percent of subtotal", Coupon{Type: CouponTypePercent, Value: decimal.NewFromInt(10)}, "60.00", "6"},
		{"percent rounds to cents", Coupon{Type: CouponTypePercent, Value: decimal.NewFromInt(15)}, "33.33", "5"},
		{"fixed below subtotal", Coupon{Type: CouponTypeFixed, Value: decimal.NewFromInt(20)}, "50.00", "20"},
		{"fixed capped at subtotal", Coupon{Type: CouponTypeFixed, Value: decimal.NewFromInt(100)}, "30.00", "30"},
		{"unknown type", Coupon{Type: CouponType("bogus"), Value: decimal.NewFromInt(5)}, "30.00", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.coupon.Discount(decimal.RequireFromString(tt.subtotal))
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "PROMO10", NormalizeCouponCode("  promo10 "))
	assert.Equal(t, "", NormalizeCouponCode("   "))
}
