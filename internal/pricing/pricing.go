// Package pricing computes order totals from cart lines, fulfillment mode,
// delivery fee and an optionally applied coupon.
package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// AppliedCoupon is the result of a successful coupon validation. Subtotal is
// the subtotal the discount was computed against.
type AppliedCoupon struct {
	CouponID string          `json:"couponId"`
	Code     string          `json:"code"`
	Discount decimal.Decimal `json:"discount"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
	// CouponStale is set when a coupon was supplied but validated against a
	// different subtotal. Its discount is not applied.
	CouponStale bool `json:"couponStale,omitempty"`
}

func Subtotal(lines []Line) decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return subtotal
}

// Compute is pure: the same inputs always give the same Totals.
func Compute(lines []Line, mode domain.FulfillmentMode, deliveryFee decimal.Decimal, applied *AppliedCoupon) Totals {
	totals := Totals{
		Subtotal:    Subtotal(lines),
		DeliveryFee: decimal.Zero,
		Discount:    decimal.Zero,
	}

	if mode != domain.FulfillmentPickup {
		totals.DeliveryFee = deliveryFee
	}

	if applied != nil {
		if applied.Subtotal.Equal(totals.Subtotal) {
			totals.Discount = applied.Discount
		} else {
			totals.CouponStale = true
		}
	}

	total := totals.Subtotal.Add(totals.DeliveryFee).Sub(totals.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	totals.Total = total

	return totals
}
