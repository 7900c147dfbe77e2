package pricing

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storefront/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "expected %s, got %s", want, got)
}

func TestCompute_PickupNoCoupon(t *testing.T) {
	lines := []Line{{UnitPrice: dec("30"), Quantity: 2}}

	totals := Compute(lines, domain.FulfillmentPickup, dec("8.00"), nil)

	assertDecimal(t, "60", totals.Subtotal)
	assertDecimal(t, "0", totals.DeliveryFee)
	assertDecimal(t, "0", totals.Discount)
	assertDecimal(t, "60", totals.Total)
	assert.False(t, totals.CouponStale)
}

// The delivery fee is added after the percent discount is taken from the
// subtotal, so the fee itself is never discounted.
func TestCompute_DeliveryWithPercentCoupon(t *testing.T) {
	lines := []Line{{UnitPrice: dec("30"), Quantity: 2}}
	applied := &AppliedCoupon{Code: "PROMO10", Discount: dec("6.00"), Subtotal: dec("60")}

	totals := Compute(lines, domain.FulfillmentDelivery, dec("8"), applied)

	assertDecimal(t, "60", totals.Subtotal)
	assertDecimal(t, "8", totals.DeliveryFee)
	assertDecimal(t, "6", totals.Discount)
	assertDecimal(t, "62", totals.Total)
}

func TestCompute_PickupFixedCouponClamped(t *testing.T) {
	lines := []Line{{UnitPrice: dec("20.00"), Quantity: 2}}
	// fixed 100 clamped to the 40 subtotal by the validator
	applied := &AppliedCoupon{Code: "BIG", Discount: dec("40.00"), Subtotal: dec("40.00")}

	totals := Compute(lines, domain.FulfillmentPickup, dec("8.00"), applied)

	assertDecimal(t, "40", totals.Subtotal)
	assertDecimal(t, "0", totals.DeliveryFee)
	assertDecimal(t, "40", totals.Discount)
	assertDecimal(t, "0", totals.Total)
}

func TestCompute_DiscountLargerThanTotalClampsToZero(t *testing.T) {
	lines := []Line{{UnitPrice: dec("10"), Quantity: 1}}
	applied := &AppliedCoupon{Code: "HUGE", Discount: dec("50"), Subtotal: dec("10")}

	totals := Compute(lines, domain.FulfillmentDelivery, dec("5"), applied)

	assertDecimal(t, "0", totals.Total)
}

func TestCompute_StaleCouponIgnored(t *testing.T) {
	lines := []Line{{UnitPrice: dec("20.00"), Quantity: 3}}
	applied := &AppliedCoupon{Code: "PROMO10", Discount: dec("4.00"), Subtotal: dec("40.00")}

	totals := Compute(lines, domain.FulfillmentDelivery, dec("5.00"), applied)

	assert.True(t, totals.CouponStale)
	assertDecimal(t, "0", totals.Discount)
	assertDecimal(t, "65", totals.Total)
}

func TestCompute_EmptyCart(t *testing.T) {
	totals := Compute(nil, domain.FulfillmentDelivery, dec("7.50"), nil)

	assertDecimal(t, "0", totals.Subtotal)
	assertDecimal(t, "7.5", totals.Total)
}

func TestCompute_DecimalExactness(t *testing.T) {
	lines := []Line{
		{UnitPrice: dec("0.10"), Quantity: 1},
		{UnitPrice: dec("0.20"), Quantity: 1},
	}

	totals := Compute(lines, domain.FulfillmentPickup, decimal.Zero, nil)

	assertDecimal(t, "0.3", totals.Total)
}

func TestCompute_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		var lines []Line
		for n := rng.Intn(6); n > 0; n-- {
			lines = append(lines, Line{
				UnitPrice: decimal.New(int64(rng.Intn(20000)), -2),
				Quantity:  rng.Intn(5) + 1,
			})
		}
		fee := decimal.New(int64(rng.Intn(1500)), -2)
		mode := domain.FulfillmentDelivery
		if rng.Intn(2) == 0 {
			mode = domain.FulfillmentPickup
		}

		subtotal := Subtotal(lines)
		var applied *AppliedCoupon
		if rng.Intn(2) == 0 {
			applied = &AppliedCoupon{
				Code:     "X",
				Discount: decimal.New(int64(rng.Intn(30000)), -2),
				Subtotal: subtotal,
			}
		}

		first := Compute(lines, mode, fee, applied)
		second := Compute(lines, mode, fee, applied)

		assert.True(t, first.Total.Equal(second.Total), "compute must be idempotent")
		assert.False(t, first.Total.IsNegative(), "total must never be negative")
		if mode == domain.FulfillmentPickup {
			assert.True(t, first.DeliveryFee.IsZero(), "pickup never pays a fee")
		}
		if applied == nil {
			assert.True(t, first.Total.Equal(subtotal.Add(first.DeliveryFee)))
		}
	}
}
