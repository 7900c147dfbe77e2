package coupon

import (
	"github.com/shopspring/decimal"

	"storefront/internal/pricing"
)

type ValidateCouponRequest struct {
	Code       string          `json:"code" validate:"required,max=64"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	CustomerID *string         `json:"customerId,omitempty" validate:"omitempty,uuid"`
}

type ValidateCouponResponse struct {
	TraceID string                 `json:"traceId"`
	Coupon  *pricing.AppliedCoupon `json:"coupon"`
}
