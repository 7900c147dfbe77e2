package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/pricing"
)

type PricingResponse struct {
	TraceID         string                 `json:"traceId"`
	Lines           []cart.Line            `json:"lines"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	DeliveryFee     decimal.Decimal        `json:"deliveryFee"`
	Discount        decimal.Decimal        `json:"discount"`
	Total           decimal.Decimal        `json:"total"`
	Coupon          *pricing.AppliedCoupon `json:"coupon,omitempty"`
	CouponRejection string                 `json:"couponRejection,omitempty"`
}

type OrderResponse struct {
	TraceID   string       `json:"traceId"`
	Order     domain.Order `json:"order"`
	Timestamp time.Time    `json:"timestamp"`
}
