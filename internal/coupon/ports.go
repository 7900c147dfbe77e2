package coupon

import (
	"context"

	"storefront/internal/domain"
)

type CouponRepository interface {
	FindByBusinessAndCode(ctx context.Context, businessID, code string) (*domain.Coupon, error)
}

type RedemptionRepository interface {
	CountByCouponAndCustomer(ctx context.Context, couponID, customerID string) (int, error)
}
