// Package coupon validates discount codes against the coupon rules of a
// delivery business.
package coupon

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/pricing"
)

type ValidateRequest struct {
	Code       string
	BusinessID string
	Subtotal   decimal.Decimal
	// CustomerID is nil for anonymous carts. The per-customer cap is not
	// checked without it.
	CustomerID *string
}

type Validator struct {
	coupons     CouponRepository
	redemptions RedemptionRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewValidator(coupons CouponRepository, redemptions RedemptionRepository, logger *zap.Logger) *Validator {
	return &Validator{
		coupons:     coupons,
		redemptions: redemptions,
		logger:      logger,
		now:         time.Now,
	}
}

// WithClock replaces the time source used for the validity window.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate runs the coupon checks in order and returns the first failure as a
// *errors.CouponRejectedError. Storage failures are returned wrapped.
func (v *Validator) Validate(ctx context.Context, req ValidateRequest) (*pricing.AppliedCoupon, error) {
	code := domain.NormalizeCouponCode(req.Code)
	if code == "" {
		return nil, apperrors.NewCouponRejectedError(code, apperrors.CouponNotFound)
	}

	c, err := v.coupons.FindByBusinessAndCode(ctx, req.BusinessID, code)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewCouponRejectedError(code, apperrors.CouponNotFound)
		}
		return nil, fmt.Errorf("looking up coupon: %w", err)
	}

	now := v.now()

	if !c.IsActive {
		return nil, apperrors.NewCouponRejectedError(code, apperrors.CouponInactive)
	}

	if c.StartAt != nil && now.Before(*c.StartAt) {
		return nil, apperrors.NewCouponRejectedError(code, apperrors.CouponNotStarted)
	}

	if c.EndAt != nil && now.After(*c.EndAt) {
		return nil, apperrors.NewCouponRejectedError(code, apperrors.CouponExpired)
	}

	if req.Subtotal.LessThan(c.MinOrderValue) {
		return nil, apperrors.NewCouponRejectedError(code, apperrors.CouponBelowMinimum)
	}

	if c.MaxUses != nil && c.UsesCount >= *c.MaxUses {
		return nil, apperrors.NewCouponRejectedError(code, apperrors.CouponExhausted)
	}

	if c.MaxUsesPerCustomer != nil && req.CustomerID != nil {
		used, err := v.redemptions.CountByCouponAndCustomer(ctx, c.ID, *req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("counting coupon redemptions: %w", err)
		}
		if used >= *c.MaxUsesPerCustomer {
			return nil, apperrors.NewCouponRejectedError(code, apperrors.CouponPerCustomerLimitReached)
		}
	}

	applied := &pricing.AppliedCoupon{
		CouponID: c.ID,
		Code:     c.Code,
		Discount: c.Discount(req.Subtotal),
		Subtotal: req.Subtotal,
	}

	v.logger.Debug("coupon accepted",
		zap.String("businessId", req.BusinessID),
		zap.String("code", code),
		zap.String("discount", applied.Discount.StringFixed(2)),
	)

	return applied, nil
}
