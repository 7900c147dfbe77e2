package coupon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

type mockCouponRepository struct {
	FindByBusinessAndCodeFunc func(ctx context.Context, businessID, code string) (*domain.Coupon, error)
}

func (m *mockCouponRepository) FindByBusinessAndCode(ctx context.Context, businessID, code string) (*domain.Coupon, error) {
	return m.FindByBusinessAndCodeFunc(ctx, businessID, code)
}

type mockRedemptionRepository struct {
	CountByCouponAndCustomerFunc func(ctx context.Context, couponID, customerID string) (int, error)
}

func (m *mockRedemptionRepository) CountByCouponAndCustomer(ctx context.Context, couponID, customerID string) (int, error) {
	if m.CountByCouponAndCustomerFunc == nil {
		return 0, nil
	}
	return m.CountByCouponAndCustomerFunc(ctx, couponID, customerID)
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func intPtr(i int) *int { return &i }

func timePtr(t time.Time) *time.Time { return &t }

func strPtr(s string) *string { return &s }

func baseCoupon() *domain.Coupon {
	return &domain.Coupon{
		ID:            "c-1",
		BusinessID:    "b-1",
		Code:          "PROMO10",
		Type:          domain.CouponTypePercent,
		Value:         decimal.NewFromInt(10),
		MinOrderValue: decimal.NewFromInt(20),
		IsActive:      true,
	}
}

func newTestValidator(c *domain.Coupon, redemptions *mockRedemptionRepository) *Validator {
	coupons := &mockCouponRepository{
		FindByBusinessAndCodeFunc: func(ctx context.Context, businessID, code string) (*domain.Coupon, error) {
			if c == nil || code != c.Code || businessID != c.BusinessID {
				return nil, apperrors.NewNotFoundError("coupon not found")
			}
			return c, nil
		},
	}
	if redemptions == nil {
		redemptions = &mockRedemptionRepository{}
	}
	return NewValidator(coupons, redemptions, zap.NewNop()).WithClock(func() time.Time { return fixedNow })
}

func assertRejected(t *testing.T, err error, reason apperrors.CouponRejectionReason) {
	t.Helper()
	cre, ok := apperrors.IsCouponRejectedError(err)
	require.True(t, ok, "expected CouponRejectedError, got %v", err)
	assert.Equal(t, reason, cre.Reason)
}

func TestValidate_PercentCoupon(t *testing.T) {
	v := newTestValidator(baseCoupon(), nil)

	applied, err := v.Validate(context.Background(), ValidateRequest{
		Code:       " promo10 ",
		BusinessID: "b-1",
		Subtotal:   decimal.NewFromInt(60),
	})

	require.NoError(t, err)
	assert.Equal(t, "c-1", applied.CouponID)
	assert.Equal(t, "PROMO10", applied.Code)
	assert.True(t, decimal.NewFromInt(6).Equal(applied.Discount))
	assert.True(t, decimal.NewFromInt(60).Equal(applied.Subtotal))
}

func TestValidate_FixedCouponClampedToSubtotal(t *testing.T) {
	c := baseCoupon()
	c.Type = domain.CouponTypeFixed
	c.Value = decimal.NewFromInt(100)
	c.MinOrderValue = decimal.Zero
	v := newTestValidator(c, nil)

	applied, err := v.Validate(context.Background(), ValidateRequest{Code: "PROMO10", BusinessID: "b-1", Subtotal: decimal.NewFromInt(30)})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(applied.Discount))
}

func TestValidate_EmptyCodeIsNotFound(t *testing.T) {
	v := newTestValidator(baseCoupon(), nil)

	_, err := v.Validate(context.Background(), ValidateRequest{Code: "   ", BusinessID: "b-1", Subtotal: decimal.NewFromInt(60)})

	assertRejected(t, err, apperrors.CouponNotFound)
}

func TestValidate_UnknownCode(t *testing.T) {
	v := newTestValidator(baseCoupon(), nil)

	_, err := v.Validate(context.Background(), ValidateRequest{Code: "NOPE", BusinessID: "b-1", Subtotal: decimal.NewFromInt(60)})

	assertRejected(t, err, apperrors.CouponNotFound)
}

func TestValidate_CodeFromAnotherBusiness(t *testing.T) {
	v := newTestValidator(baseCoupon(), nil)

	_, err := v.Validate(context.Background(), ValidateRequest{Code: "PROMO10", BusinessID: "b-2", Subtotal: decimal.NewFromInt(60)})

	assertRejected(t, err, apperrors.CouponNotFound)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *domain.Coupon)
		subtotal int64
		reason   apperrors.CouponRejectionReason
	}{
		{"inactive", func(c *domain.Coupon) { c.IsActive = false }, 60, apperrors.CouponInactive},
		{"not started", func(c *domain.Coupon) { c.StartAt = timePtr(fixedNow.Add(time.Hour)) }, 60, apperrors.CouponNotStarted},
		{"expired", func(c *domain.Coupon) { c.EndAt = timePtr(fixedNow.Add(-time.Second)) }, 60, apperrors.CouponExpired},
		{"below minimum", func(c *domain.Coupon) {}, 15, apperrors.CouponBelowMinimum},
		{"exhausted", func(c *domain.Coupon) { c.MaxUses = intPtr(5); c.UsesCount = 5 }, 60, apperrors.CouponExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := baseCoupon()
			tt.mutate(c)
			v := newTestValidator(c, nil)

			_, err := v.Validate(context.Background(), ValidateRequest{Code: "PROMO10", BusinessID: "b-1", Subtotal: decimal.NewFromInt(tt.subtotal)})

			assertRejected(t, err, tt.reason)
		})
	}
}

func TestValidate_FirstFailingCheckWins(t *testing.T) {
	c := baseCoupon()
	c.IsActive = false
	c.EndAt = timePtr(fixedNow.Add(-time.Hour))
	c.MaxUses = intPtr(1)
	c.UsesCount = 1
	v := newTestValidator(c, nil)

	_, err := v.Validate(context.Background(), ValidateRequest{Code: "PROMO10", BusinessID: "b-1", Subtotal: decimal.NewFromInt(5)})

	assertRejected(t, err, apperrors.CouponInactive)
}

func TestValidate_ValidityWindow(t *testing.T) {
	c := baseCoupon()
	c.StartAt = timePtr(fixedNow.Add(-time.Hour))
	c.EndAt = timePtr(fixedNow.Add(time.Hour))
	v := newTestValidator(c, nil)

	_, err := v.Validate(context.Background(), ValidateRequest{Code: "PROMO10", BusinessID: "b-1", Subtotal: decimal.NewFromInt(60)})

	assert.NoError(t, err)
}

func TestValidate_PerCustomerLimit(t *testing.T) {
	c := baseCoupon()
	c.MaxUsesPerCustomer = intPtr(1)
	redemptions := &mockRedemptionRepository{
		CountByCouponAndCustomerFunc: func(ctx context.Context, couponID, customerID string) (int, error) {
			assert.Equal(t, "c-1", couponID)
			assert.Equal(t, "cust-1", customerID)
			return 1, nil
		},
	}
	v := newTestValidator(c, redemptions)

	_, err := v.Validate(context.Background(), ValidateRequest{
		Code:       "PROMO10",
		BusinessID: "b-1",
		Subtotal:   decimal.NewFromInt(60),
		CustomerID: strPtr("cust-1"),
	})

	assertRejected(t, err, apperrors.CouponPerCustomerLimitReached)
}

func TestValidate_PerCustomerLimitSkippedWithoutCustomer(t *testing.T) {
	c := baseCoupon()
	c.MaxUsesPerCustomer = intPtr(1)
	redemptions := &mockRedemptionRepository{
		CountByCouponAndCustomerFunc: func(ctx context.Context, couponID, customerID string) (int, error) {
			t.Errorf("redemptions must not be counted for anonymous carts")
			return 99, nil
		},
	}
	v := newTestValidator(c, redemptions)

	_, err := v.Validate(context.Background(), ValidateRequest{Code: "PROMO10", BusinessID: "b-1", Subtotal: decimal.NewFromInt(60)})

	assert.NoError(t, err)
}

func TestValidate_StorageErrorIsNotARejection(t *testing.T) {
	boom := errors.New("connection refused")
	coupons := &mockCouponRepository{
		FindByBusinessAndCodeFunc: func(ctx context.Context, businessID, code string) (*domain.Coupon, error) {
			return nil, boom
		},
	}
	v := NewValidator(coupons, &mockRedemptionRepository{}, zap.NewNop())

	_, err := v.Validate(context.Background(), ValidateRequest{Code: "PROMO10", BusinessID: "b-1", Subtotal: decimal.NewFromInt(60)})

	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	_, rejected := apperrors.IsCouponRejectedError(err)
	assert.False(t, rejected)
}

func TestValidate_ExhaustedSingleUseCoupon(t *testing.T) {
	c := baseCoupon()
	c.MinOrderValue = decimal.Zero
	c.StartAt = timePtr(fixedNow.Add(-24 * time.Hour))
	c.EndAt = timePtr(fixedNow.Add(24 * time.Hour))
	c.MaxUses = intPtr(1)
	c.UsesCount = 1
	v := newTestValidator(c, nil)

	for _, subtotal := range []int64{0, 1, 60, 10000} {
		_, err := v.Validate(context.Background(), ValidateRequest{Code: "PROMO10", BusinessID: "b-1", Subtotal: decimal.NewFromInt(subtotal)})
		assertRejected(t, err, apperrors.CouponExhausted)
	}
}

func TestValidate_NoEndAtAcceptedForAnySubtotalAboveMinimum(t *testing.T) {
	c := baseCoupon()
	c.EndAt = nil
	v := newTestValidator(c, nil)

	for _, subtotal := range []string{"20", "20.01", "999.99"} {
		_, err := v.Validate(context.Background(), ValidateRequest{Code: "PROMO10", BusinessID: "b-1", Subtotal: decimal.RequireFromString(subtotal)})
		assert.NoError(t, err, "subtotal %s", subtotal)
	}
}
