// Package cart keeps a checkout session: lines, fulfillment mode and the
// applied coupon, with totals recomputed after every change.
package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/coupon"
	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/pricing"
)

type CouponValidator interface {
	Validate(ctx context.Context, req coupon.ValidateRequest) (*pricing.AppliedCoupon, error)
}

type Customer struct {
	ID      *string
	Name    string
	Phone   string
	Address *string
}

type SubmitRequest struct {
	BusinessID    string
	Customer      Customer
	Mode          domain.FulfillmentMode
	Lines         []Line
	Coupon        *pricing.AppliedCoupon
	PaymentMethod string
	ScheduledAt   *time.Time
	Notes         *string
}

type Submitter interface {
	Submit(ctx context.Context, req SubmitRequest) (*domain.Order, error)
}

type Checkout struct {
	mu          sync.Mutex
	businessID  string
	customerID  *string
	deliveryFee decimal.Decimal
	mode        domain.FulfillmentMode
	lines       []Line
	coupon      *pricing.AppliedCoupon
	validator   CouponValidator
	logger      *zap.Logger
}

func NewCheckout(businessID string, deliveryFee decimal.Decimal, validator CouponValidator, logger *zap.Logger) *Checkout {
	return &Checkout{
		businessID:  businessID,
		deliveryFee: deliveryFee,
		mode:        domain.FulfillmentDelivery,
		validator:   validator,
		logger:      logger,
	}
}

// SetCustomer sets the identity used for per-customer coupon caps.
func (c *Checkout) SetCustomer(customerID *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customerID = customerID
}

// Add merges line into the cart. A coupon rejected by the resulting
// revalidation is dropped and its rejection returned with the new totals.
func (c *Checkout) Add(ctx context.Context, line Line) (pricing.Totals, error) {
	if line.Quantity < 1 {
		return c.Totals(), apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "quantity",
			Message: "quantity must be at least 1",
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	merged := false
	for i := range c.lines {
		if c.lines[i].Key == line.Key {
			c.lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.lines = append(c.lines, line)
	}

	return c.recompute(ctx)
}

// SetQuantity removes the line when quantity drops below 1.
func (c *Checkout) SetQuantity(ctx context.Context, key string, quantity int) (pricing.Totals, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(key)
	if idx < 0 {
		return c.totalsLocked(), apperrors.NewNotFoundError(fmt.Sprintf("cart line %s not found", key))
	}

	if quantity < 1 {
		c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	} else {
		c.lines[idx].Quantity = quantity
	}

	return c.recompute(ctx)
}

func (c *Checkout) Remove(ctx context.Context, key string) (pricing.Totals, error) {
	return c.SetQuantity(ctx, key, 0)
}

func (c *Checkout) SetMode(ctx context.Context, mode domain.FulfillmentMode) (pricing.Totals, error) {
	if !mode.Valid() {
		return c.Totals(), apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "fulfillmentMode",
			Message: "fulfillment mode must be delivery or pickup",
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode

	return c.recompute(ctx)
}

// ApplyCoupon validates code against the current subtotal. On rejection any
// previously applied coupon is kept.
func (c *Checkout) ApplyCoupon(ctx context.Context, code string) (*pricing.AppliedCoupon, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	applied, err := c.validator.Validate(ctx, coupon.ValidateRequest{
		Code:       code,
		BusinessID: c.businessID,
		Subtotal:   pricing.Subtotal(PricingLines(c.lines)),
		CustomerID: c.customerID,
	})
	if err != nil {
		return nil, err
	}

	c.coupon = applied
	return applied, nil
}

// RemoveCoupon forgets the applied coupon. Nothing is written to storage.
func (c *Checkout) RemoveCoupon() pricing.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.coupon = nil
	return c.totalsLocked()
}

func (c *Checkout) Coupon() *pricing.AppliedCoupon {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coupon
}

func (c *Checkout) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Checkout) Totals() pricing.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalsLocked()
}

// Validate checks customer against the current lines and mode without
// submitting anything.
func (c *Checkout) Validate(customer Customer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requestLocked(customer).Validate()
}

// Submit places the order with the latest lines, mode and coupon. The cart is
// cleared and the coupon released only when the order is saved.
func (c *Checkout) Submit(ctx context.Context, submitter Submitter, customer Customer, paymentMethod string, scheduledAt *time.Time, notes *string) (*domain.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := c.requestLocked(customer)
	req.PaymentMethod = paymentMethod
	req.ScheduledAt = scheduledAt
	req.Notes = notes

	order, err := submitter.Submit(ctx, req)
	if err != nil {
		return nil, err
	}

	c.lines = nil
	c.coupon = nil
	return order, nil
}

func (c *Checkout) requestLocked(customer Customer) SubmitRequest {
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)

	if customer.ID == nil {
		customer.ID = c.customerID
	}

	return SubmitRequest{
		BusinessID: c.businessID,
		Customer:   customer,
		Mode:       c.mode,
		Lines:      lines,
		Coupon:     c.coupon,
	}
}

func (c *Checkout) indexOf(key string) int {
	for i, l := range c.lines {
		if l.Key == key {
			return i
		}
	}
	return -1
}

func (c *Checkout) totalsLocked() pricing.Totals {
	return pricing.Compute(PricingLines(c.lines), c.mode, c.deliveryFee, c.coupon)
}

// recompute revalidates an applied coupon whose subtotal no longer matches.
func (c *Checkout) recompute(ctx context.Context) (pricing.Totals, error) {
	totals := c.totalsLocked()
	if !totals.CouponStale {
		return totals, nil
	}

	applied, err := c.validator.Validate(ctx, coupon.ValidateRequest{
		Code:       c.coupon.Code,
		BusinessID: c.businessID,
		Subtotal:   totals.Subtotal,
		CustomerID: c.customerID,
	})
	if err != nil {
		if cre, ok := apperrors.IsCouponRejectedError(err); ok {
			c.logger.Info("applied coupon dropped after cart change",
				zap.String("businessId", c.businessID),
				zap.String("code", cre.Code),
				zap.String("reason", string(cre.Reason)),
			)
			c.coupon = nil
			return c.totalsLocked(), err
		}
		return totals, fmt.Errorf("revalidating coupon: %w", err)
	}

	c.coupon = applied
	return c.totalsLocked(), nil
}
