package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponTypePercent CouponType = "percent"
	CouponTypeFixed   CouponType = "fixed"
)

type Coupon struct {
	ID                 string          `db:"id"`
	BusinessID         string          `db:"business_id"`
	Code               string          `db:"code"`
	Type               CouponType      `db:"type"`
	Value              decimal.Decimal `db:"value"`
	MinOrderValue      decimal.Decimal `db:"min_order_value"`
	StartAt            *time.Time      `db:"start_at"`
	EndAt              *time.Time      `db:"end_at"`
	MaxUses            *int            `db:"max_uses"`
	MaxUsesPerCustomer *int            `db:"max_uses_per_customer"`
	UsesCount          int             `db:"uses_count"`
	IsActive           bool            `db:"is_active"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

// Discount returns what the coupon takes off subtotal. Fixed discounts never
// exceed the subtotal.
func (c Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	switch c.Type {
	case CouponTypePercent:
		return subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
	case CouponTypeFixed:
		return decimal.Min(c.Value, subtotal)
	}
	return decimal.Zero
}

type CouponRedemption struct {
	ID             string          `db:"id"`
	CouponID       string          `db:"coupon_id"`
	OrderID        string          `db:"order_id"`
	CustomerID     *string         `db:"customer_id"`
	DiscountAmount decimal.Decimal `db:"discount_amount"`
	CreatedAt      time.Time       `db:"created_at"`
}

// NormalizeCouponCode is the form codes are stored and looked up in.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
