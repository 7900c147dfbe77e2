package dto

import "time"

type CartItemRequest struct {
	MenuItemID string             `json:"menuItemId" validate:"required"`
	Quantity   int                `json:"quantity" validate:"min=1,max=1000"`
	Fractional *FractionalRequest `json:"fractional,omitempty"`
}

type FractionalRequest struct {
	Flavor1ID string `json:"flavor1Id" validate:"required"`
	Flavor2ID string `json:"flavor2Id" validate:"required"`
	Size      string `json:"size" validate:"required,oneof=pequena media grande familia"`
}

type PricingRequest struct {
	FulfillmentMode string            `json:"fulfillmentMode" validate:"required,oneof=delivery pickup"`
	Items           []CartItemRequest `json:"items" validate:"max=100,dive"`
	CouponCode      *string           `json:"couponCode,omitempty" validate:"omitempty,max=64"`
	CustomerID      *string           `json:"customerId,omitempty"`
}

type CustomerRequest struct {
	ID      *string `json:"id,omitempty"`
	Name    string  `json:"name" validate:"max=120"`
	Phone   string  `json:"phone" validate:"max=32"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=255"`
}

// SubmitOrderRequest leaves emptiness checks on customer and items to the
// submission service so every missing field is reported together.
type SubmitOrderRequest struct {
	FulfillmentMode string            `json:"fulfillmentMode" validate:"required,oneof=delivery pickup"`
	Items           []CartItemRequest `json:"items" validate:"max=100,dive"`
	CouponCode      *string           `json:"couponCode,omitempty" validate:"omitempty,max=64"`
	Customer        CustomerRequest   `json:"customer"`
	PaymentMethod   string            `json:"paymentMethod" validate:"required,max=32"`
	ScheduledAt     *time.Time        `json:"scheduledAt,omitempty"`
	Notes           *string           `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
