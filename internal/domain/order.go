package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"

	// OrderStatusRejected is never written to storage. Customers still have
	// copy for it in case an upstream writer emits it.
	OrderStatusRejected OrderStatus = "rejected"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:      {OrderStatusReady, OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusReady:          {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
}

// Persisted reports whether s is a status an order row may hold.
func (s OrderStatus) Persisted() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition reports whether from -> to is an edge of the order lifecycle.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type FulfillmentMode string

const (
	FulfillmentDelivery FulfillmentMode = "delivery"
	FulfillmentPickup   FulfillmentMode = "pickup"
)

func (m FulfillmentMode) Valid() bool {
	return m == FulfillmentDelivery || m == FulfillmentPickup
}

type Order struct {
	ID              string          `db:"id" json:"id"`
	Code            string          `db:"code" json:"code"`
	BusinessID      string          `db:"business_id" json:"businessId"`
	CustomerID      *string         `db:"customer_id" json:"customerId,omitempty"`
	CustomerName    string          `db:"customer_name" json:"customerName"`
	CustomerPhone   string          `db:"customer_phone" json:"customerPhone"`
	CustomerAddress *string         `db:"customer_address" json:"customerAddress,omitempty"`
	FulfillmentMode FulfillmentMode `db:"fulfillment_mode" json:"fulfillmentMode"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"totalAmount"`
	DeliveryFee     decimal.Decimal `db:"delivery_fee" json:"deliveryFee"`
	DiscountAmount  decimal.Decimal `db:"discount_amount" json:"discountAmount"`
	CouponCode      *string         `db:"coupon_code" json:"couponCode,omitempty"`
	PaymentMethod   string          `db:"payment_method" json:"paymentMethod"`
	Status          OrderStatus     `db:"status" json:"status"`
	ScheduledAt     *time.Time      `db:"scheduled_at" json:"scheduledAt,omitempty"`
	Notes           *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}

type OrderItem struct {
	ID         string          `db:"id" json:"id"`
	OrderID    string          `db:"order_id" json:"orderId"`
	MenuItemID string          `db:"menu_item_id" json:"menuItemId"`
	Quantity   int             `db:"quantity" json:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unitPrice"`
	TotalPrice decimal.Decimal `db:"total_price" json:"totalPrice"`
	Notes      *string         `db:"notes" json:"notes,omitempty"`
}
