package cart

import (
	"github.com/shopspring/decimal"

	"storefront/internal/pricing"
)

// Line is one cart entry. Lines with the same Key are the same product
// configuration and merge by adding quantities.
type Line struct {
	Key        string          `json:"key"`
	MenuItemID string          `json:"menuItemId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	Notes      *string         `json:"notes,omitempty"`
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PlainKey is the cart key of a non-fractional menu item.
func PlainKey(menuItemID string) string {
	return menuItemID
}

func PricingLines(lines []Line) []pricing.Line {
	out := make([]pricing.Line, len(lines))
	for i, l := range lines {
		out[i] = pricing.Line{UnitPrice: l.UnitPrice, Quantity: l.Quantity}
	}
	return out
}
