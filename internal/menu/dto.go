package menu

import (
	"github.com/shopspring/decimal"

	"storefront/internal/cart"
)

type SearchItemsRequest struct {
	MenuItemIDs []string `json:"menuItemIds" validate:"required,min=1,max=100,dive,required"`
}

type SearchItemsResponse struct {
	Items    []MenuItemDTO `json:"items"`
	NotFound []string      `json:"notFound"`
}

type MenuItemDTO struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Price              decimal.Decimal `json:"price"`
	SupportsFractional bool            `json:"supportsFractional"`
	IsActive           bool            `json:"isActive"`
}

type ConfirmFractionalRequest struct {
	Flavor1ID string `json:"flavor1Id" validate:"required"`
	Flavor2ID string `json:"flavor2Id" validate:"required"`
	Size      string `json:"size" validate:"required,oneof=pequena media grande familia"`
}

type ConfirmFractionalResponse struct {
	TraceID string    `json:"traceId"`
	Line    cart.Line `json:"line"`
}
