package menu

import (
	"context"

	"storefront/internal/cart"
	"storefront/internal/domain"
)

type SearchUseCase interface {
	SearchItems(ctx context.Context, businessID string, req SearchItemsRequest) (*SearchItemsResponse, error)
}

type FractionalPricer interface {
	Confirm(ctx context.Context, sel FractionalSelection) (cart.Line, error)
}

type Repository interface {
	FindItemByID(ctx context.Context, id string) (*domain.MenuItem, error)
	FindItemsByIDsAndBusiness(ctx context.Context, ids []string, businessID string) ([]domain.MenuItem, error)
	FindFlavorsByIDs(ctx context.Context, ids []string) ([]domain.FlavorOption, error)
	FindFlavorPrices(ctx context.Context, flavorIDs []string, size domain.Size) ([]domain.FlavorPrice, error)
	FindAllowedFlavorIDs(ctx context.Context, menuItemID string) ([]string, error)
}
