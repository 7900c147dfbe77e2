package menu

import (
	"context"
)

type searchUseCase struct {
	catalog Catalog
}

func NewSearchUseCase(catalog Catalog) SearchUseCase {
	return &searchUseCase{catalog: catalog}
}

func (uc *searchUseCase) SearchItems(ctx context.Context, businessID string, req SearchItemsRequest) (*SearchItemsResponse, error) {
	found, notFoundIDs, err := uc.catalog.GetItemsByIDsAndBusiness(ctx, req.MenuItemIDs, businessID)
	if err != nil {
		return nil, err
	}

	items := make([]MenuItemDTO, 0, len(found))
	for _, item := range found {
		items = append(items, MenuItemDTO{
			ID:                 item.ID,
			Name:               item.Name,
			Price:              item.Price,
			SupportsFractional: item.SupportsFractional,
			IsActive:           item.IsActive,
		})
	}

	if notFoundIDs == nil {
		notFoundIDs = []string{}
	}

	return &SearchItemsResponse{
		Items:    items,
		NotFound: notFoundIDs,
	}, nil
}
