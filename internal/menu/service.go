package menu

import (
	"context"

	"storefront/internal/domain"
)

type catalog struct {
	repo Repository
}

// Catalog resolves menu items of one business by id.
type Catalog interface {
	GetItemsByIDsAndBusiness(ctx context.Context, ids []string, businessID string) (found []domain.MenuItem, notFoundIDs []string, err error)
}

func NewCatalog(repo Repository) Catalog {
	return &catalog{repo: repo}
}

func (s *catalog) GetItemsByIDsAndBusiness(ctx context.Context, ids []string, businessID string) ([]domain.MenuItem, []string, error) {
	found, err := s.repo.FindItemsByIDsAndBusiness(ctx, ids, businessID)
	if err != nil {
		return nil, nil, err
	}

	foundSet := make(map[string]struct{}, len(found))
	for _, item := range found {
		foundSet[item.ID] = struct{}{}
	}

	var notFoundIDs []string
	for _, id := range ids {
		if _, ok := foundSet[id]; !ok {
			notFoundIDs = append(notFoundIDs, id)
		}
	}

	return found, notFoundIDs, nil
}
