package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
)

const menuItemColumns = `id, business_id, name, price, supports_fractional, is_active, created_at, updated_at`

type MenuRepository struct {
	db *sqlx.DB
}

func NewMenuRepository(db *sqlx.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) FindItemByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	query := r.db.Rebind(`SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = ?`)

	var item domain.MenuItem
	err := r.db.GetContext(ctx, &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("menu item %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying menu item by id: %w", err)
	}

	return &item, nil
}

func (r *MenuRepository) FindItemsByIDsAndBusiness(ctx context.Context, ids []string, businessID string) ([]domain.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE id IN (?)
		  AND business_id = ?
		ORDER BY name`, ids, businessID)
	if err != nil {
		return nil, fmt.Errorf("building menu items query: %w", err)
	}

	var items []domain.MenuItem
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying menu items: %w", err)
	}

	return items, nil
}

func (r *MenuRepository) FindFlavorsByIDs(ctx context.Context, ids []string) ([]domain.FlavorOption, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT id, business_id, name, is_active FROM flavor_options WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("building flavors query: %w", err)
	}

	var flavors []domain.FlavorOption
	if err := r.db.SelectContext(ctx, &flavors, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying flavors: %w", err)
	}

	return flavors, nil
}

func (r *MenuRepository) FindFlavorPrices(ctx context.Context, flavorIDs []string, size domain.Size) ([]domain.FlavorPrice, error) {
	if len(flavorIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT flavor_id, size, price FROM flavor_prices WHERE flavor_id IN (?) AND size = ?`, flavorIDs, string(size))
	if err != nil {
		return nil, fmt.Errorf("building flavor prices query: %w", err)
	}

	var prices []domain.FlavorPrice
	if err := r.db.SelectContext(ctx, &prices, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying flavor prices: %w", err)
	}

	return prices, nil
}

// FindAllowedFlavorIDs returns nil when the item has no flavor restriction.
func (r *MenuRepository) FindAllowedFlavorIDs(ctx context.Context, menuItemID string) ([]string, error) {
	query := r.db.Rebind(`SELECT flavor_id FROM menu_item_flavors WHERE menu_item_id = ?`)

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, menuItemID); err != nil {
		return nil, fmt.Errorf("querying allowed flavors: %w", err)
	}

	return ids, nil
}
