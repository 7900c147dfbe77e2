package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type OrderItemRepository struct {
	db *sqlx.DB
}

func NewOrderItemRepository(db *sqlx.DB) *OrderItemRepository {
	return &OrderItemRepository{db: db}
}

// InsertBatch writes all items of one order in a single statement.
func (r *OrderItemRepository) InsertBatch(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `INSERT INTO order_items (id, order_id, menu_item_id, quantity, unit_price, total_price, notes)
		VALUES (:id, :order_id, :menu_item_id, :quantity, :unit_price, :total_price, :notes)`

	if _, err := r.db.NamedExecContext(ctx, query, items); err != nil {
		return fmt.Errorf("inserting order items: %w", err)
	}

	return nil
}

func (r *OrderItemRepository) FindByOrderID(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	query := r.db.Rebind(`
		SELECT id, order_id, menu_item_id, quantity, unit_price, total_price, notes
		FROM order_items
		WHERE order_id = ?`)

	var items []domain.OrderItem
	if err := r.db.SelectContext(ctx, &items, query, orderID); err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}

	return items, nil
}
