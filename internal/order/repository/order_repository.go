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

const orderColumns = `id, code, business_id, customer_id, customer_name, customer_phone, customer_address,
	fulfillment_mode, total_amount, delivery_fee, discount_amount, coupon_code, payment_method, status,
	scheduled_at, notes, created_at, updated_at`

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := r.db.Rebind(`SELECT ` + orderColumns + ` FROM orders WHERE id = ?`)

	var order domain.Order
	err := r.db.GetContext(ctx, &order, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &order, nil
}

// Insert writes the order row. CreatedAt and UpdatedAt are set by the caller.
func (r *OrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	query := `INSERT INTO orders (
			id, code, business_id, customer_id, customer_name, customer_phone, customer_address,
			fulfillment_mode, total_amount, delivery_fee, discount_amount, coupon_code, payment_method,
			status, scheduled_at, notes, created_at, updated_at
		) VALUES (
			:id, :code, :business_id, :customer_id, :customer_name, :customer_phone, :customer_address,
			:fulfillment_mode, :total_amount, :delivery_fee, :discount_amount, :coupon_code, :payment_method,
			:status, :scheduled_at, :notes, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, order); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	return nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	query := r.db.Rebind(`UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}

	return nil
}
