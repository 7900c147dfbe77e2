package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type RedemptionRepository struct {
	db *sqlx.DB
}

func NewRedemptionRepository(db *sqlx.DB) *RedemptionRepository {
	return &RedemptionRepository{db: db}
}

func (r *RedemptionRepository) CountByCouponAndCustomer(ctx context.Context, couponID, customerID string) (int, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM coupon_redemptions WHERE coupon_id = ? AND customer_id = ?`)

	var count int
	if err := r.db.GetContext(ctx, &count, query, couponID, customerID); err != nil {
		return 0, fmt.Errorf("counting redemptions: %w", err)
	}

	return count, nil
}

func (r *RedemptionRepository) Insert(ctx context.Context, redemption *domain.CouponRedemption) error {
	query := `INSERT INTO coupon_redemptions (id, coupon_id, order_id, customer_id, discount_amount)
		VALUES (:id, :coupon_id, :order_id, :customer_id, :discount_amount)`

	if _, err := r.db.NamedExecContext(ctx, query, redemption); err != nil {
		return fmt.Errorf("inserting coupon redemption: %w", err)
	}

	return nil
}
