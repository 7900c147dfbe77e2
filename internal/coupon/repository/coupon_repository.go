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

const couponColumns = `id, business_id, code, type, value, min_order_value, start_at, end_at,
	max_uses, max_uses_per_customer, uses_count, is_active, created_at, updated_at`

type CouponRepository struct {
	db *sqlx.DB
}

func NewCouponRepository(db *sqlx.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

// FindByBusinessAndCode expects code already normalized.
func (r *CouponRepository) FindByBusinessAndCode(ctx context.Context, businessID, code string) (*domain.Coupon, error) {
	query := r.db.Rebind(`SELECT ` + couponColumns + ` FROM coupons WHERE business_id = ? AND code = ?`)

	var c domain.Coupon
	if err := r.db.GetContext(ctx, &c, query, businessID, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("coupon %s not found", code))
		}
		return nil, fmt.Errorf("querying coupon by code: %w", err)
	}

	return &c, nil
}

// IncrementUses bumps the advisory usage counter. It is not atomic with the
// order write.
func (r *CouponRepository) IncrementUses(ctx context.Context, couponID string) error {
	query := r.db.Rebind(`UPDATE coupons SET uses_count = uses_count + 1 WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, couponID)
	if err != nil {
		return fmt.Errorf("incrementing coupon uses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("coupon %s not found", couponID))
	}

	return nil
}
