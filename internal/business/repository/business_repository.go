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

type BusinessRepository struct {
	db *sqlx.DB
}

func NewBusinessRepository(db *sqlx.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func (r *BusinessRepository) FindByID(ctx context.Context, id string) (*domain.DeliveryBusiness, error) {
	query := r.db.Rebind(`
		SELECT id, owner_id, name, delivery_fee, is_open, created_at, updated_at
		FROM delivery_businesses
		WHERE id = ?
	`)

	var business domain.DeliveryBusiness
	err := r.db.GetContext(ctx, &business, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("business %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying business by id: %w", err)
	}

	return &business, nil
}
