package identity

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Claims lists the roles a user holds. Either, both or neither may be set.
type Claims struct {
	BusinessID *string `db:"business_id"`
	CustomerID *string `db:"customer_id"`
}

type Resolver struct {
	db *sqlx.DB
}

func NewResolver(db *sqlx.DB) *Resolver {
	return &Resolver{db: db}
}

// Resolve looks up both role claims of userID in one round trip.
func (r *Resolver) Resolve(ctx context.Context, userID string) (Claims, error) {
	query := r.db.Rebind(`
		SELECT
			(SELECT id FROM delivery_businesses WHERE owner_id = ? ORDER BY created_at LIMIT 1) AS business_id,
			(SELECT id FROM customer_profiles WHERE user_id = ? ORDER BY created_at LIMIT 1) AS customer_id
	`)

	var claims Claims
	if err := r.db.GetContext(ctx, &claims, query, userID, userID); err != nil {
		return Claims{}, fmt.Errorf("resolving role claims: %w", err)
	}

	return claims, nil
}
