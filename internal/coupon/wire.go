package coupon

import (
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"storefront/internal/coupon/repository"
)

func NewModule(db *sqlx.DB, validate *validator.Validate, logger *zap.Logger) (*Validator, *Controller) {
	v := NewValidator(
		repository.NewCouponRepository(db),
		repository.NewRedemptionRepository(db),
		logger,
	)
	return v, NewController(v, validate, logger)
}
