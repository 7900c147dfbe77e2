package coupon

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
	"storefront/internal/pricing"
	"storefront/internal/response"
)

type CouponValidator interface {
	Validate(ctx context.Context, req ValidateRequest) (*pricing.AppliedCoupon, error)
}

type Controller struct {
	validator CouponValidator
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewController(v CouponValidator, validate *validator.Validate, logger *zap.Logger) *Controller {
	return &Controller{
		validator: v,
		validate:  validate,
		logger:    logger,
	}
}

func (c *Controller) HandleValidate(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	businessID := chi.URLParam(r, "businessId")

	var req ValidateCouponRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}

	if err := response.Validate(r.Context(), c.validate, req); err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}

	if req.Subtotal.IsNegative() {
		response.WriteValidationError(w, logger, traceID, "validation failed", apperrors.ValidationDetail{
			Field:   "subtotal",
			Message: "subtotal must be non-negative",
		})
		return
	}

	applied, err := c.validator.Validate(r.Context(), ValidateRequest{
		Code:       req.Code,
		BusinessID: businessID,
		Subtotal:   req.Subtotal,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		if cre, ok := apperrors.IsCouponRejectedError(err); ok {
			logger.Info("coupon rejected", zap.String("businessId", businessID), zap.String("reason", string(cre.Reason)))
		}
		response.WriteError(w, logger, traceID, err)
		return
	}

	response.WriteJSON(w, logger, http.StatusOK, ValidateCouponResponse{
		TraceID: traceID,
		Coupon:  applied,
	})
}
