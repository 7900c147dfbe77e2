package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/identity"
	"storefront/internal/response"
)

type CheckoutUseCase interface {
	ComputePricing(ctx context.Context, businessID string, req dto.PricingRequest) (*dto.PricingResponse, error)
	PlaceOrder(ctx context.Context, businessID, viewerID string, req dto.SubmitOrderRequest) (*domain.Order, error)
}

type StatusService interface {
	UpdateOrderStatus(ctx context.Context, viewerID, orderID string, status domain.OrderStatus) (*domain.Order, error)
}

type OrderController struct {
	checkout CheckoutUseCase
	status   StatusService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewOrderController(checkout CheckoutUseCase, status StatusService, validate *validator.Validate, logger *zap.Logger) *OrderController {
	return &OrderController{
		checkout: checkout,
		status:   status,
		validate: validate,
		logger:   logger,
	}
}

func (c *OrderController) ComputePricing(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	businessID := chi.URLParam(r, "businessId")

	var req dto.PricingRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		response.WriteError(w, logger, traceID, err)
		return
	}

	if err := response.Validate(r.Context(), c.validate, req); err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}

	resp, err := c.checkout.ComputePricing(r.Context(), businessID, req)
	if err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}

	resp.TraceID = traceID
	response.WriteJSON(w, logger, http.StatusOK, resp)
}

func (c *OrderController) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	businessID := chi.URLParam(r, "businessId")

	var req dto.SubmitOrderRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		response.WriteError(w, logger, traceID, err)
		return
	}

	if err := response.Validate(r.Context(), c.validate, req); err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}

	// guests may order without a viewer
	viewer, _ := identity.FromContext(r.Context())

	order, err := c.checkout.PlaceOrder(r.Context(), businessID, viewer.UserID, req)
	if err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}

	logger.Info("order placed", zap.String("orderId", order.ID), zap.String("businessId", businessID))

	response.WriteJSON(w, logger, http.StatusCreated, dto.OrderResponse{
		TraceID:   traceID,
		Order:     *order,
		Timestamp: time.Now().UTC(),
	})
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID := chi.URLParam(r, "orderId")

	viewer, ok := identity.FromContext(r.Context())
	if !ok {
		response.WriteError(w, logger, traceID, apperrors.NewForbiddenError("viewer required"))
		return
	}

	var req dto.UpdateStatusRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		response.WriteError(w, logger, traceID, err)
		return
	}

	if err := response.Validate(r.Context(), c.validate, req); err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}

	order, err := c.status.UpdateOrderStatus(r.Context(), viewer.UserID, orderID, domain.OrderStatus(req.Status))
	if err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}

	response.WriteJSON(w, logger, http.StatusOK, dto.OrderResponse{
		TraceID:   traceID,
		Order:     *order,
		Timestamp: time.Now().UTC(),
	})
}
