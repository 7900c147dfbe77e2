package menu

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/response"
)

type Controller struct {
	searchUseCase SearchUseCase
	pricer        FractionalPricer
	validate      *validator.Validate
	logger        *zap.Logger
}

func NewController(searchUseCase SearchUseCase, pricer FractionalPricer, validate *validator.Validate, logger *zap.Logger) *Controller {
	return &Controller{
		searchUseCase: searchUseCase,
		pricer:        pricer,
		validate:      validate,
		logger:        logger,
	}
}

func (c *Controller) HandleSearchItems(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req SearchItemsRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}

	if err := response.Validate(r.Context(), c.validate, req); err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}

	resp, err := c.searchUseCase.SearchItems(r.Context(), chi.URLParam(r, "businessId"), req)
	if err != nil {
		logger.Error("search menu items failed", zap.Error(err))
		response.WriteError(w, logger, traceID, err)
		return
	}

	response.WriteJSON(w, logger, http.StatusOK, resp)
}

func (c *Controller) HandleConfirmFractional(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req ConfirmFractionalRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}

	if err := response.Validate(r.Context(), c.validate, req); err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}

	line, err := c.pricer.Confirm(r.Context(), FractionalSelection{
		MenuItemID: chi.URLParam(r, "menuItemId"),
		Flavor1ID:  req.Flavor1ID,
		Flavor2ID:  req.Flavor2ID,
		Size:       domain.Size(req.Size),
	})
	if err != nil {
		response.WriteError(w, logger, traceID, err)
		return
	}

	response.WriteJSON(w, logger, http.StatusOK, ConfirmFractionalResponse{
		TraceID: traceID,
		Line:    line,
	})
}
