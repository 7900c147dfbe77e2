// Package response holds the JSON envelope helpers shared by controllers.
package response

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
)

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Reason    string    `json:"reason,omitempty"`
	OrderID   string    `json:"orderId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationErrorResponse struct {
	TraceID string                       `json:"traceId"`
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func WriteValidationError(w http.ResponseWriter, logger *zap.Logger, traceID string, message string, details ...apperrors.ValidationDetail) {
	WriteJSON(w, logger, http.StatusBadRequest, ValidationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

// WriteError maps a service error to its HTTP status. Unknown errors are
// logged and reported as 500 without leaking their message.
func WriteError(w http.ResponseWriter, logger *zap.Logger, traceID string, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteValidationError(w, logger, traceID, ve.Message, ve.Details...)
		return
	}

	resp := ErrorResponse{TraceID: traceID, Timestamp: time.Now().UTC()}

	if cre, ok := apperrors.IsCouponRejectedError(err); ok {
		resp.Status, resp.Code, resp.Message = http.StatusUnprocessableEntity, "COUPON_REJECTED", cre.Error()
		resp.Reason = string(cre.Reason)
	} else if _, ok := apperrors.IsNotFoundError(err); ok {
		resp.Status, resp.Code, resp.Message = http.StatusNotFound, "NOT_FOUND", err.Error()
	} else if _, ok := apperrors.IsConflictError(err); ok {
		resp.Status, resp.Code, resp.Message = http.StatusConflict, "CONFLICT", err.Error()
	} else if _, ok := apperrors.IsForbiddenError(err); ok {
		resp.Status, resp.Code, resp.Message = http.StatusForbidden, "FORBIDDEN", err.Error()
	} else if _, ok := apperrors.IsDeadlockError(err); ok {
		resp.Status, resp.Code, resp.Message = http.StatusConflict, "DEADLOCK", err.Error()
	} else if rwf, ok := apperrors.IsRemoteWriteFailure(err); ok {
		logger.Error("remote write failed", zap.String("stage", string(rwf.Stage)), zap.String("orderId", rwf.OrderID), zap.Error(err))
		resp.Status, resp.Code, resp.Message = http.StatusBadGateway, "REMOTE_WRITE_FAILED", "could not save the order, please try again"
		resp.OrderID = rwf.OrderID
	} else {
		logger.Error("unexpected error", zap.Error(err))
		resp.Status, resp.Code, resp.Message = http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred"
	}

	WriteJSON(w, logger, resp.Status, resp)
}

// Validate runs struct tags through validate and converts failures into a
// ValidationError with one detail per field.
func Validate(ctx context.Context, validate *validator.Validate, payload interface{}) error {
	err := validate.StructCtx(ctx, payload)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !stderrors.As(err, &fieldErrors) {
		return apperrors.NewValidationError(err.Error())
	}

	details := make([]apperrors.ValidationDetail, len(fieldErrors))
	for i, fe := range fieldErrors {
		details[i] = apperrors.ValidationDetail{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("failed on '%s' rule", fe.Tag()),
		}
	}

	return apperrors.NewValidationError("validation failed", details...)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}
	return nil
}
