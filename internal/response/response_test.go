package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "storefront/internal/errors"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"coupon rejected", apperrors.NewCouponRejectedError("X", apperrors.CouponExpired), http.StatusUnprocessableEntity, "COUPON_REJECTED"},
		{"not found", apperrors.NewNotFoundError("business not found"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", apperrors.NewConflictError("dup"), http.StatusConflict, "CONFLICT"},
		{"remote write", apperrors.NewRemoteWriteFailure("o-1", apperrors.StageOrderItems, errors.New("boom")), http.StatusBadGateway, "REMOTE_WRITE_FAILED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, zap.NewNop(), "trace-1", tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "trace-1", body.TraceID)
		})
	}
}

func TestWriteError_CouponReasonAndOrderID(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, zap.NewNop(), "t", apperrors.NewCouponRejectedError("X", apperrors.CouponBelowMinimum))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "BELOW_MINIMUM", body.Reason)

	rec = httptest.NewRecorder()
	WriteError(rec, zap.NewNop(), "t", apperrors.NewRemoteWriteFailure("o-9", apperrors.StageOrderItems, errors.New("x")))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "o-9", body.OrderID)
	assert.Equal(t, "could not save the order, please try again", body.Message)
}

func TestWriteError_Validation(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, zap.NewNop(), "t", apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{Field: "items", Message: "cart is empty"}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_ERROR", body.Error)
	assert.Len(t, body.Details, 1)
}

type payload struct {
	Name  string `validate:"required"`
	Count int    `validate:"min=1"`
}

func TestValidate(t *testing.T) {
	v := validator.New()

	assert.NoError(t, Validate(context.Background(), v, payload{Name: "a", Count: 1}))

	err := Validate(context.Background(), v, payload{})
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 2)
	assert.Equal(t, "payload.Name", ve.Details[0].Field)
}

func TestDecodeJSON_Invalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	var dst payload

	err := DecodeJSON(req, &dst)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}
