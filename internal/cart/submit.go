package cart

import (
	"fmt"
	"strings"

	apperrors "storefront/internal/errors"
)

// Validate reports every missing or malformed field of the request at once.
func (req SubmitRequest) Validate() error {
	var details []apperrors.ValidationDetail

	if len(req.Lines) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "lines",
			Message: "cart must not be empty",
		})
	}

	if strings.TrimSpace(req.Customer.Name) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customer.name",
			Message: "customer name is required",
		})
	}

	if strings.TrimSpace(req.Customer.Phone) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customer.phone",
			Message: "customer phone is required",
		})
	}

	if !req.Mode.Valid() {
		details = append(details, apperrors.ValidationDetail{
			Field:   "fulfillmentMode",
			Message: "fulfillment mode must be delivery or pickup",
		})
	}

	for i, line := range req.Lines {
		if line.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("lines[%d].quantity", i),
				Message: "quantity must be at least 1",
			})
		}
		if line.UnitPrice.IsNegative() {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("lines[%d].unitPrice", i),
				Message: "unit price must be non-negative",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}
